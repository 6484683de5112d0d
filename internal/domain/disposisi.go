package domain

import "time"

// DisposisiRecord is one append-only entry in a ticket's routing history.
// FromActor is nil when the ticket was unassigned at the time of the
// forward (triage). Records are immutable once created and ordered by
// CreatedAt ascending.
type DisposisiRecord struct {
	ID        int64
	TicketID  int64
	FromActor *int64
	ToActor   int64
	Note      *string
	CreatedAt time.Time
}
