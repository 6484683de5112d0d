package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "PENDING"
	TicketStatusDisposisi TicketStatus = "DISPOSISI"
	TicketStatusProgress  TicketStatus = "PROGRESS"
	TicketStatusDone      TicketStatus = "DONE"
	TicketStatusCancel    TicketStatus = "CANCEL"
)

// IsTerminal reports whether no further status transition is accepted.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusDone || s == TicketStatusCancel
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusPending, TicketStatusDisposisi, TicketStatusProgress,
		TicketStatusDone, TicketStatusCancel:
		return true
	}
	return false
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. AssignedTo is nil only
// while the ticket is PENDING (or immediately after creation); who holds
// the ticket now lives here, how it got there lives in the disposisi log.
type Ticket struct {
	ID          int64
	ExternalKey string
	Subject     string
	Description string
	CategoryID  int64
	Subcategory *string
	Priority    TicketPriority
	Status      TicketStatus
	CreatedBy   int64
	AssignedTo  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAssignee reports whether the actor currently holds the ticket.
func (t *Ticket) IsAssignee(actor *Actor) bool {
	return actor != nil && t.AssignedTo != nil && *t.AssignedTo == actor.ID
}

// IsCreator reports whether the actor opened the ticket.
func (t *Ticket) IsCreator(actor *Actor) bool {
	return actor != nil && t.CreatedBy == actor.ID
}
