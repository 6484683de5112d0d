package domain

import "time"

// MessageAuthorType indicates who authored a message.
type MessageAuthorType string

const (
	AuthorTypeActor  MessageAuthorType = "ACTOR"
	AuthorTypeSystem MessageAuthorType = "SYSTEM"
)

// TicketMessage captures one entry in a ticket's comment thread.
// Internal messages are visible to desk-side roles only. Immutable once
// created, ordered by CreatedAt ascending.
type TicketMessage struct {
	ID         int64
	TicketID   int64
	AuthorType MessageAuthorType
	AuthorID   *int64
	Body       string
	IsInternal bool
	CreatedAt  time.Time
}
