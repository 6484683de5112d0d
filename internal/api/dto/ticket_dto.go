package dto

import (
	"time"

	"github.com/kamalhaddad27/servicedesk-fik/internal/domain"
)

// CreateTicketRequest payload for ticket creation.
type CreateTicketRequest struct {
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	CategoryID  int64                 `json:"category_id"`
	Subcategory *string               `json:"subcategory,omitempty"`
	Priority    domain.TicketPriority `json:"priority"`
}

// UpdateTicketRequest payload for descriptive edits.
type UpdateTicketRequest struct {
	Subject     *string `json:"subject,omitempty"`
	Description *string `json:"description,omitempty"`
	Subcategory *string `json:"subcategory,omitempty"`
}

// TransitionRequest payload for status transitions.
type TransitionRequest struct {
	Status         domain.TicketStatus `json:"status"`
	ResolutionNote string              `json:"resolution_note,omitempty"`
}

// PriorityRequest payload for priority changes.
type PriorityRequest struct {
	Priority domain.TicketPriority `json:"priority"`
}

// ForwardRequest payload for disposisi.
type ForwardRequest struct {
	ToActorID int64   `json:"to_actor_id"`
	Note      *string `json:"note,omitempty"`
}

// CreateMessageRequest payload for thread messages.
type CreateMessageRequest struct {
	Body       string `json:"body"`
	IsInternal bool   `json:"is_internal"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID          int64                 `json:"id"`
	ExternalKey string                `json:"external_key"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	CategoryID  int64                 `json:"category_id"`
	Subcategory *string               `json:"subcategory,omitempty"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	CreatedBy   int64                 `json:"created_by"`
	AssignedTo  *int64                `json:"assigned_to,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TicketListResponse is one page of tickets.
type TicketListResponse struct {
	Data       []TicketResponse `json:"data"`
	Page       int              `json:"page"`
	TotalItems int              `json:"total_items"`
	TotalPages int              `json:"total_pages"`
}

// DisposisiRecordResponse is the wire form of a routing record.
type DisposisiRecordResponse struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	FromActor *int64    `json:"from_actor,omitempty"`
	ToActor   int64     `json:"to_actor"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketMessageResponse is the wire form of a thread message.
type TicketMessageResponse struct {
	ID         int64                    `json:"id"`
	TicketID   int64                    `json:"ticket_id"`
	AuthorType domain.MessageAuthorType `json:"author_type"`
	AuthorID   *int64                   `json:"author_id,omitempty"`
	Body       string                   `json:"body"`
	IsInternal bool                     `json:"is_internal"`
	CreatedAt  time.Time                `json:"created_at"`
}
