package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kamalhaddad27/servicedesk-fik/internal/domain"
	"github.com/kamalhaddad27/servicedesk-fik/internal/events"
	"github.com/kamalhaddad27/servicedesk-fik/internal/repository"
	apperrors "github.com/kamalhaddad27/servicedesk-fik/pkg/util"
)

const defaultPageSize = 10

// TicketService owns the ticket store, the status state machine and the
// role-scoped listing layer.
type TicketService struct {
	tickets    repository.TicketRepository
	messages   repository.MessageRepository
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
	pageSize   int
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	MessageRepo  repository.MessageRepository
	CategoryRepo repository.CategoryRepository
	Dispatcher   events.Dispatcher
	PageSize     int
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject     string
	Description string
	CategoryID  int64
	Subcategory *string
	Priority    domain.TicketPriority
}

// TicketPatch describes the descriptive fields a creator or admin may edit.
type TicketPatch struct {
	Subject     *string
	Description *string
	Subcategory *string
}

// TransitionOptions carries extras for specific transitions.
type TransitionOptions struct {
	// ResolutionNote is required for the done transition and is recorded
	// as a system-authored message.
	ResolutionNote string
}

// AssignmentFilter narrows desk-side listings by ownership.
type AssignmentFilter string

const (
	AssignmentAll        AssignmentFilter = "all"
	AssignmentMine       AssignmentFilter = "mine"
	AssignmentUnassigned AssignmentFilter = "unassigned"
)

// ListFilter captures the caller-supplied listing parameters. Role scoping
// is applied on top of it and cannot be bypassed.
type ListFilter struct {
	Page       int
	Search     string
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	CategoryID *int64
	Assignment AssignmentFilter
}

// ListResult is one page of tickets plus pagination totals.
type ListResult struct {
	Items      []domain.Ticket
	Page       int
	TotalItems int
	TotalPages int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		categories: deps.CategoryRepo,
		dispatcher: deps.Dispatcher,
		pageSize:   pageSize,
	}
}

// Create opens a new ticket for the acting user. New tickets always start
// PENDING and unassigned.
func (s *TicketService) Create(ctx context.Context, actor *domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}

	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	if len(subject) < 5 {
		return nil, apperrors.NewValidationError("subject must be at least 5 characters", map[string]any{"field": "subject"})
	}
	if len(description) < 10 {
		return nil, apperrors.NewValidationError("description must be at least 10 characters", map[string]any{"field": "description"})
	}
	if input.CategoryID == 0 {
		return nil, apperrors.NewValidationError("category is required", map[string]any{"field": "category_id"})
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"field": "priority", "value": input.Priority})
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}
	if !category.IsActive {
		return nil, apperrors.NewValidationError("category inactive", map[string]any{"category_id": category.ID})
	}
	if input.Subcategory != nil && len(category.Subcategories) > 0 && !category.HasSubcategory(*input.Subcategory) {
		return nil, apperrors.NewValidationError("unknown subcategory", map[string]any{"subcategory": *input.Subcategory})
	}

	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		Subject:     subject,
		Description: description,
		CategoryID:  category.ID,
		Subcategory: input.Subcategory,
		Priority:    input.Priority,
		Status:      domain.TicketStatusPending,
		CreatedBy:   actor.ID,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCreatedPayload{
			CategoryID: ticket.CategoryID,
			Priority:   ticket.Priority,
			Subject:    ticket.Subject,
		},
	})
	return ticket, nil
}

// Get fetches a single ticket, enforcing role scoping: ordinary users only
// ever see their own tickets.
func (s *TicketService) Get(ctx context.Context, actor *domain.Actor, id int64) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleUser && !ticket.IsCreator(actor) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// List returns one role-scoped, filtered, paginated page of tickets.
// Requesting a page beyond range yields an empty slice, not an error.
func (s *TicketService) List(ctx context.Context, actor *domain.Actor, filter ListFilter) (*ListResult, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}

	repoFilter := repository.TicketFilter{
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		CategoryID: filter.CategoryID,
		Limit:      s.pageSize,
		Offset:     (page - 1) * s.pageSize,
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		repoFilter.SearchTerm = &search
	}

	// Role scope first; user-supplied filters never widen it.
	if actor.Role == domain.RoleUser {
		createdBy := actor.ID
		repoFilter.CreatedBy = &createdBy
	} else {
		switch filter.Assignment {
		case AssignmentMine:
			assignedTo := actor.ID
			repoFilter.AssignedTo = &assignedTo
		case AssignmentUnassigned:
			repoFilter.Unassigned = true
		case AssignmentAll, "":
		default:
			return nil, apperrors.NewValidationError("invalid assignment filter", map[string]any{"assignment": filter.Assignment})
		}
	}

	items, total, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if items == nil {
		items = []domain.Ticket{}
	}
	return &ListResult{
		Items:      items,
		Page:       page,
		TotalItems: total,
		TotalPages: (total + s.pageSize - 1) / s.pageSize,
	}, nil
}

// transitionRule is one edge of the status state machine: who may take it
// and what it additionally needs. The pending->disposisi edge is absent on
// purpose; only the disposisi engine sets that status.
type transitionRule struct {
	authorize   func(actor *domain.Actor, t *domain.Ticket) bool
	requireNote bool
}

func creatorOrAdmin(actor *domain.Actor, t *domain.Ticket) bool {
	return t.IsCreator(actor) || actor.Role == domain.RoleAdmin
}

func assigneeOnly(actor *domain.Actor, t *domain.Ticket) bool {
	return t.IsAssignee(actor)
}

func assigneeOrAdmin(actor *domain.Actor, t *domain.Ticket) bool {
	return t.IsAssignee(actor) || actor.Role == domain.RoleAdmin
}

var transitionTable = map[domain.TicketStatus]map[domain.TicketStatus]transitionRule{
	domain.TicketStatusPending: {
		domain.TicketStatusCancel: {authorize: creatorOrAdmin},
	},
	domain.TicketStatusDisposisi: {
		domain.TicketStatusProgress: {authorize: assigneeOnly},
		domain.TicketStatusCancel:   {authorize: creatorOrAdmin},
	},
	domain.TicketStatusProgress: {
		domain.TicketStatusDone:   {authorize: assigneeOrAdmin, requireNote: true},
		domain.TicketStatusCancel: {authorize: creatorOrAdmin},
	},
}

// TransitionStatus moves a ticket along the state machine. Status and
// updatedAt change together or not at all; a concurrent mutation of the
// same ticket surfaces as a ConflictError.
func (s *TicketService) TransitionStatus(ctx context.Context, actor *domain.Actor, id int64, newStatus domain.TicketStatus, opts TransitionOptions) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	rule, ok := transitionTable[ticket.Status][newStatus]
	if !ok {
		return nil, apperrors.NewInvalidTransition(string(ticket.Status), string(newStatus))
	}
	if !rule.authorize(actor, ticket) {
		return nil, apperrors.NewForbidden("not allowed to perform this transition")
	}

	note := strings.TrimSpace(opts.ResolutionNote)
	if rule.requireNote && note == "" {
		return nil, apperrors.NewValidationError("resolution note required", map[string]any{"field": "resolution_note"})
	}

	oldStatus := ticket.Status
	expected := ticket.UpdatedAt
	ticket.Status = newStatus

	if rule.requireNote {
		sysMsg := &domain.TicketMessage{
			TicketID:   ticket.ID,
			AuthorType: domain.AuthorTypeSystem,
			Body:       note,
			IsInternal: false,
		}
		err = s.tickets.UpdateWithMessage(ctx, ticket, expected, sysMsg)
	} else {
		err = s.tickets.Update(ctx, ticket, expected)
	}
	if err != nil {
		ticket.Status = oldStatus
		return nil, mapWriteError(err, id)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Note:      note,
		},
	})
	return ticket, nil
}

// UpdatePriority changes ticket priority independently of status. Ordinary
// users cannot alter priority, not even on their own tickets.
func (s *TicketService) UpdatePriority(ctx context.Context, actor *domain.Actor, id int64, newPriority domain.TicketPriority) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if !actor.IsDeskSide() {
		return nil, apperrors.NewForbidden("only desk roles may change priority")
	}
	if !domain.ValidPriority(newPriority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": newPriority})
	}

	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPriority := ticket.Priority
	expected := ticket.UpdatedAt
	ticket.Priority = newPriority
	if err := s.tickets.Update(ctx, ticket, expected); err != nil {
		ticket.Priority = oldPriority
		return nil, mapWriteError(err, id)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketPriorityChanged,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: newPriority,
		},
	})
	return ticket, nil
}

// UpdateDetails edits the descriptive fields. Only the creator (while the
// ticket is still PENDING) or an admin may do so.
func (s *TicketService) UpdateDetails(ctx context.Context, actor *domain.Actor, id int64, patch TicketPatch) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin {
		if !ticket.IsCreator(actor) {
			return nil, apperrors.NewForbidden("access denied")
		}
		if ticket.Status != domain.TicketStatusPending {
			return nil, apperrors.NewForbidden("ticket already in triage")
		}
	}

	if patch.Subject != nil {
		subject := strings.TrimSpace(*patch.Subject)
		if len(subject) < 5 {
			return nil, apperrors.NewValidationError("subject must be at least 5 characters", map[string]any{"field": "subject"})
		}
		ticket.Subject = subject
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if len(description) < 10 {
			return nil, apperrors.NewValidationError("description must be at least 10 characters", map[string]any{"field": "description"})
		}
		ticket.Description = description
	}
	if patch.Subcategory != nil {
		ticket.Subcategory = patch.Subcategory
	}

	expected := ticket.UpdatedAt
	if err := s.tickets.Update(ctx, ticket, expected); err != nil {
		return nil, mapWriteError(err, id)
	}
	return ticket, nil
}

// AddMessage appends an entry to the ticket's comment thread.
func (s *TicketService) AddMessage(ctx context.Context, actor *domain.Actor, ticketID int64, body string, isInternal bool) (*domain.TicketMessage, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("message body required", map[string]any{"field": "body"})
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.canParticipate(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if isInternal && !actor.IsDeskSide() {
		return nil, apperrors.NewForbidden("internal notes are desk-only")
	}

	authorID := actor.ID
	msg := &domain.TicketMessage{
		TicketID:   ticket.ID,
		AuthorType: domain.AuthorTypeActor,
		AuthorID:   &authorID,
		Body:       strings.TrimSpace(body),
		IsInternal: isInternal,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketMessageAdded,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketMessageAddedPayload{
			MessageID:  msg.ID,
			IsInternal: msg.IsInternal,
			AuthorID:   msg.AuthorID,
		},
	})
	return msg, nil
}

// ListMessages returns the chronological thread, with internal notes
// filtered out for ordinary-user viewers.
func (s *TicketService) ListMessages(ctx context.Context, actor *domain.Actor, ticketID int64) ([]domain.TicketMessage, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.canParticipate(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	msgs, err := s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if actor.IsDeskSide() {
		return msgs, nil
	}
	visible := make([]domain.TicketMessage, 0, len(msgs))
	for _, msg := range msgs {
		if msg.IsInternal {
			continue
		}
		visible = append(visible, msg)
	}
	return visible, nil
}

func (s *TicketService) canParticipate(actor *domain.Actor, ticket *domain.Ticket) bool {
	if actor.IsDeskSide() {
		return true
	}
	return ticket.IsCreator(actor)
}

func (s *TicketService) getTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func mapWriteError(err error, ticketID int64) error {
	if errors.Is(err, repository.ErrStaleTicket) {
		return apperrors.NewConflict("ticket modified concurrently, retry", map[string]any{"ticket_id": ticketID})
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return apperrors.MapError(err)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateTicketKey() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
