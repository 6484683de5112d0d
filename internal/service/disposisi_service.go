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

// DisposisiService models hand-off of responsibility between actors as a
// first-class, auditable event. Who holds the ticket now lives on the
// ticket; how it got there lives in the append-only record log.
type DisposisiService struct {
	tickets    repository.TicketRepository
	disposisi  repository.DisposisiRepository
	actors     repository.ActorRepository
	dispatcher events.Dispatcher
}

// DisposisiDependencies bundles collaborators.
type DisposisiDependencies struct {
	TicketRepo    repository.TicketRepository
	DisposisiRepo repository.DisposisiRepository
	ActorRepo     repository.ActorRepository
	Dispatcher    events.Dispatcher
}

// NewDisposisiService constructs the service.
func NewDisposisiService(deps DisposisiDependencies) *DisposisiService {
	return &DisposisiService{
		tickets:    deps.TicketRepo,
		disposisi:  deps.DisposisiRepo,
		actors:     deps.ActorRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Forward hands the ticket to another actor. One DisposisiRecord is
// appended, assignedTo is updated and a PENDING ticket advances to
// DISPOSISI, all in one atomic operation. Repeated forwards while in
// DISPOSISI are permitted (multi-hop triage). A concurrent forward of the
// same ticket loses with a ConflictError and may be retried after
// re-reading state.
func (s *DisposisiService) Forward(ctx context.Context, actor *domain.Actor, ticketID, toActorID int64, note *string) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.Status.IsTerminal() {
		return nil, apperrors.NewInvalidTransition(string(ticket.Status), string(domain.TicketStatusDisposisi))
	}

	target, err := s.actors.GetByID(ctx, toActorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("actor", map[string]any{"actor_id": toActorID})
		}
		return nil, apperrors.MapError(err)
	}
	if !target.Active {
		return nil, apperrors.NewValidationError("target actor suspended", map[string]any{"actor_id": toActorID})
	}
	if target.Role != domain.RoleStaff && target.Role != domain.RoleAdmin {
		return nil, apperrors.NewValidationError("tickets can only be forwarded to staff or admin", map[string]any{"actor_id": toActorID, "role": target.Role})
	}

	authorized, err := s.mayForward(ctx, actor, ticket)
	if err != nil {
		return nil, err
	}
	if !authorized {
		return nil, apperrors.NewForbidden("not allowed to forward this ticket")
	}

	var trimmedNote *string
	if note != nil {
		if n := strings.TrimSpace(*note); n != "" {
			trimmedNote = &n
		}
	}

	record := &domain.DisposisiRecord{
		TicketID:  ticket.ID,
		FromActor: ticket.AssignedTo,
		ToActor:   target.ID,
		Note:      trimmedNote,
	}

	expected := ticket.UpdatedAt
	assignedTo := target.ID
	ticket.AssignedTo = &assignedTo
	if ticket.Status == domain.TicketStatusPending {
		ticket.Status = domain.TicketStatusDisposisi
	}

	if err := s.disposisi.Forward(ctx, ticket, expected, record); err != nil {
		return nil, mapWriteError(err, ticketID)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketForwarded,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketForwardedPayload{
			FromActor: record.FromActor,
			ToActor:   record.ToActor,
			Note:      record.Note,
		},
	})
	return ticket, nil
}

// History returns the ticket's routing records, oldest first. Read-only.
func (s *DisposisiService) History(ctx context.Context, ticketID int64) ([]domain.DisposisiRecord, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	records, err := s.disposisi.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if records == nil {
		records = []domain.DisposisiRecord{}
	}
	return records, nil
}

// mayForward implements the forward preconditions: the current assignee,
// an admin, staff triaging a PENDING ticket, or staff whose department
// matches the current assignee's department.
func (s *DisposisiService) mayForward(ctx context.Context, actor *domain.Actor, ticket *domain.Ticket) (bool, error) {
	if ticket.IsAssignee(actor) {
		return true, nil
	}
	if actor.Role == domain.RoleAdmin {
		return true, nil
	}
	if actor.Role != domain.RoleStaff {
		return false, nil
	}
	if ticket.Status == domain.TicketStatusPending {
		return true, nil
	}
	if ticket.AssignedTo == nil || actor.Department == nil {
		return false, nil
	}
	holder, err := s.actors.GetByID(ctx, *ticket.AssignedTo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.MapError(err)
	}
	return holder.Department != nil && *holder.Department == *actor.Department, nil
}

func (s *DisposisiService) publishEvent(ctx context.Context, event events.Event) {
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
