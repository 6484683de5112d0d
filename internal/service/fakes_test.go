package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kamalhaddad27/servicedesk-fik/internal/domain"
	"github.com/kamalhaddad27/servicedesk-fik/internal/repository"
)

// fakeTicketRepo is an in-memory TicketRepository with the same optimistic
// concurrency semantics as the postgres implementation: a conditional
// write whose expected updated_at no longer matches fails with
// ErrStaleTicket and leaves the stored ticket untouched.
type fakeTicketRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Ticket

	// beforeUpdate, when set, runs once just before a conditional write,
	// after the caller has read its snapshot. Tests use it to interleave
	// a concurrent mutation.
	beforeUpdate func()

	messages *fakeMessageRepo
}

func newFakeTicketRepo(messages *fakeMessageRepo) *fakeTicketRepo {
	return &fakeTicketRepo{byID: make(map[int64]domain.Ticket), messages: messages}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ticket.ID = r.nextID
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.byID[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := stored
	return &copied, nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket, expectedUpdatedAt time.Time) error {
	return r.conditionalWrite(ticket, expectedUpdatedAt, nil)
}

func (r *fakeTicketRepo) UpdateWithMessage(_ context.Context, ticket *domain.Ticket, expectedUpdatedAt time.Time, msg *domain.TicketMessage) error {
	return r.conditionalWrite(ticket, expectedUpdatedAt, msg)
}

func (r *fakeTicketRepo) conditionalWrite(ticket *domain.Ticket, expectedUpdatedAt time.Time, msg *domain.TicketMessage) error {
	if hook := r.takeBeforeUpdate(); hook != nil {
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return repository.ErrStaleTicket
	}

	now := time.Now()
	if !now.After(stored.UpdatedAt) {
		now = stored.UpdatedAt.Add(time.Millisecond)
	}
	ticket.UpdatedAt = now
	ticket.CreatedAt = stored.CreatedAt
	r.byID[ticket.ID] = *ticket

	if msg != nil && r.messages != nil {
		r.messages.append(msg)
	}
	return nil
}

func (r *fakeTicketRepo) takeBeforeUpdate() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	hook := r.beforeUpdate
	r.beforeUpdate = nil
	return hook
}

func (r *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Ticket
	for _, ticket := range r.byID {
		if !ticketMatches(ticket, filter) {
			continue
		}
		matched = append(matched, ticket)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	offset := filter.Offset
	if offset > total {
		offset = total
	}
	end := offset + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func ticketMatches(ticket domain.Ticket, filter repository.TicketFilter) bool {
	if filter.CreatedBy != nil && ticket.CreatedBy != *filter.CreatedBy {
		return false
	}
	if filter.AssignedTo != nil && (ticket.AssignedTo == nil || *ticket.AssignedTo != *filter.AssignedTo) {
		return false
	}
	if filter.Unassigned && ticket.AssignedTo != nil {
		return false
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
		return false
	}
	if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, ticket.Priority) {
		return false
	}
	if filter.CategoryID != nil && ticket.CategoryID != *filter.CategoryID {
		return false
	}
	if filter.SearchTerm != nil {
		needle := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
		subject := strings.ToLower(ticket.Subject)
		description := strings.ToLower(ticket.Description)
		if !strings.Contains(subject, needle) && !strings.Contains(description, needle) {
			return false
		}
	}
	return true
}

func containsStatus(list []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range list {
		if s == status {
			return true
		}
	}
	return false
}

func containsPriority(list []domain.TicketPriority, priority domain.TicketPriority) bool {
	for _, p := range list {
		if p == priority {
			return true
		}
	}
	return false
}

type fakeMessageRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64][]domain.TicketMessage
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{byID: make(map[int64][]domain.TicketMessage)}
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.TicketMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendLocked(msg)
	return nil
}

func (r *fakeMessageRepo) append(msg *domain.TicketMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendLocked(msg)
}

func (r *fakeMessageRepo) appendLocked(msg *domain.TicketMessage) {
	r.nextID++
	msg.ID = r.nextID
	msg.CreatedAt = time.Now()
	r.byID[msg.TicketID] = append(r.byID[msg.TicketID], *msg)
}

func (r *fakeMessageRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := make([]domain.TicketMessage, len(r.byID[ticketID]))
	copy(msgs, r.byID[ticketID])
	return msgs, nil
}

type fakeDisposisiRepo struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64][]domain.DisposisiRecord
	tickets *fakeTicketRepo
}

func newFakeDisposisiRepo(tickets *fakeTicketRepo) *fakeDisposisiRepo {
	return &fakeDisposisiRepo{byID: make(map[int64][]domain.DisposisiRecord), tickets: tickets}
}

func (r *fakeDisposisiRepo) Forward(ctx context.Context, ticket *domain.Ticket, expectedUpdatedAt time.Time, record *domain.DisposisiRecord) error {
	// Record and ticket move together: the record only lands when the
	// conditional ticket write succeeds.
	if err := r.tickets.Update(ctx, ticket, expectedUpdatedAt); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	record.ID = r.nextID
	record.CreatedAt = time.Now()
	r.byID[ticket.ID] = append(r.byID[ticket.ID], *record)
	return nil
}

func (r *fakeDisposisiRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.DisposisiRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]domain.DisposisiRecord, len(r.byID[ticketID]))
	copy(records, r.byID[ticketID])
	return records, nil
}

type fakeActorRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Actor
}

func newFakeActorRepo() *fakeActorRepo {
	return &fakeActorRepo{byID: make(map[int64]domain.Actor)}
}

func (r *fakeActorRepo) add(actor domain.Actor) *domain.Actor {
	r.mu.Lock()
	defer r.mu.Unlock()
	if actor.ID == 0 {
		r.nextID++
		actor.ID = r.nextID
	} else if actor.ID > r.nextID {
		r.nextID = actor.ID
	}
	r.byID[actor.ID] = actor
	copied := actor
	return &copied
}

func (r *fakeActorRepo) Create(_ context.Context, actor *domain.Actor) error {
	stored := r.add(*actor)
	actor.ID = stored.ID
	return nil
}

func (r *fakeActorRepo) GetByID(_ context.Context, id int64) (*domain.Actor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	actor, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := actor
	return &copied, nil
}

func (r *fakeActorRepo) GetByEmail(_ context.Context, email string) (*domain.Actor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, actor := range r.byID {
		if actor.Email == email {
			copied := actor
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeActorRepo) List(_ context.Context, filter repository.ActorFilter) ([]domain.Actor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Actor
	for _, actor := range r.byID {
		if filter.Active != nil && actor.Active != *filter.Active {
			continue
		}
		if len(filter.Roles) > 0 {
			found := false
			for _, role := range filter.Roles {
				if actor.Role == role {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		result = append(result, actor)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type fakeCategoryRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byID: make(map[int64]domain.Category)}
}

func (r *fakeCategoryRepo) add(category domain.Category) *domain.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category.ID == 0 {
		r.nextID++
		category.ID = r.nextID
	}
	r.byID[category.ID] = category
	copied := category
	return &copied
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	stored := r.add(*category)
	category.ID = stored.ID
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := category
	return &copied, nil
}

func (r *fakeCategoryRepo) List(_ context.Context, activeOnly bool) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Category
	for _, category := range r.byID {
		if activeOnly && !category.IsActive {
			continue
		}
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeCategoryRepo) SetActive(_ context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	category.IsActive = active
	r.byID[id] = category
	return nil
}

type fakeReportRepo struct {
	byStatus   map[domain.TicketStatus]int
	byPriority map[domain.TicketPriority]int
	byCategory map[int64]int
	calls      int
}

func (r *fakeReportRepo) CountByStatus(context.Context) (map[domain.TicketStatus]int, error) {
	r.calls++
	return r.byStatus, nil
}

func (r *fakeReportRepo) CountByPriority(context.Context) (map[domain.TicketPriority]int, error) {
	return r.byPriority, nil
}

func (r *fakeReportRepo) CountByCategory(context.Context) (map[int64]int, error) {
	return r.byCategory, nil
}

type fakeReportCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeReportCache() *fakeReportCache {
	return &fakeReportCache{values: make(map[string]string)}
}

func (c *fakeReportCache) GetString(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *fakeReportCache) SetString(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}
