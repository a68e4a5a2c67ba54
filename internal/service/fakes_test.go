package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dormhub/facility-service/internal/domain"
	"github.com/dormhub/facility-service/internal/events"
	"github.com/dormhub/facility-service/internal/repository"
)

// fakeTicketRepo mirrors the SQL repository's contract: transition methods
// apply their status guard atomically and return pgx.ErrNoRows when the
// guard misses.
type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int
	clock   time.Time
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		clock:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		tickets: make(map[string]*domain.Ticket),
	}
}

func (r *fakeTicketRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Minute)
	return r.clock
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	now := r.tick()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetByExternalKey(_ context.Context, key string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ticket := range r.tickets {
		if ticket.ExternalKey == key {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) Assign(_ context.Context, ticketID, staffID string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[ticketID]
	if !ok || domain.Terminal(ticket.Status) {
		return nil, pgx.ErrNoRows
	}
	ticket.Status = domain.TicketStatusAssigned
	ticket.AssignedStaffID = &staffID
	ticket.UpdatedAt = r.tick()
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) Resolve(_ context.Context, ticketID string) (*domain.Ticket, error) {
	return r.close(ticketID, domain.TicketStatusResolved)
}

func (r *fakeTicketRepo) Reject(_ context.Context, ticketID string) (*domain.Ticket, error) {
	return r.close(ticketID, domain.TicketStatusRejected)
}

func (r *fakeTicketRepo) close(ticketID string, target domain.TicketStatus) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[ticketID]
	if !ok || domain.Terminal(ticket.Status) {
		return nil, pgx.ErrNoRows
	}
	now := r.tick()
	ticket.Status = target
	ticket.ResolvedAt = &now
	ticket.UpdatedAt = now
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) Rate(_ context.Context, ticketID string, rating int, comment *string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[ticketID]
	if !ok || ticket.Status != domain.TicketStatusResolved || ticket.Rating != nil {
		return nil, pgx.ErrNoRows
	}
	now := r.tick()
	ticket.Rating = &rating
	ticket.RatingComment = comment
	ticket.RatedAt = &now
	ticket.UpdatedAt = now
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.ReporterID != nil && ticket.ReporterID != *filter.ReporterID {
			continue
		}
		if filter.AssignedStaffID != nil &&
			(ticket.AssignedStaffID == nil || *ticket.AssignedStaffID != *filter.AssignedStaffID) {
			continue
		}
		if filter.Kind != nil && ticket.Kind != *filter.Kind {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		out = append(out, *ticket)
	}
	// mirror the SQL contract: order first, then cut the page
	key := filter.SortKey
	if key == "" {
		key = domain.SortByPriority
	}
	domain.SortTickets(out, key, filter.Ascending)
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return nil, nil
	}
	if end := offset + limit; end < len(out) {
		out = out[:end]
	}
	return out[offset:], nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// seed inserts a ticket directly, bypassing service validation.
func (r *fakeTicketRepo) seed(ticket domain.Ticket) *domain.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if ticket.ID == "" {
		ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = r.tick()
	}
	ticket.UpdatedAt = ticket.CreatedAt
	copied := ticket
	r.tickets[ticket.ID] = &copied
	return &copied
}

type fakeCategoryRepo struct {
	categories []domain.Category
}

func newFakeCategoryRepo(categories ...domain.Category) *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: categories}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	category.ID = fmt.Sprintf("category-%d", len(r.categories)+1)
	r.categories = append(r.categories, *category)
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	for i := range r.categories {
		if r.categories[i].ID == category.ID {
			r.categories[i] = *category
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	for i := range r.categories {
		if r.categories[i].ID == id {
			copied := r.categories[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCategoryRepo) GetActiveByName(_ context.Context, kind domain.TicketKind, name string) (*domain.Category, error) {
	for i := range r.categories {
		c := r.categories[i]
		if c.Kind == kind && c.Name == name && c.IsActive {
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCategoryRepo) ListActive(_ context.Context, kind domain.TicketKind) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range r.categories {
		if c.Kind == kind && c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeStaffRepo struct {
	staff map[string]*domain.StaffMember
}

func newFakeStaffRepo(members ...domain.StaffMember) *fakeStaffRepo {
	repo := &fakeStaffRepo{staff: make(map[string]*domain.StaffMember)}
	for i := range members {
		copied := members[i]
		repo.staff[copied.ID] = &copied
	}
	return repo
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *domain.StaffMember) error {
	staff.ID = fmt.Sprintf("staff-%d", len(r.staff)+1)
	copied := *staff
	r.staff[staff.ID] = &copied
	return nil
}

func (r *fakeStaffRepo) Update(_ context.Context, staff *domain.StaffMember) error {
	if _, ok := r.staff[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *staff
	r.staff[staff.ID] = &copied
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	staff, ok := r.staff[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *staff
	return &copied, nil
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	for _, staff := range r.staff {
		if staff.Email == email {
			copied := *staff
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) List(_ context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	var out []domain.StaffMember
	for _, staff := range r.staff {
		if filter.Role != nil && staff.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && staff.Active != *filter.Active {
			continue
		}
		out = append(out, *staff)
	}
	return out, nil
}

// recordingDispatcher captures events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}
