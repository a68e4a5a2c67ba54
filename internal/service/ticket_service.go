package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dormhub/facility-service/internal/domain"
	"github.com/dormhub/facility-service/internal/events"
	"github.com/dormhub/facility-service/internal/repository"
	apperrors "github.com/dormhub/facility-service/pkg/util"
)

// TicketService owns ticket creation, terminal transitions and the
// read-only view projections consumed by listing UIs.
type TicketService struct {
	tickets    repository.TicketRepository
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CategoryRepo repository.CategoryRepository
	Dispatcher   events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Kind        domain.TicketKind
	Room        string
	Category    string
	Priority    domain.TicketPriority
	Description string
}

// TicketListOptions selects scope and ordering for listings.
type TicketListOptions struct {
	Kind      *domain.TicketKind
	SortKey   domain.TicketSortKey
	Ascending bool
	Limit     int
	Offset    int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		categories: deps.CategoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket files a new request or complaint for a resident. The ticket
// starts in OPEN with the category checked against the active taxonomy for
// its kind.
func (s *TicketService) CreateTicket(ctx context.Context, resident *domain.Resident, input TicketCreateInput) (*domain.Ticket, error) {
	if resident == nil {
		return nil, apperrors.NewUnauthorized("resident required")
	}
	if !domain.ValidKind(input.Kind) {
		return nil, apperrors.NewValidationError("kind must be REQUEST or COMPLAINT", nil)
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description required", nil)
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, apperrors.NewValidationError("category required", nil)
	}
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}
	if _, err := s.categories.GetActiveByName(ctx, input.Kind, strings.TrimSpace(input.Category)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("category not in taxonomy for kind", map[string]any{
				"kind":     input.Kind,
				"category": input.Category,
			})
		}
		return nil, apperrors.MapError(err)
	}

	room := strings.TrimSpace(input.Room)
	if room == "" {
		room = resident.Room
	}

	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(input.Kind),
		Kind:        input.Kind,
		ReporterID:  resident.ID,
		Room:        room,
		Category:    strings.TrimSpace(input.Category),
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    residentActor(resident.ID),
		Payload: events.TicketCreatedPayload{
			Kind:     ticket.Kind,
			Category: ticket.Category,
			Room:     ticket.Room,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// MarkResolved closes a ticket as successfully handled. Open tickets may be
// resolved directly by any active staff member (fast path without a formal
// assignment record); assigned tickets only by their assignee or an admin.
func (s *TicketService) MarkResolved(ctx context.Context, staff *domain.StaffMember, ticketID string) (*domain.Ticket, error) {
	return s.closeTicket(ctx, staff, ticketID, domain.TicketStatusResolved)
}

// RejectTicket closes a ticket as not actionable. Same actor rules as
// MarkResolved; rejected tickets are never ratable.
func (s *TicketService) RejectTicket(ctx context.Context, staff *domain.StaffMember, ticketID string) (*domain.Ticket, error) {
	return s.closeTicket(ctx, staff, ticketID, domain.TicketStatusRejected)
}

func (s *TicketService) closeTicket(ctx context.Context, staff *domain.StaffMember, ticketID string, target domain.TicketStatus) (*domain.Ticket, error) {
	if staff == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !staffMayClose(staff, current) {
		return nil, apperrors.NewForbidden("ticket is assigned to another staff member")
	}

	oldStatus := current.Status
	var ticket *domain.Ticket
	if target == domain.TicketStatusRejected {
		ticket, err = s.tickets.Reject(ctx, ticketID)
	} else {
		ticket, err = s.tickets.Resolve(ctx, ticketID)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyLostUpdate(ctx, ticketID, target)
		}
		return nil, apperrors.MapError(err)
	}

	eventType := events.EventTicketResolved
	if target == domain.TicketStatusRejected {
		eventType = events.EventTicketRejected
	}
	s.publishEvent(ctx, events.Event{
		Type:     eventType,
		TicketID: ticket.ID,
		Actor:    staffActor(staff.ID),
		Payload: events.TicketClosedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		},
	})
	return ticket, nil
}

// staffMayClose permits the assignee, any staff on an unassigned open
// ticket, and admins.
func staffMayClose(staff *domain.StaffMember, ticket *domain.Ticket) bool {
	if staff.Role == domain.StaffRoleAdmin {
		return true
	}
	if ticket.AssignedStaffID == nil {
		return true
	}
	return *ticket.AssignedStaffID == staff.ID
}

// classifyLostUpdate turns a guarded-update miss into the right error kind
// by reading the row the update refused to touch.
func (s *TicketService) classifyLostUpdate(ctx context.Context, ticketID string, target domain.TicketStatus) error {
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	if domain.Terminal(current.Status) {
		return apperrors.NewInvalidTransition("ticket already closed", map[string]any{
			"ticket_id": ticketID,
			"status":    current.Status,
			"target":    target,
		})
	}
	return apperrors.NewConflict("ticket changed concurrently, retry", map[string]any{
		"ticket_id": ticketID,
		"status":    current.Status,
	})
}

// GetTicketForResident fetches a ticket ensuring ownership.
func (s *TicketService) GetTicketForResident(ctx context.Context, residentID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.ReporterID != residentID {
		return nil, apperrors.NewForbidden("not the reporter of this ticket")
	}
	return ticket, nil
}

// GetTicketForStaff fetches a ticket for any authenticated staff member.
func (s *TicketService) GetTicketForStaff(ctx context.Context, staff *domain.StaffMember, ticketID string) (*domain.Ticket, error) {
	if staff == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// ListActiveForResident returns the reporter's non-terminal tickets.
func (s *TicketService) ListActiveForResident(ctx context.Context, residentID string, opts TicketListOptions) ([]domain.Ticket, error) {
	return s.list(ctx, repository.TicketFilter{
		ReporterID: &residentID,
		Statuses:   activeStatuses(),
	}, opts)
}

// ListHistoryForResident returns the reporter's terminal tickets.
func (s *TicketService) ListHistoryForResident(ctx context.Context, residentID string, opts TicketListOptions) ([]domain.Ticket, error) {
	return s.list(ctx, repository.TicketFilter{
		ReporterID: &residentID,
		Statuses:   terminalStatuses(),
	}, opts)
}

// ListAllForResident returns every ticket the reporter filed, active and
// closed together.
func (s *TicketService) ListAllForResident(ctx context.Context, residentID string, opts TicketListOptions) ([]domain.Ticket, error) {
	return s.list(ctx, repository.TicketFilter{ReporterID: &residentID}, opts)
}

// ListActive returns all non-terminal tickets (staff/admin queue).
func (s *TicketService) ListActive(ctx context.Context, opts TicketListOptions) ([]domain.Ticket, error) {
	return s.list(ctx, repository.TicketFilter{Statuses: activeStatuses()}, opts)
}

// ListHistory returns all terminal tickets (staff/admin archive).
func (s *TicketService) ListHistory(ctx context.Context, opts TicketListOptions) ([]domain.Ticket, error) {
	return s.list(ctx, repository.TicketFilter{Statuses: terminalStatuses()}, opts)
}

// ListAssignedToStaff returns a staff member's workload. With activeOnly it
// is the "my open tasks" view.
func (s *TicketService) ListAssignedToStaff(ctx context.Context, staffID string, activeOnly bool, opts TicketListOptions) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{AssignedStaffID: &staffID}
	if activeOnly {
		filter.Statuses = activeStatuses()
	}
	return s.list(ctx, filter, opts)
}

// list hands the sort key to the repository so ordering happens before the
// page is cut; sorting the returned page here would hide high-priority
// tickets that fall outside the newest page.
func (s *TicketService) list(ctx context.Context, filter repository.TicketFilter, opts TicketListOptions) ([]domain.Ticket, error) {
	filter.Kind = opts.Kind
	filter.SortKey = opts.SortKey
	if filter.SortKey == "" {
		filter.SortKey = domain.SortByPriority
	}
	filter.Ascending = opts.Ascending
	filter.Limit = opts.Limit
	filter.Offset = opts.Offset
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func activeStatuses() []domain.TicketStatus {
	return []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusAssigned}
}

func terminalStatuses() []domain.TicketStatus {
	return []domain.TicketStatus{domain.TicketStatusResolved, domain.TicketStatusRejected}
}

func generateTicketKey(kind domain.TicketKind) string {
	prefix := "REQ-"
	if kind == domain.TicketKindComplaint {
		prefix = "CMP-"
	}
	return prefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
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

func residentActor(residentID string) events.Actor {
	return events.Actor{
		Type:       domain.SubjectTypeResident,
		ResidentID: &residentID,
	}
}

func staffActor(staffID string) events.Actor {
	return events.Actor{
		Type:    domain.SubjectTypeStaff,
		StaffID: &staffID,
	}
}
