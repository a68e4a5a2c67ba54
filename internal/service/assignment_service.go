package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dormhub/facility-service/internal/domain"
	"github.com/dormhub/facility-service/internal/events"
	"github.com/dormhub/facility-service/internal/repository"
	apperrors "github.com/dormhub/facility-service/pkg/util"
)

// AssignmentService binds staff identities to tickets. A ticket carries at
// most one assignee; reassignment overwrites the previous staff id and
// never clears it.
type AssignmentService struct {
	tickets    repository.TicketRepository
	staff      repository.StaffRepository
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	TicketRepo repository.TicketRepository
	StaffRepo  repository.StaffRepository
	Dispatcher events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		staff:      deps.StaffRepo,
		dispatcher: deps.Dispatcher,
	}
}

// AssignTicket binds the given staff member to a ticket (admin only).
// Open tickets advance to ASSIGNED; assigned tickets are reassigned.
func (s *AssignmentService) AssignTicket(ctx context.Context, actor *domain.StaffMember, ticketID, assigneeStaffID string) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	if actor.Role != domain.StaffRoleAdmin {
		return nil, apperrors.NewForbidden("insufficient role for assignment")
	}
	assignee, err := s.staff.GetByID(ctx, assigneeStaffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": assigneeStaffID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.Active {
		return nil, apperrors.NewConflict("assignee inactive", map[string]any{"staff_id": assigneeStaffID})
	}
	return s.applyAssignment(ctx, actor.ID, ticketID, assignee.ID)
}

// SelfAssignTicket lets a staff member claim a ticket for themselves.
func (s *AssignmentService) SelfAssignTicket(ctx context.Context, staff *domain.StaffMember, ticketID string) (*domain.Ticket, error) {
	if staff == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	if !staff.Active {
		return nil, apperrors.NewForbidden("inactive staff cannot claim tickets")
	}
	return s.applyAssignment(ctx, staff.ID, ticketID, staff.ID)
}

func (s *AssignmentService) applyAssignment(ctx context.Context, actorID, ticketID, assigneeID string) (*domain.Ticket, error) {
	previous, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	ticket, err := s.tickets.Assign(ctx, ticketID, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyAssignFailure(ctx, ticketID)
		}
		return nil, apperrors.MapError(err)
	}

	s.publishAssignmentEvent(ctx, actorID, ticket.ID, events.TicketAssignedPayload{
		AssignedStaffID: assigneeID,
		PreviousStaffID: previous.AssignedStaffID,
	})
	return ticket, nil
}

func (s *AssignmentService) classifyAssignFailure(ctx context.Context, ticketID string) error {
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	if domain.Terminal(current.Status) {
		return apperrors.NewInvalidTransition("cannot assign a closed ticket", map[string]any{
			"ticket_id": ticketID,
			"status":    current.Status,
		})
	}
	return apperrors.NewConflict("ticket changed concurrently, retry", map[string]any{
		"ticket_id": ticketID,
		"status":    current.Status,
	})
}

func (s *AssignmentService) publishAssignmentEvent(ctx context.Context, actorID, ticketID string, payload events.TicketAssignedPayload) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketAssigned,
		TicketID:  ticketID,
		Actor:     events.Actor{Type: domain.SubjectTypeStaff, StaffID: &actorID},
		Timestamp: time.Now(),
		Payload:   payload,
	}
	_ = s.dispatcher.Publish(ctx, event)
}
