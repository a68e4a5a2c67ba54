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

// FeedbackService accepts a satisfaction rating exactly once per ticket,
// only after the ticket reached RESOLVED.
type FeedbackService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewFeedbackService constructs the service.
func NewFeedbackService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *FeedbackService {
	return &FeedbackService{tickets: tickets, dispatcher: dispatcher}
}

// SubmitRating records the reporter's one-shot rating and optional comment.
// It never touches ticket status.
func (s *FeedbackService) SubmitRating(ctx context.Context, residentID, ticketID string, rating int, comment string) (*domain.Ticket, error) {
	if !domain.ValidRating(rating) {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if current.ReporterID != residentID {
		return nil, apperrors.NewForbidden("only the reporter may rate a ticket")
	}

	var commentPtr *string
	if trimmed := strings.TrimSpace(comment); trimmed != "" {
		commentPtr = &trimmed
	}

	ticket, err := s.tickets.Rate(ctx, ticketID, rating, commentPtr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyRatingFailure(ctx, ticketID)
		}
		return nil, apperrors.MapError(err)
	}

	s.publishRatedEvent(ctx, residentID, ticket.ID, rating, comment)
	return ticket, nil
}

func (s *FeedbackService) classifyRatingFailure(ctx context.Context, ticketID string) error {
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	if current.Rated() {
		return apperrors.NewConflict("ticket already rated", map[string]any{
			"ticket_id": ticketID,
			"rating":    *current.Rating,
		})
	}
	if current.Status != domain.TicketStatusResolved {
		return apperrors.NewInvalidTransition("only resolved tickets can be rated", map[string]any{
			"ticket_id": ticketID,
			"status":    current.Status,
		})
	}
	return apperrors.NewConflict("ticket changed concurrently, retry", map[string]any{"ticket_id": ticketID})
}

func (s *FeedbackService) publishRatedEvent(ctx context.Context, residentID, ticketID string, rating int, comment string) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketRated,
		TicketID:  ticketID,
		Actor:     events.Actor{Type: domain.SubjectTypeResident, ResidentID: &residentID},
		Timestamp: time.Now(),
		Payload: events.TicketRatedPayload{
			Rating:  rating,
			Comment: strings.TrimSpace(comment),
		},
	}
	_ = s.dispatcher.Publish(ctx, event)
}
