package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormhub/facility-service/internal/domain"
	"github.com/dormhub/facility-service/internal/events"
	apperrors "github.com/dormhub/facility-service/pkg/util"
)

func newFeedbackServiceForTest() (*FeedbackService, *fakeTicketRepo, *recordingDispatcher) {
	tickets := newFakeTicketRepo()
	dispatcher := &recordingDispatcher{}
	return NewFeedbackService(tickets, dispatcher), tickets, dispatcher
}

func TestSubmitRating(t *testing.T) {
	svc, tickets, dispatcher := newFeedbackServiceForTest()
	seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: domain.TicketStatusResolved})

	ticket, err := svc.SubmitRating(context.Background(), "resident-1", seeded.ID, 4, "quick fix, thanks")
	require.NoError(t, err)
	require.NotNil(t, ticket.Rating)
	assert.Equal(t, 4, *ticket.Rating)
	require.NotNil(t, ticket.RatingComment)
	assert.Equal(t, "quick fix, thanks", *ticket.RatingComment)
	assert.NotNil(t, ticket.RatedAt)
	assert.Equal(t, domain.TicketStatusResolved, ticket.Status, "rating never changes status")

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketRated, published[0].Type)
}

func TestSubmitRatingWithoutComment(t *testing.T) {
	svc, tickets, _ := newFeedbackServiceForTest()
	seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: domain.TicketStatusResolved})

	ticket, err := svc.SubmitRating(context.Background(), "resident-1", seeded.ID, 5, "   ")
	require.NoError(t, err)
	assert.Nil(t, ticket.RatingComment)
}

func TestSubmitRatingBounds(t *testing.T) {
	svc, tickets, _ := newFeedbackServiceForTest()
	seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: domain.TicketStatusResolved})
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := svc.SubmitRating(ctx, "resident-1", seeded.ID, rating, "")
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"), "rating %d: got %v", rating, err)
	}
}

func TestSubmitRatingIsWriteOnce(t *testing.T) {
	svc, tickets, _ := newFeedbackServiceForTest()
	seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: domain.TicketStatusResolved})
	ctx := context.Background()

	_, err := svc.SubmitRating(ctx, "resident-1", seeded.ID, 5, "")
	require.NoError(t, err)

	_, err = svc.SubmitRating(ctx, "resident-1", seeded.ID, 1, "changed my mind")
	assert.True(t, apperrors.IsCode(err, "CONFLICT"), "got %v", err)

	// first write stands
	current, err := tickets.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, *current.Rating)
}

func TestSubmitRatingRequiresResolved(t *testing.T) {
	svc, tickets, _ := newFeedbackServiceForTest()
	ctx := context.Background()

	for _, status := range []domain.TicketStatus{
		domain.TicketStatusOpen,
		domain.TicketStatusAssigned,
		domain.TicketStatusRejected,
	} {
		seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: status})
		_, err := svc.SubmitRating(ctx, "resident-1", seeded.ID, 3, "")
		assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"), "status %s: got %v", status, err)
	}
}

func TestSubmitRatingReporterOnly(t *testing.T) {
	svc, tickets, _ := newFeedbackServiceForTest()
	seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: domain.TicketStatusResolved})

	_, err := svc.SubmitRating(context.Background(), "resident-2", seeded.ID, 4, "")
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"), "got %v", err)
}

func TestSubmitRatingUnknownTicket(t *testing.T) {
	svc, _, _ := newFeedbackServiceForTest()
	_, err := svc.SubmitRating(context.Background(), "resident-1", "ticket-404", 4, "")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"), "got %v", err)
}
