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

func newAssignmentServiceForTest(members ...domain.StaffMember) (*AssignmentService, *fakeTicketRepo, *recordingDispatcher) {
	tickets := newFakeTicketRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewAssignmentService(AssignmentDependencies{
		TicketRepo: tickets,
		StaffRepo:  newFakeStaffRepo(members...),
		Dispatcher: dispatcher,
	})
	return svc, tickets, dispatcher
}

func TestAssignTicket(t *testing.T) {
	svc, tickets, dispatcher := newAssignmentServiceForTest(
		domain.StaffMember{ID: "staff-1", Role: domain.StaffRoleWorker, Active: true},
	)
	seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: domain.TicketStatusOpen})

	ticket, err := svc.AssignTicket(context.Background(), admin("admin-1"), seeded.ID, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusAssigned, ticket.Status)
	require.NotNil(t, ticket.AssignedStaffID)
	assert.Equal(t, "staff-1", *ticket.AssignedStaffID)

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketAssigned, published[0].Type)
	payload, ok := published[0].Payload.(events.TicketAssignedPayload)
	require.True(t, ok)
	assert.Equal(t, "staff-1", payload.AssignedStaffID)
	assert.Nil(t, payload.PreviousStaffID)
}

func TestAssignRequiresAdmin(t *testing.T) {
	svc, tickets, _ := newAssignmentServiceForTest(
		domain.StaffMember{ID: "staff-1", Role: domain.StaffRoleWorker, Active: true},
	)
	seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: domain.TicketStatusOpen})

	_, err := svc.AssignTicket(context.Background(), worker("staff-2"), seeded.ID, "staff-1")
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"), "got %v", err)
}

func TestAssignUnknownAssignee(t *testing.T) {
	svc, tickets, _ := newAssignmentServiceForTest()
	seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: domain.TicketStatusOpen})

	_, err := svc.AssignTicket(context.Background(), admin("admin-1"), seeded.ID, "staff-404")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"), "got %v", err)
}

func TestAssignInactiveAssignee(t *testing.T) {
	svc, tickets, _ := newAssignmentServiceForTest(
		domain.StaffMember{ID: "staff-1", Role: domain.StaffRoleWorker, Active: false},
	)
	seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: domain.TicketStatusOpen})

	_, err := svc.AssignTicket(context.Background(), admin("admin-1"), seeded.ID, "staff-1")
	assert.True(t, apperrors.IsCode(err, "CONFLICT"), "got %v", err)
}

func TestReassignmentOverwritesAssignee(t *testing.T) {
	svc, tickets, dispatcher := newAssignmentServiceForTest(
		domain.StaffMember{ID: "staff-1", Role: domain.StaffRoleWorker, Active: true},
		domain.StaffMember{ID: "staff-2", Role: domain.StaffRoleWorker, Active: true},
	)
	seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: domain.TicketStatusOpen})
	ctx := context.Background()

	_, err := svc.AssignTicket(ctx, admin("admin-1"), seeded.ID, "staff-1")
	require.NoError(t, err)

	reassigned, err := svc.AssignTicket(ctx, admin("admin-1"), seeded.ID, "staff-2")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusAssigned, reassigned.Status)
	assert.Equal(t, "staff-2", *reassigned.AssignedStaffID)

	published := dispatcher.published()
	require.Len(t, published, 2)
	payload, ok := published[1].Payload.(events.TicketAssignedPayload)
	require.True(t, ok)
	require.NotNil(t, payload.PreviousStaffID)
	assert.Equal(t, "staff-1", *payload.PreviousStaffID)
}

func TestAssignSameStaffIsIdempotent(t *testing.T) {
	svc, tickets, _ := newAssignmentServiceForTest(
		domain.StaffMember{ID: "staff-1", Role: domain.StaffRoleWorker, Active: true},
	)
	seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: domain.TicketStatusOpen})
	ctx := context.Background()

	first, err := svc.AssignTicket(ctx, admin("admin-1"), seeded.ID, "staff-1")
	require.NoError(t, err)
	second, err := svc.AssignTicket(ctx, admin("admin-1"), seeded.ID, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, *first.AssignedStaffID, *second.AssignedStaffID)
	assert.Equal(t, domain.TicketStatusAssigned, second.Status)
}

func TestAssignClosedTicket(t *testing.T) {
	svc, tickets, _ := newAssignmentServiceForTest(
		domain.StaffMember{ID: "staff-1", Role: domain.StaffRoleWorker, Active: true},
	)
	seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: domain.TicketStatusResolved})

	_, err := svc.AssignTicket(context.Background(), admin("admin-1"), seeded.ID, "staff-1")
	assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"), "got %v", err)
}

func TestSelfAssign(t *testing.T) {
	svc, tickets, _ := newAssignmentServiceForTest()
	seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: domain.TicketStatusOpen})

	ticket, err := svc.SelfAssignTicket(context.Background(), worker("staff-1"), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusAssigned, ticket.Status)
	assert.Equal(t, "staff-1", *ticket.AssignedStaffID)
}

func TestSelfAssignInactiveStaff(t *testing.T) {
	svc, tickets, _ := newAssignmentServiceForTest()
	seeded := tickets.seed(domain.Ticket{ReporterID: "resident-1", Status: domain.TicketStatusOpen})

	inactive := &domain.StaffMember{ID: "staff-1", Role: domain.StaffRoleWorker, Active: false}
	_, err := svc.SelfAssignTicket(context.Background(), inactive, seeded.ID)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"), "got %v", err)
}
