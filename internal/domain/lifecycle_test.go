package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	tests := []struct {
		name    string
		current TicketStatus
		next    TicketStatus
		want    bool
	}{
		{"open to assigned", TicketStatusOpen, TicketStatusAssigned, true},
		{"open to resolved", TicketStatusOpen, TicketStatusResolved, true},
		{"open to rejected", TicketStatusOpen, TicketStatusRejected, true},
		{"assigned to resolved", TicketStatusAssigned, TicketStatusResolved, true},
		{"assigned to rejected", TicketStatusAssigned, TicketStatusRejected, true},
		{"reassignment", TicketStatusAssigned, TicketStatusAssigned, true},
		{"resolved is terminal", TicketStatusResolved, TicketStatusOpen, false},
		{"resolved cannot reassign", TicketStatusResolved, TicketStatusAssigned, false},
		{"rejected is terminal", TicketStatusRejected, TicketStatusAssigned, false},
		{"no reopening", TicketStatusAssigned, TicketStatusOpen, false},
		{"open self loop invalid", TicketStatusOpen, TicketStatusOpen, false},
		{"unknown status", TicketStatus("ARCHIVED"), TicketStatusOpen, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidTransition(tt.current, tt.next))
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, Terminal(TicketStatusOpen))
	assert.False(t, Terminal(TicketStatusAssigned))
	assert.True(t, Terminal(TicketStatusResolved))
	assert.True(t, Terminal(TicketStatusRejected))
}

func TestAssignable(t *testing.T) {
	assert.True(t, Assignable(TicketStatusOpen))
	assert.True(t, Assignable(TicketStatusAssigned))
	assert.False(t, Assignable(TicketStatusResolved))
	assert.False(t, Assignable(TicketStatusRejected))
}

func TestPriorityRank(t *testing.T) {
	assert.Greater(t, PriorityRank(TicketPriorityCritical), PriorityRank(TicketPriorityHigh))
	assert.Greater(t, PriorityRank(TicketPriorityHigh), PriorityRank(TicketPriorityMedium))
	assert.Greater(t, PriorityRank(TicketPriorityMedium), PriorityRank(TicketPriorityLow))
	assert.Equal(t, 0, PriorityRank(TicketPriority("UNSET")))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Open", StatusLabel(TicketKindRequest, TicketStatusOpen))
	assert.Equal(t, "In Progress", StatusLabel(TicketKindRequest, TicketStatusAssigned))
	assert.Equal(t, "Under Review", StatusLabel(TicketKindComplaint, TicketStatusAssigned))
	assert.Equal(t, "Resolved", StatusLabel(TicketKindComplaint, TicketStatusResolved))
	assert.Equal(t, "Rejected", StatusLabel(TicketKindRequest, TicketStatusRejected))
}

func sortFixture() []Ticket {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Ticket{
		{ID: "a", Priority: TicketPriorityLow, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "b", Priority: TicketPriorityCritical, CreatedAt: base},
		{ID: "c", Priority: TicketPriorityMedium, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "d", Priority: TicketPriorityCritical, CreatedAt: base.Add(1 * time.Hour)},
	}
}

func ids(tickets []Ticket) []string {
	out := make([]string, len(tickets))
	for i := range tickets {
		out[i] = tickets[i].ID
	}
	return out
}

func TestSortTicketsByPriority(t *testing.T) {
	tickets := sortFixture()
	SortTickets(tickets, SortByPriority, false)
	// descending priority, newest first within the same priority
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids(tickets))

	tickets = sortFixture()
	SortTickets(tickets, SortByPriority, true)
	// only the priority direction flips; ties still show newest first
	assert.Equal(t, []string{"a", "c", "d", "b"}, ids(tickets))
}

func TestSortTicketsPriorityTiebreak(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fixture := func() []Ticket {
		return []Ticket{
			{ID: "older", Priority: TicketPriorityHigh, CreatedAt: base},
			{ID: "newer", Priority: TicketPriorityHigh, CreatedAt: base.Add(time.Hour)},
		}
	}

	tickets := fixture()
	SortTickets(tickets, SortByPriority, false)
	assert.Equal(t, []string{"newer", "older"}, ids(tickets))

	tickets = fixture()
	SortTickets(tickets, SortByPriority, true)
	assert.Equal(t, []string{"newer", "older"}, ids(tickets))
}

func TestSortTicketsByCreated(t *testing.T) {
	tickets := sortFixture()
	SortTickets(tickets, SortByCreated, true)
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids(tickets))

	tickets = sortFixture()
	SortTickets(tickets, SortByCreated, false)
	assert.Equal(t, []string{"a", "c", "d", "b"}, ids(tickets))
}

func TestSortTicketsStable(t *testing.T) {
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tickets := []Ticket{
		{ID: "first", Priority: TicketPriorityHigh, CreatedAt: when},
		{ID: "second", Priority: TicketPriorityHigh, CreatedAt: when},
		{ID: "third", Priority: TicketPriorityHigh, CreatedAt: when},
	}
	SortTickets(tickets, SortByPriority, false)
	assert.Equal(t, []string{"first", "second", "third"}, ids(tickets))
}

func TestRated(t *testing.T) {
	ticket := Ticket{}
	assert.False(t, ticket.Rated())
	rating := 4
	ticket.Rating = &rating
	assert.True(t, ticket.Rated())
}
