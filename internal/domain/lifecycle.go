package domain

import "sort"

// allowedTransitions is the single source of truth for the lifecycle graph.
// RESOLVED and REJECTED are terminal: nothing ever moves a ticket backward.
var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:     {TicketStatusAssigned, TicketStatusResolved, TicketStatusRejected},
	TicketStatusAssigned: {TicketStatusAssigned, TicketStatusResolved, TicketStatusRejected},
	TicketStatusResolved: {},
	TicketStatusRejected: {},
}

// ValidTransition reports whether current may move to next. The
// ASSIGNED -> ASSIGNED edge models reassignment.
func ValidTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ValidStatus reports whether the status is a member of the state set.
func ValidStatus(status TicketStatus) bool {
	_, ok := allowedTransitions[status]
	return ok
}

// Terminal reports whether the status has no outgoing transitions.
func Terminal(status TicketStatus) bool {
	return len(allowedTransitions[status]) == 0
}

// Assignable reports whether an assign call may act on the status.
func Assignable(status TicketStatus) bool {
	return ValidTransition(status, TicketStatusAssigned)
}

// PriorityRank orders priorities for display: CRITICAL > HIGH > MEDIUM > LOW.
func PriorityRank(priority TicketPriority) int {
	switch priority {
	case TicketPriorityCritical:
		return 4
	case TicketPriorityHigh:
		return 3
	case TicketPriorityMedium:
		return 2
	case TicketPriorityLow:
		return 1
	default:
		return 0
	}
}

// TicketSortKey selects the primary ordering for listings.
type TicketSortKey string

const (
	SortByPriority TicketSortKey = "priority"
	SortByCreated  TicketSortKey = "created_at"
)

// SortTickets orders tickets in place for display. Priority ordering breaks
// ties by creation date, newest first, regardless of direction; date
// ordering uses the date alone. The sort is stable so equal keys preserve
// their prior relative order. The SQL listing mirrors this policy so pages
// cut by the database agree with in-memory ordering.
func SortTickets(tickets []Ticket, key TicketSortKey, ascending bool) {
	var less func(a, b *Ticket) bool
	switch key {
	case SortByCreated:
		if ascending {
			less = func(a, b *Ticket) bool { return a.CreatedAt.Before(b.CreatedAt) }
		} else {
			less = func(a, b *Ticket) bool { return a.CreatedAt.After(b.CreatedAt) }
		}
	default:
		less = func(a, b *Ticket) bool {
			ra, rb := PriorityRank(a.Priority), PriorityRank(b.Priority)
			if ra != rb {
				if ascending {
					return ra < rb
				}
				return ra > rb
			}
			// the tiebreak does not toggle with the primary key
			return a.CreatedAt.After(b.CreatedAt)
		}
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		return less(&tickets[i], &tickets[j])
	})
}
