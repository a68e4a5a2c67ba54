package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dormhub/facility-service/internal/domain"
)

// TicketFilter captures listing parameters for tickets. SortKey and
// Ascending are applied in the query itself so that LIMIT/OFFSET cut pages
// of the ordered result, not pages of an arbitrary order.
type TicketFilter struct {
	ReporterID      *string
	AssignedStaffID *string
	Kind            *domain.TicketKind
	Statuses        []domain.TicketStatus
	Priorities      []domain.TicketPriority
	Category        *string
	Room            *string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
	SortKey         domain.TicketSortKey
	Ascending       bool
	Limit           int
	Offset          int
}

// TicketRepository encapsulates ticket persistence. The transition methods
// carry their status precondition into the UPDATE itself so that a
// validate-then-write pair is a single atomic statement; all of them return
// pgx.ErrNoRows when no row satisfied the guard.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByExternalKey(ctx context.Context, key string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Assign(ctx context.Context, ticketID, staffID string) (*domain.Ticket, error)
	Resolve(ctx context.Context, ticketID string) (*domain.Ticket, error)
	Reject(ctx context.Context, ticketID string) (*domain.Ticket, error)
	Rate(ctx context.Context, ticketID string, rating int, comment *string) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, external_key, kind, reporter_id, room, category, priority, status,
               description, assigned_staff_id, rating, rating_comment, rated_at,
               created_at, updated_at, resolved_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (external_key, kind, reporter_id, room, category, priority, status, description)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ExternalKey,
		ticket.Kind,
		ticket.ReporterID,
		ticket.Room,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.Description,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByExternalKey(ctx context.Context, key string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE external_key=$1`
	return r.fetchSingle(ctx, query, key)
}

// Assign binds the staff id and advances OPEN tickets to ASSIGNED in one
// statement. ASSIGNED tickets stay ASSIGNED and take the new staff id.
func (r *ticketRepository) Assign(ctx context.Context, ticketID, staffID string) (*domain.Ticket, error) {
	query := `
        UPDATE tickets
        SET assigned_staff_id=$1, status='ASSIGNED', updated_at=NOW()
        WHERE id=$2 AND status IN ('OPEN','ASSIGNED')
        RETURNING ` + ticketColumns
	return r.fetchSingle(ctx, query, staffID, ticketID)
}

func (r *ticketRepository) Resolve(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	query := `
        UPDATE tickets
        SET status='RESOLVED', resolved_at=NOW(), updated_at=NOW()
        WHERE id=$1 AND status IN ('OPEN','ASSIGNED')
        RETURNING ` + ticketColumns
	return r.fetchSingle(ctx, query, ticketID)
}

func (r *ticketRepository) Reject(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	query := `
        UPDATE tickets
        SET status='REJECTED', resolved_at=NOW(), updated_at=NOW()
        WHERE id=$1 AND status IN ('OPEN','ASSIGNED')
        RETURNING ` + ticketColumns
	return r.fetchSingle(ctx, query, ticketID)
}

// Rate writes the one-shot rating. The rating IS NULL guard makes a second
// write lose regardless of interleaving.
func (r *ticketRepository) Rate(ctx context.Context, ticketID string, rating int, comment *string) (*domain.Ticket, error) {
	query := `
        UPDATE tickets
        SET rating=$1, rating_comment=$2, rated_at=NOW(), updated_at=NOW()
        WHERE id=$3 AND status='RESOLVED' AND rating IS NULL
        RETURNING ` + ticketColumns
	return r.fetchSingle(ctx, query, rating, comment, ticketID)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.ExternalKey,
		&ticket.Kind,
		&ticket.ReporterID,
		&ticket.Room,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.Description,
		&ticket.AssignedStaffID,
		&ticket.Rating,
		&ticket.RatingComment,
		&ticket.RatedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		clauses = append(clauses, fmt.Sprintf("reporter_id=$%d", len(args)))
	}
	if filter.AssignedStaffID != nil {
		args = append(args, *filter.AssignedStaffID)
		clauses = append(clauses, fmt.Sprintf("assigned_staff_id=$%d", len(args)))
	}
	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		clauses = append(clauses, fmt.Sprintf("kind=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Room != nil {
		args = append(args, *filter.Room)
		clauses = append(clauses, fmt.Sprintf("room=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), ticketOrderBy(filter), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// ticketPriorityRankSQL mirrors domain.PriorityRank.
const ticketPriorityRankSQL = `CASE priority
               WHEN 'CRITICAL' THEN 4
               WHEN 'HIGH' THEN 3
               WHEN 'MEDIUM' THEN 2
               WHEN 'LOW' THEN 1
               ELSE 0 END`

// ticketOrderBy renders the ORDER BY expression matching domain.SortTickets:
// direction toggles the primary key only, and priority ties always break by
// creation date, newest first.
func ticketOrderBy(filter TicketFilter) string {
	dir := "DESC"
	if filter.Ascending {
		dir = "ASC"
	}
	if filter.SortKey == domain.SortByCreated {
		return "created_at " + dir
	}
	return ticketPriorityRankSQL + " " + dir + ", created_at DESC"
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.ExternalKey,
			&ticket.Kind,
			&ticket.ReporterID,
			&ticket.Room,
			&ticket.Category,
			&ticket.Priority,
			&ticket.Status,
			&ticket.Description,
			&ticket.AssignedStaffID,
			&ticket.Rating,
			&ticket.RatingComment,
			&ticket.RatedAt,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
