package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dormhub/facility-service/internal/domain"
)

// ResidentRepository defines persistence access for resident accounts.
type ResidentRepository interface {
	Create(ctx context.Context, resident *domain.Resident) error
	Update(ctx context.Context, resident *domain.Resident) error
	GetByID(ctx context.Context, id string) (*domain.Resident, error)
	GetByEmail(ctx context.Context, email string) (*domain.Resident, error)
}

type residentRepository struct {
	pool *pgxpool.Pool
}

// NewResidentRepository returns a Postgres-backed implementation.
func NewResidentRepository(pool *pgxpool.Pool) ResidentRepository {
	return &residentRepository{pool: pool}
}

func (r *residentRepository) Create(ctx context.Context, resident *domain.Resident) error {
	const query = `
        INSERT INTO residents (name, email, password_hash, room, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		resident.Name,
		resident.Email,
		resident.PasswordHash,
		resident.Room,
		resident.Status,
	).Scan(&resident.ID, &resident.CreatedAt, &resident.UpdatedAt)
}

func (r *residentRepository) Update(ctx context.Context, resident *domain.Resident) error {
	const query = `
        UPDATE residents SET name=$1, email=$2, password_hash=$3, room=$4, status=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		resident.Name,
		resident.Email,
		resident.PasswordHash,
		resident.Room,
		resident.Status,
		resident.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *residentRepository) GetByID(ctx context.Context, id string) (*domain.Resident, error) {
	const query = `
        SELECT id, name, email, password_hash, room, status, created_at, updated_at
        FROM residents WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *residentRepository) GetByEmail(ctx context.Context, email string) (*domain.Resident, error) {
	const query = `
        SELECT id, name, email, password_hash, room, status, created_at, updated_at
        FROM residents WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *residentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Resident, error) {
	var resident domain.Resident
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&resident.ID,
		&resident.Name,
		&resident.Email,
		&resident.PasswordHash,
		&resident.Room,
		&resident.Status,
		&resident.CreatedAt,
		&resident.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &resident, nil
}
