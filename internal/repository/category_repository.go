package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dormhub/facility-service/internal/domain"
)

// CategoryRepository manages the per-kind category taxonomy.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetActiveByName(ctx context.Context, kind domain.TicketKind, name string) (*domain.Category, error)
	ListActive(ctx context.Context, kind domain.TicketKind) ([]domain.Category, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository builds the repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (kind, name, icon, is_active)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		category.Kind,
		category.Name,
		category.Icon,
		category.IsActive,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	const query = `
        UPDATE categories SET name=$1, icon=$2, is_active=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		category.Name,
		category.Icon,
		category.IsActive,
		category.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	const query = `
        SELECT id, kind, name, icon, is_active, created_at, updated_at
        FROM categories WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *categoryRepository) GetActiveByName(ctx context.Context, kind domain.TicketKind, name string) (*domain.Category, error) {
	const query = `
        SELECT id, kind, name, icon, is_active, created_at, updated_at
        FROM categories WHERE kind=$1 AND name=$2 AND is_active = TRUE`
	return r.fetchSingle(ctx, query, kind, name)
}

func (r *categoryRepository) ListActive(ctx context.Context, kind domain.TicketKind) ([]domain.Category, error) {
	const query = `
        SELECT id, kind, name, icon, is_active, created_at, updated_at
        FROM categories WHERE kind=$1 AND is_active = TRUE ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Kind, &category.Name, &category.Icon, &category.IsActive, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *categoryRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Category, error) {
	var category domain.Category
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&category.ID,
		&category.Kind,
		&category.Name,
		&category.Icon,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}
