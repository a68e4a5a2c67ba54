package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dormhub/facility-service/internal/auth"
	"github.com/dormhub/facility-service/internal/config"
	"github.com/dormhub/facility-service/internal/domain"
	"github.com/dormhub/facility-service/internal/repository"
	apperrors "github.com/dormhub/facility-service/pkg/util"
)

// RosterService manages the staff roster and the category taxonomy, the
// two collaborators the lifecycle engine consumes.
type RosterService struct {
	staff      repository.StaffRepository
	categories repository.CategoryRepository
	bcryptCost int
}

// RosterDependencies encapsulates repositories for roster management.
type RosterDependencies struct {
	StaffRepo    repository.StaffRepository
	CategoryRepo repository.CategoryRepository
}

// StaffCreateInput describes a new roster entry.
type StaffCreateInput struct {
	Name     string
	Email    string
	Phone    string
	PhotoURL string
	Password string
	Role     domain.StaffRole
}

// NewRosterService constructs the service.
func NewRosterService(cfg config.Config, deps RosterDependencies) *RosterService {
	return &RosterService{
		staff:      deps.StaffRepo,
		categories: deps.CategoryRepo,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

func requireAdmin(actor *domain.StaffMember) error {
	if actor == nil || actor.Role != domain.StaffRoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// CreateStaff adds a staff member to the roster.
func (s *RosterService) CreateStaff(ctx context.Context, actor *domain.StaffMember, input StaffCreateInput) (*domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email, password required", nil)
	}
	if input.Role != domain.StaffRoleWorker && input.Role != domain.StaffRoleAdmin {
		return nil, apperrors.NewValidationError("unknown staff role", map[string]any{"role": input.Role})
	}
	if _, err := s.staff.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	staff := &domain.StaffMember{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PhotoURL:     input.PhotoURL,
		PasswordHash: hash,
		Role:         input.Role,
		Active:       true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// UpdateStaff modifies roster metadata (name, phone, photo, role, active).
func (s *RosterService) UpdateStaff(ctx context.Context, actor *domain.StaffMember, staff *domain.StaffMember) (*domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.staff.Update(ctx, staff); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": staff.ID})
		}
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// ListStaff returns roster entries.
func (s *RosterService) ListStaff(ctx context.Context, actor *domain.StaffMember, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	result, err := s.staff.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// GetStaffByID fetches one roster entry.
func (s *RosterService) GetStaffByID(ctx context.Context, actor *domain.StaffMember, id string) (*domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// CreateCategory adds a taxonomy entry for a ticket kind.
func (s *RosterService) CreateCategory(ctx context.Context, actor *domain.StaffMember, kind domain.TicketKind, name, icon string) (*domain.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !domain.ValidKind(kind) {
		return nil, apperrors.NewValidationError("kind must be REQUEST or COMPLAINT", nil)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	category := &domain.Category{
		Kind:     kind,
		Name:     name,
		Icon:     icon,
		IsActive: true,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// UpdateCategory modifies taxonomy metadata. Kind is immutable.
func (s *RosterService) UpdateCategory(ctx context.Context, actor *domain.StaffMember, category *domain.Category) (*domain.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": category.ID})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// GetCategoryByID fetches a taxonomy entry, active or not.
func (s *RosterService) GetCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// ListCategories returns the active taxonomy for a kind. Residents use this
// when filing; no admin role is required.
func (s *RosterService) ListCategories(ctx context.Context, kind domain.TicketKind) ([]domain.Category, error) {
	if !domain.ValidKind(kind) {
		return nil, apperrors.NewValidationError("kind must be REQUEST or COMPLAINT", nil)
	}
	result, err := s.categories.ListActive(ctx, kind)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}
