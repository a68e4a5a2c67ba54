package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dormhub/facility-service/internal/api/dto"
	"github.com/dormhub/facility-service/internal/service"
)

// ResidentsHandler exposes auth endpoints for residents.
type ResidentsHandler struct {
	auth *service.AuthService
}

// NewResidentsHandler constructs handler.
func NewResidentsHandler(authService *service.AuthService) *ResidentsHandler {
	return &ResidentsHandler{auth: authService}
}

// Register handles POST /auth/residents/register.
func (h *ResidentsHandler) Register(c *fiber.Ctx) error {
	var req dto.ResidentRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}

	resident, token, exp, err := h.auth.RegisterResident(c.Context(), req.Name, req.Email, req.Password, req.Room)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"resident": fiber.Map{
				"id":    resident.ID,
				"name":  resident.Name,
				"email": resident.Email,
				"room":  resident.Room,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/residents/login.
func (h *ResidentsHandler) Login(c *fiber.Ctx) error {
	var req dto.ResidentLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	resident, token, exp, err := h.auth.LoginResident(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"resident": fiber.Map{
				"id":    resident.ID,
				"name":  resident.Name,
				"email": resident.Email,
				"room":  resident.Room,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}
