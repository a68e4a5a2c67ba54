package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dormhub/facility-service/internal/api/dto"
	"github.com/dormhub/facility-service/internal/domain"
	"github.com/dormhub/facility-service/internal/service"
)

// CategoriesHandler serves the ticket category taxonomy.
type CategoriesHandler struct {
	roster *service.RosterService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(rosterService *service.RosterService) *CategoriesHandler {
	return &CategoriesHandler{roster: rosterService}
}

// List handles GET /categories?kind=REQUEST|COMPLAINT.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	kind := domain.TicketKind(c.Query("kind"))
	if !domain.ValidKind(kind) {
		return fiber.NewError(http.StatusBadRequest, "kind must be REQUEST or COMPLAINT")
	}
	categories, err := h.roster.ListCategories(c.Context(), kind)
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, categoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create handles POST /admin/categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	actor, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CategoryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	category, err := h.roster.CreateCategory(c.Context(), actor, req.Kind, req.Name, req.Icon)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": categoryResponse(category)})
}

// Update handles PUT /admin/categories/:id.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	actor, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	category, err := h.roster.GetCategoryByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.CategoryUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Icon != "" {
		category.Icon = req.Icon
	}
	if req.Active != nil {
		category.IsActive = *req.Active
	}
	updated, err := h.roster.UpdateCategory(c.Context(), actor, category)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categoryResponse(updated)})
}

func categoryResponse(category *domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:       category.ID,
		Kind:     category.Kind,
		Name:     category.Name,
		Icon:     category.Icon,
		IsActive: category.IsActive,
	}
}
