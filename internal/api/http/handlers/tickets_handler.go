package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dormhub/facility-service/internal/api/dto"
	"github.com/dormhub/facility-service/internal/auth"
	"github.com/dormhub/facility-service/internal/domain"
	"github.com/dormhub/facility-service/internal/service"
	apperrors "github.com/dormhub/facility-service/pkg/util"
)

// TicketsHandler manages resident-facing ticket endpoints.
type TicketsHandler struct {
	tickets  *service.TicketService
	feedback *service.FeedbackService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, feedbackService *service.FeedbackService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, feedback: feedbackService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	resident, err := residentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Kind:        req.Kind,
		Room:        req.Room,
		Category:    req.Category,
		Priority:    req.Priority,
		Description: req.Description,
	}
	ticket, err := h.tickets.CreateTicket(c.Context(), resident, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets?view=active|history|all.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	resident, err := residentPrincipal(c)
	if err != nil {
		return err
	}
	opts := parseListOptions(c)

	var tickets []domain.Ticket
	switch view := c.Query("view", "active"); view {
	case "active":
		tickets, err = h.tickets.ListActiveForResident(c.Context(), resident.ID, opts)
	case "history":
		tickets, err = h.tickets.ListHistoryForResident(c.Context(), resident.ID, opts)
	case "all":
		tickets, err = h.tickets.ListAllForResident(c.Context(), resident.ID, opts)
	default:
		return apperrors.NewValidationError("view must be one of active, history, all",
			map[string]any{"view": view})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	resident, err := residentPrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicketForResident(c.Context(), resident.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// SubmitRating POST /tickets/:id/rating.
func (h *TicketsHandler) SubmitRating(c *fiber.Ctx) error {
	resident, err := residentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SubmitRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.feedback.SubmitRating(c.Context(), resident.ID, c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

func residentPrincipal(c *fiber.Ctx) (*domain.Resident, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Resident == nil {
		return nil, apperrors.NewUnauthorized("resident required")
	}
	return principal.Resident, nil
}

func parseListOptions(c *fiber.Ctx) service.TicketListOptions {
	opts := service.TicketListOptions{}
	if kindStr := c.Query("kind"); kindStr != "" {
		kind := domain.TicketKind(strings.ToUpper(strings.TrimSpace(kindStr)))
		opts.Kind = &kind
	}
	switch c.Query("sort") {
	case "created_at":
		opts.SortKey = domain.SortByCreated
	default:
		opts.SortKey = domain.SortByPriority
	}
	opts.Ascending = c.Query("order") == "asc"
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	opts.Offset = (page - 1) * pageSize
	opts.Limit = pageSize
	return opts
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:              ticket.ID,
		ExternalKey:     ticket.ExternalKey,
		Kind:            ticket.Kind,
		Room:            ticket.Room,
		Category:        ticket.Category,
		Priority:        ticket.Priority,
		Status:          ticket.Status,
		StatusLabel:     domain.StatusLabel(ticket.Kind, ticket.Status),
		AssignedStaffID: ticket.AssignedStaffID,
		Rating:          ticket.Rating,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
}

func ticketSummaries(tickets []domain.Ticket) []dto.TicketSummary {
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return items
}

func ticketDetail(ticket *domain.Ticket) dto.TicketDetailResponse {
	return dto.TicketDetailResponse{
		ID:              ticket.ID,
		ExternalKey:     ticket.ExternalKey,
		Kind:            ticket.Kind,
		ReporterID:      ticket.ReporterID,
		Room:            ticket.Room,
		Category:        ticket.Category,
		Priority:        ticket.Priority,
		Status:          ticket.Status,
		StatusLabel:     domain.StatusLabel(ticket.Kind, ticket.Status),
		Description:     ticket.Description,
		AssignedStaffID: ticket.AssignedStaffID,
		Rating:          ticket.Rating,
		RatingComment:   ticket.RatingComment,
		RatedAt:         ticket.RatedAt,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
		ResolvedAt:      ticket.ResolvedAt,
	}
}
