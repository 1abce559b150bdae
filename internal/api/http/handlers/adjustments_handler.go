package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/finops-admin/internal/domain"
	"github.com/spec-kit/finops-admin/internal/service"
)

// AdjustmentsHandler exposes the balance audit trail.
type AdjustmentsHandler struct {
	admin *service.AdminService
}

// NewAdjustmentsHandler constructs handler.
func NewAdjustmentsHandler(admin *service.AdminService) *AdjustmentsHandler {
	return &AdjustmentsHandler{admin: admin}
}

// List handles GET /admin/adjustments?target_type=&target_id=&limit=&offset=.
func (h *AdjustmentsHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	adjustments, err := h.admin.ListAdjustments(c.Context(),
		domain.AdjustmentTarget(c.Query("target_type")),
		c.Query("target_id"),
		limit, offset)
	if err != nil {
		return err
	}
	out := make([]fiber.Map, 0, len(adjustments))
	for i := range adjustments {
		out = append(out, adjustmentResponse(&adjustments[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}
