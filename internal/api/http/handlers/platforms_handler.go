package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/finops-admin/internal/api/dto"
	"github.com/spec-kit/finops-admin/internal/domain"
	"github.com/spec-kit/finops-admin/internal/service"
)

// PlatformsHandler exposes platform management endpoints.
type PlatformsHandler struct {
	admin *service.AdminService
}

// NewPlatformsHandler constructs handler.
func NewPlatformsHandler(admin *service.AdminService) *PlatformsHandler {
	return &PlatformsHandler{admin: admin}
}

// List handles GET /admin/platforms.
func (h *PlatformsHandler) List(c *fiber.Ctx) error {
	platforms, err := h.admin.ListPlatforms(c.Context())
	if err != nil {
		return err
	}
	out := make([]fiber.Map, 0, len(platforms))
	for i := range platforms {
		out = append(out, platformResponse(&platforms[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create handles POST /admin/platforms.
func (h *PlatformsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.NameRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	platform, err := h.admin.AddPlatform(c.Context(), principal.User, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": platformResponse(platform)})
}

// Delete handles DELETE /admin/platforms/:name.
func (h *PlatformsHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.admin.DeletePlatform(c.Context(), principal.User, c.Params("name")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

// AdjustBalance handles POST /admin/platforms/:name/balance.
func (h *PlatformsHandler) AdjustBalance(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.BalanceAdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	adj, err := h.admin.AdjustPlatformBalance(c.Context(), principal.User, c.Params("name"),
		req.Amount, req.Reason, req.ExpectedBalance)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": adjustmentResponse(adj)})
}

func platformResponse(platform *domain.Platform) fiber.Map {
	return fiber.Map{
		"id":           platform.ID,
		"name":         platform.Name,
		"balance_usdt": platform.BalanceUSDT,
	}
}
