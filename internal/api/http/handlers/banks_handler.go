package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/finops-admin/internal/api/dto"
	"github.com/spec-kit/finops-admin/internal/service"
)

// BanksHandler exposes bank catalog endpoints.
type BanksHandler struct {
	admin *service.AdminService
}

// NewBanksHandler constructs handler.
func NewBanksHandler(admin *service.AdminService) *BanksHandler {
	return &BanksHandler{admin: admin}
}

// List handles GET /admin/banks.
func (h *BanksHandler) List(c *fiber.Ctx) error {
	banks, err := h.admin.ListBanks(c.Context())
	if err != nil {
		return err
	}
	out := make([]fiber.Map, 0, len(banks))
	for _, bank := range banks {
		out = append(out, fiber.Map{"id": bank.ID, "name": bank.Name})
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create handles POST /admin/banks.
func (h *BanksHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.NameRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	bank, err := h.admin.AddBank(c.Context(), principal.User, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": bank.ID, "name": bank.Name}})
}

// Delete handles DELETE /admin/banks/:name.
func (h *BanksHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.admin.DeleteBank(c.Context(), principal.User, c.Params("name")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}
