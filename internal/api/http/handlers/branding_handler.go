package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/finops-admin/internal/api/dto"
	"github.com/spec-kit/finops-admin/internal/domain"
	"github.com/spec-kit/finops-admin/internal/service"
)

// BrandingHandler exposes white-label configuration endpoints.
type BrandingHandler struct {
	branding *service.BrandingService
}

// NewBrandingHandler constructs handler.
func NewBrandingHandler(branding *service.BrandingService) *BrandingHandler {
	return &BrandingHandler{branding: branding}
}

// Get handles GET /admin/branding.
func (h *BrandingHandler) Get(c *fiber.Ctx) error {
	org, err := h.branding.Get(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": brandingResponse(org)})
}

// Update handles PUT /admin/branding.
func (h *BrandingHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.BrandingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	org, err := h.branding.Update(c.Context(), principal.User, service.BrandingInput{
		DisplayName:  req.DisplayName,
		LogoURL:      req.LogoURL,
		PrimaryColor: req.PrimaryColor,
		AccentColor:  req.AccentColor,
		SupportEmail: req.SupportEmail,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": brandingResponse(org)})
}

func brandingResponse(org *domain.Organization) fiber.Map {
	return fiber.Map{
		"name":          org.Name,
		"display_name":  org.DisplayName,
		"logo_url":      org.LogoURL,
		"primary_color": org.PrimaryColor,
		"accent_color":  org.AccentColor,
		"support_email": org.SupportEmail,
	}
}
