package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/finops-admin/internal/domain"
	"github.com/spec-kit/finops-admin/internal/service"
)

// OnboardingHandler exposes guide progress endpoints.
type OnboardingHandler struct {
	onboarding *service.OnboardingService
}

// NewOnboardingHandler constructs handler.
func NewOnboardingHandler(onboarding *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding}
}

// Progress handles GET /onboarding/progress.
func (h *OnboardingHandler) Progress(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	progress, err := h.onboarding.Progress(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": progressResponse(progress)})
}

// CompleteStep handles POST /onboarding/steps/:key/complete.
func (h *OnboardingHandler) CompleteStep(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	progress, err := h.onboarding.CompleteStep(c.Context(), principal.User.ID,
		domain.OnboardingStep(c.Params("key")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": progressResponse(progress)})
}

// Reset handles DELETE /onboarding/progress.
func (h *OnboardingHandler) Reset(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.onboarding.Reset(c.Context(), principal.User.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "reset"}})
}

func progressResponse(progress *domain.OnboardingProgress) fiber.Map {
	steps := make([]fiber.Map, 0, len(domain.OnboardingSteps))
	for _, step := range domain.OnboardingSteps {
		entry := fiber.Map{
			"key":  string(step),
			"done": progress.Done(step),
		}
		if at, ok := progress.CompletedAt[step]; ok {
			entry["completed_at"] = at
		}
		steps = append(steps, entry)
	}
	return fiber.Map{
		"steps":   steps,
		"percent": progress.Percent(),
	}
}
