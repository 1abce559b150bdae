package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/finops-admin/internal/api/http/handlers"
	"github.com/spec-kit/finops-admin/internal/auth"
	"github.com/spec-kit/finops-admin/internal/roles"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Platforms      *handlers.PlatformsHandler
	Banks          *handlers.BanksHandler
	Adjustments    *handlers.AdjustmentsHandler
	Branding       *handlers.BrandingHandler
	Onboarding     *handlers.OnboardingHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	admin.Get("/roles", cfg.Users.ManageableRoles)

	users := admin.Group("/users")
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Post("/", auth.RequireFlag(func(f roles.FeatureFlags) bool { return f.CanEditUsers }), cfg.Users.Create)
	users.Patch("/:id", auth.RequireFlag(func(f roles.FeatureFlags) bool { return f.CanEditUsers }), cfg.Users.Update)
	users.Delete("/:id", auth.RequireFlag(func(f roles.FeatureFlags) bool { return f.CanDeleteUsers }), cfg.Users.Delete)
	users.Post("/:id/banks", auth.RequireFlag(func(f roles.FeatureFlags) bool { return f.CanEditUsers }), cfg.Users.ToggleBank)
	users.Post("/:id/balances", auth.RequireFlag(func(f roles.FeatureFlags) bool { return f.CanAdjustBalances }), cfg.Users.AdjustBalance)

	platforms := admin.Group("/platforms")
	platforms.Get("/", cfg.Platforms.List)
	platforms.Post("/", auth.RequireFlag(func(f roles.FeatureFlags) bool { return f.CanManagePlatforms }), cfg.Platforms.Create)
	platforms.Delete("/:name", auth.RequireFlag(func(f roles.FeatureFlags) bool { return f.CanManagePlatforms }), cfg.Platforms.Delete)
	platforms.Post("/:name/balance", auth.RequireFlag(func(f roles.FeatureFlags) bool { return f.CanAdjustBalances }), cfg.Platforms.AdjustBalance)

	banks := admin.Group("/banks")
	banks.Get("/", cfg.Banks.List)
	banks.Post("/", auth.RequireFlag(func(f roles.FeatureFlags) bool { return f.CanManageBanks }), cfg.Banks.Create)
	banks.Delete("/:name", auth.RequireFlag(func(f roles.FeatureFlags) bool { return f.CanManageBanks }), cfg.Banks.Delete)

	admin.Get("/adjustments", cfg.Adjustments.List)

	admin.Get("/branding", cfg.Branding.Get)
	admin.Put("/branding", auth.RequireRank(3), cfg.Branding.Update)

	onboarding := app.Group("/onboarding", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	onboarding.Get("/progress", cfg.Onboarding.Progress)
	onboarding.Post("/steps/:key/complete", cfg.Onboarding.CompleteStep)
	onboarding.Delete("/progress", cfg.Onboarding.Reset)
}
