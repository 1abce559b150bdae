package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/finops-admin/internal/api/http"
	"github.com/spec-kit/finops-admin/internal/api/http/handlers"
	"github.com/spec-kit/finops-admin/internal/auth"
	"github.com/spec-kit/finops-admin/internal/config"
	"github.com/spec-kit/finops-admin/internal/events"
	"github.com/spec-kit/finops-admin/internal/observability"
	"github.com/spec-kit/finops-admin/internal/persistence"
	"github.com/spec-kit/finops-admin/internal/repository"
	"github.com/spec-kit/finops-admin/internal/service"
	"github.com/spec-kit/finops-admin/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	userRepo := repository.NewAdminUserRepository(pool)
	platformRepo := repository.NewPlatformRepository(pool)
	bankRepo := repository.NewBankRepository(pool)
	adjustmentRepo := repository.NewAdjustmentRepository(pool)
	orgRepo := repository.NewOrganizationRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	onboardingRepo := repository.NewOnboardingRepository(redis.Client)

	if err := service.EnsureBootstrapAdmin(ctx, *cfg, userRepo, logger); err != nil {
		logger.Fatal("failed to bootstrap admin account", zap.Error(err))
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	})
	adminService := service.NewAdminService(*cfg, service.AdminDependencies{
		UserRepo:       userRepo,
		PlatformRepo:   platformRepo,
		BankRepo:       bankRepo,
		AdjustmentRepo: adjustmentRepo,
		Dispatcher:     dispatcher,
	})
	brandingService := service.NewBrandingService(orgRepo, dispatcher)
	onboardingService := service.NewOnboardingService(onboardingRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(adminService),
		Platforms:      handlers.NewPlatformsHandler(adminService),
		Banks:          handlers.NewBanksHandler(adminService),
		Adjustments:    handlers.NewAdjustmentsHandler(adminService),
		Branding:       handlers.NewBrandingHandler(brandingService),
		Onboarding:     handlers.NewOnboardingHandler(onboardingService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
