package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/finops-admin/internal/auth"
	"github.com/spec-kit/finops-admin/internal/config"
	"github.com/spec-kit/finops-admin/internal/domain"
	"github.com/spec-kit/finops-admin/internal/repository"
	"github.com/spec-kit/finops-admin/internal/roles"
)

// EnsureBootstrapAdmin seeds a super_admin account on a fresh deployment so
// someone can log in and create the rest of the team. It only runs when
// BOOTSTRAP_ADMIN_EMAIL is set and the user table is empty.
func EnsureBootstrapAdmin(ctx context.Context, cfg config.Config, users repository.AdminUserRepository, logger *zap.Logger) error {
	if cfg.Bootstrap.AdminEmail == "" {
		logger.Debug("bootstrap admin not configured; skipping")
		return nil
	}
	if cfg.Bootstrap.AdminPassword == "" {
		return errors.New("BOOTSTRAP_ADMIN_EMAIL set without BOOTSTRAP_ADMIN_PASSWORD")
	}

	existing, err := users.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.Bootstrap.AdminPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	user := &domain.AdminUser{
		Name:          cfg.Bootstrap.AdminName,
		Email:         cfg.Bootstrap.AdminEmail,
		RoleKey:       roles.KeySuperAdmin,
		AssignedBanks: []string{},
		BankBalances:  map[string]float64{},
		PasswordHash:  hash,
		Active:        true,
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}
	logger.Info("bootstrap admin created", zap.String("email", user.Email))
	return nil
}
