package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/finops-admin/internal/auth"
	"github.com/spec-kit/finops-admin/internal/config"
	"github.com/spec-kit/finops-admin/internal/domain"
	"github.com/spec-kit/finops-admin/internal/events"
	"github.com/spec-kit/finops-admin/internal/repository"
	"github.com/spec-kit/finops-admin/internal/roles"
	apperrors "github.com/spec-kit/finops-admin/pkg/util"
)

// AdminService is the mutation gate for all administrative writes. Every
// operation validates in a fixed order: actor permission first, then data
// invariants against freshly read state, and only then delegates the write.
// Permission failures are reported before invariants are evaluated so that
// unauthorized actors learn nothing about current state.
type AdminService struct {
	users       repository.AdminUserRepository
	platforms   repository.PlatformRepository
	banks       repository.BankRepository
	adjustments repository.AdjustmentRepository
	dispatcher  events.Dispatcher
	bcryptCost  int
}

// AdminDependencies bundles repositories for the admin service.
type AdminDependencies struct {
	UserRepo       repository.AdminUserRepository
	PlatformRepo   repository.PlatformRepository
	BankRepo       repository.BankRepository
	AdjustmentRepo repository.AdjustmentRepository
	Dispatcher     events.Dispatcher
}

// NewAdminService constructs the service.
func NewAdminService(cfg config.Config, deps AdminDependencies) *AdminService {
	return &AdminService{
		users:       deps.UserRepo,
		platforms:   deps.PlatformRepo,
		banks:       deps.BankRepo,
		adjustments: deps.AdjustmentRepo,
		dispatcher:  deps.Dispatcher,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// UserCreateInput describes a new operator account.
type UserCreateInput struct {
	Name     string
	Email    string
	RoleKey  string
	Password string
}

// UserUpdateInput is the patch applied to an existing operator. Every field
// preserves the stored value when left unset.
type UserUpdateInput struct {
	Name    string
	Email   string
	RoleKey string
	Active  *bool
}

// AddUser creates an operator account after permission and field checks.
func (s *AdminService) AddUser(ctx context.Context, actor *domain.AdminUser, input UserCreateInput) (*domain.AdminUser, error) {
	if err := requireFlag(actor, func(f roles.FeatureFlags) bool { return f.CanEditUsers }); err != nil {
		return nil, err
	}
	if err := roles.ValidateAssignment(actor.RoleKey, input.RoleKey); err != nil {
		return nil, apperrors.NewPermissionError(err.Error())
	}
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.NewValidationError("name and email are required", nil)
	}
	if existing, err := s.users.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, apperrors.NewDuplicate("user email", input.Email)
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.AdminUser{
		Name:          strings.TrimSpace(input.Name),
		Email:         strings.TrimSpace(input.Email),
		RoleKey:       input.RoleKey,
		AssignedBanks: []string{},
		BankBalances:  map[string]float64{},
		PasswordHash:  hash,
		Active:        true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, actor, events.Event{
		Type:    events.EventUserCreated,
		Payload: events.UserChangedPayload{UserID: user.ID, Email: user.Email, RoleKey: user.RoleKey},
	})
	return user, nil
}

// UpdateUser applies a patch to an operator, re-validating role assignment
// whenever the role changes.
func (s *AdminService) UpdateUser(ctx context.Context, actor *domain.AdminUser, userID string, patch UserUpdateInput) (*domain.AdminUser, error) {
	if err := requireFlag(actor, func(f roles.FeatureFlags) bool { return f.CanEditUsers }); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if patch.RoleKey != "" && patch.RoleKey != user.RoleKey {
		if err := roles.ValidateAssignment(actor.RoleKey, patch.RoleKey); err != nil {
			return nil, apperrors.NewPermissionError(err.Error())
		}
		user.RoleKey = patch.RoleKey
	}
	if patch.Email != "" && patch.Email != user.Email {
		if existing, err := s.users.GetByEmail(ctx, patch.Email); err == nil && existing != nil && existing.ID != user.ID {
			return nil, apperrors.NewDuplicate("user email", patch.Email)
		} else if err != nil && err != pgx.ErrNoRows {
			return nil, apperrors.MapError(err)
		}
		user.Email = patch.Email
	}
	if patch.Name != "" {
		user.Name = patch.Name
	}
	if patch.Active != nil {
		user.Active = *patch.Active
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, actor, events.Event{
		Type:    events.EventUserUpdated,
		Payload: events.UserChangedPayload{UserID: user.ID, Email: user.Email, RoleKey: user.RoleKey},
	})
	return user, nil
}

// DeleteUser removes an operator. The confirmation signal comes from the UI;
// the gate refuses to delegate without it. Self-deletion is always forbidden.
func (s *AdminService) DeleteUser(ctx context.Context, actor *domain.AdminUser, targetID string, confirmed bool) error {
	if err := requireFlag(actor, func(f roles.FeatureFlags) bool { return f.CanDeleteUsers }); err != nil {
		return err
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !roles.CanManage(actor.RoleKey, target.RoleKey) {
		return apperrors.NewPermissionError("actor rank does not allow managing this user")
	}
	if target.ID == actor.ID {
		return apperrors.NewSelfOperation("operators cannot delete their own account")
	}
	if !confirmed {
		return apperrors.NewValidationError("deletion requires explicit confirmation", nil)
	}
	if err := s.users.Delete(ctx, target.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, actor, events.Event{
		Type:    events.EventUserDeleted,
		Payload: events.UserChangedPayload{UserID: target.ID, Email: target.Email, RoleKey: target.RoleKey},
	})
	return nil
}

// ToggleBankAssignment assigns the bank to the user, or unassigns it when
// already present. Unassignment is blocked while the user's balance under
// that bank is nonzero.
func (s *AdminService) ToggleBankAssignment(ctx context.Context, actor *domain.AdminUser, userID, bankName string) (*domain.AdminUser, error) {
	if err := requireFlag(actor, func(f roles.FeatureFlags) bool { return f.CanEditUsers }); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if stored, ok := user.AssignedBankName(bankName); ok {
		if balance := user.BalanceFor(stored); balance != 0 {
			return nil, apperrors.NewNonZeroBalance("bank cannot be unassigned while its balance is nonzero", balance)
		}
		kept := make([]string, 0, len(user.AssignedBanks))
		for _, b := range user.AssignedBanks {
			if b != stored {
				kept = append(kept, b)
			}
		}
		user.AssignedBanks = kept
		delete(user.BankBalances, stored)
		bankName = stored
	} else {
		bank, err := s.banks.GetByName(ctx, bankName)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("bank", map[string]any{"name": bankName})
			}
			return nil, apperrors.MapError(err)
		}
		// store the registered casing so later lookups agree
		bankName = bank.Name
		user.AssignedBanks = append(user.AssignedBanks, bank.Name)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, actor, events.Event{
		Type: events.EventBankAssignmentChanged,
		Payload: events.BankAssignmentChangedPayload{
			UserID:   user.ID,
			Bank:     bankName,
			Assigned: user.HasBank(bankName),
		},
	})
	return user, nil
}

// AdjustUserBalance sets a user's balance under an assigned bank and appends
// an audit record. rawAmount is parsed strictly; malformed input is rejected,
// never coerced to zero. expected, when supplied, is an optimistic token
// holding the balance the caller last observed.
func (s *AdminService) AdjustUserBalance(ctx context.Context, actor *domain.AdminUser, userID, bankName, rawAmount, reason string, expected *float64) (*domain.BalanceAdjustment, error) {
	if err := requireFlag(actor, func(f roles.FeatureFlags) bool { return f.CanAdjustBalances }); err != nil {
		return nil, err
	}
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewValidationError("a reason is required for balance adjustments", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	stored, ok := user.AssignedBankName(bankName)
	if !ok {
		return nil, apperrors.NewValidationError("bank is not assigned to this user",
			map[string]any{"bank": bankName})
	}
	old := user.BalanceFor(stored)
	if expected != nil && *expected != old {
		return nil, apperrors.NewConflict("balance changed since it was last read",
			map[string]any{"expected": *expected, "actual": old})
	}

	if user.BankBalances == nil {
		user.BankBalances = map[string]float64{}
	}
	user.BankBalances[stored] = amount
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	adj := &domain.BalanceAdjustment{
		TargetType: domain.AdjustmentTargetUser,
		TargetID:   user.ID,
		Bank:       stored,
		OldBalance: old,
		NewBalance: amount,
		Reason:     strings.TrimSpace(reason),
		ActorName:  actor.Name,
	}
	if err := s.adjustments.Create(ctx, adj); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, actor, events.Event{
		Type: events.EventBalanceAdjusted,
		Payload: events.BalanceAdjustedPayload{
			TargetType: adj.TargetType,
			TargetID:   adj.TargetID,
			Bank:       adj.Bank,
			OldBalance: adj.OldBalance,
			NewBalance: adj.NewBalance,
			Reason:     adj.Reason,
		},
	})
	return adj, nil
}

// AdjustPlatformBalance sets a platform's USDT balance with the same
// contract as AdjustUserBalance.
func (s *AdminService) AdjustPlatformBalance(ctx context.Context, actor *domain.AdminUser, platformName, rawAmount, reason string, expected *float64) (*domain.BalanceAdjustment, error) {
	if err := requireFlag(actor, func(f roles.FeatureFlags) bool { return f.CanAdjustBalances }); err != nil {
		return nil, err
	}
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewValidationError("a reason is required for balance adjustments", nil)
	}

	platform, err := s.platforms.GetByName(ctx, platformName)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	old := platform.BalanceUSDT
	if expected != nil && *expected != old {
		return nil, apperrors.NewConflict("balance changed since it was last read",
			map[string]any{"expected": *expected, "actual": old})
	}

	if err := s.platforms.UpdateBalance(ctx, platform.ID, amount); err != nil {
		return nil, apperrors.MapError(err)
	}

	adj := &domain.BalanceAdjustment{
		TargetType: domain.AdjustmentTargetPlatform,
		TargetID:   platform.ID,
		OldBalance: old,
		NewBalance: amount,
		Reason:     strings.TrimSpace(reason),
		ActorName:  actor.Name,
	}
	if err := s.adjustments.Create(ctx, adj); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, actor, events.Event{
		Type: events.EventBalanceAdjusted,
		Payload: events.BalanceAdjustedPayload{
			TargetType: adj.TargetType,
			TargetID:   adj.TargetID,
			OldBalance: adj.OldBalance,
			NewBalance: adj.NewBalance,
			Reason:     adj.Reason,
		},
	})
	return adj, nil
}

// AddPlatform creates a platform with a zero balance. Names collide
// case-insensitively.
func (s *AdminService) AddPlatform(ctx context.Context, actor *domain.AdminUser, name string) (*domain.Platform, error) {
	if err := requireFlag(actor, func(f roles.FeatureFlags) bool { return f.CanManagePlatforms }); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("platform name is required", nil)
	}
	if existing, err := s.platforms.GetByName(ctx, name); err == nil && existing != nil {
		return nil, apperrors.NewDuplicate("platform", name)
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	platform := &domain.Platform{Name: name, BalanceUSDT: 0}
	if err := s.platforms.Create(ctx, platform); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, actor, events.Event{
		Type:    events.EventPlatformCreated,
		Payload: events.NameChangedPayload{Name: platform.Name},
	})
	return platform, nil
}

// DeletePlatform removes a platform once its balance is zero.
func (s *AdminService) DeletePlatform(ctx context.Context, actor *domain.AdminUser, name string) error {
	if err := requireFlag(actor, func(f roles.FeatureFlags) bool { return f.CanManagePlatforms }); err != nil {
		return err
	}
	platform, err := s.platforms.GetByName(ctx, name)
	if err != nil {
		return apperrors.MapError(err)
	}
	if platform.BalanceUSDT != 0 {
		return apperrors.NewNonZeroBalance("platform cannot be deleted while its balance is nonzero", platform.BalanceUSDT)
	}
	if err := s.platforms.Delete(ctx, platform.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, actor, events.Event{
		Type:    events.EventPlatformDeleted,
		Payload: events.NameChangedPayload{Name: platform.Name},
	})
	return nil
}

// AddBank registers a bank name. Names collide case-insensitively.
func (s *AdminService) AddBank(ctx context.Context, actor *domain.AdminUser, name string) (*domain.Bank, error) {
	if err := requireFlag(actor, func(f roles.FeatureFlags) bool { return f.CanManageBanks }); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("bank name is required", nil)
	}
	if existing, err := s.banks.GetByName(ctx, name); err == nil && existing != nil {
		return nil, apperrors.NewDuplicate("bank", name)
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	bank := &domain.Bank{Name: name}
	if err := s.banks.Create(ctx, bank); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, actor, events.Event{
		Type:    events.EventBankCreated,
		Payload: events.NameChangedPayload{Name: bank.Name},
	})
	return bank, nil
}

// DeleteBank removes a bank unless any user holds a nonzero balance under it.
func (s *AdminService) DeleteBank(ctx context.Context, actor *domain.AdminUser, name string) error {
	if err := requireFlag(actor, func(f roles.FeatureFlags) bool { return f.CanManageBanks }); err != nil {
		return err
	}
	bank, err := s.banks.GetByName(ctx, name)
	if err != nil {
		return apperrors.MapError(err)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return apperrors.MapError(err)
	}
	var holders []string
	for i := range users {
		if users[i].BalanceFor(bank.Name) != 0 {
			holders = append(holders, users[i].ID)
		}
	}
	if len(holders) > 0 {
		return apperrors.NewBankInUse(bank.Name, map[string]any{"user_ids": holders})
	}
	if err := s.banks.Delete(ctx, bank.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, actor, events.Event{
		Type:    events.EventBankDeleted,
		Payload: events.NameChangedPayload{Name: bank.Name},
	})
	return nil
}

// ListUsers returns every operator account.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.AdminUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// GetUser fetches a single operator.
func (s *AdminService) GetUser(ctx context.Context, id string) (*domain.AdminUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListPlatforms returns every platform.
func (s *AdminService) ListPlatforms(ctx context.Context) ([]domain.Platform, error) {
	platforms, err := s.platforms.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return platforms, nil
}

// ListBanks returns every registered bank name.
func (s *AdminService) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	banks, err := s.banks.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return banks, nil
}

// ListAdjustments returns the audit trail, optionally scoped to one target.
func (s *AdminService) ListAdjustments(ctx context.Context, targetType domain.AdjustmentTarget, targetID string, limit, offset int) ([]domain.BalanceAdjustment, error) {
	var (
		result []domain.BalanceAdjustment
		err    error
	)
	if targetType != "" && targetID != "" {
		result, err = s.adjustments.ListByTarget(ctx, targetType, targetID, limit, offset)
	} else {
		result, err = s.adjustments.ListRecent(ctx, limit, offset)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

func requireFlag(actor *domain.AdminUser, pick func(roles.FeatureFlags) bool) error {
	if actor == nil {
		return apperrors.NewPermissionError("actor required")
	}
	if !pick(roles.Flags(actor.RoleKey)) {
		return apperrors.NewPermissionError("role does not permit this operation")
	}
	return nil
}

func parseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperrors.NewValidationError("amount is required", nil)
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("amount must be numeric", map[string]any{"amount": raw})
	}
	if amount < 0 {
		return 0, apperrors.NewValidationError("balances cannot go negative", map[string]any{"amount": amount})
	}
	return amount, nil
}

func (s *AdminService) publish(ctx context.Context, actor *domain.AdminUser, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Actor = events.Actor{UserID: actor.ID, Name: actor.Name, Role: actor.RoleKey}
	_ = s.dispatcher.Publish(ctx, event)
}
