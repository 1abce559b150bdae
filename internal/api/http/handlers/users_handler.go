package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/finops-admin/internal/api/dto"
	"github.com/spec-kit/finops-admin/internal/auth"
	"github.com/spec-kit/finops-admin/internal/domain"
	"github.com/spec-kit/finops-admin/internal/roles"
	"github.com/spec-kit/finops-admin/internal/service"
)

// UsersHandler exposes operator administration endpoints.
type UsersHandler struct {
	admin *service.AdminService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(admin *service.AdminService) *UsersHandler {
	return &UsersHandler{admin: admin}
}

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return principal, nil
}

// List handles GET /admin/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.Context())
	if err != nil {
		return err
	}
	out := make([]fiber.Map, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /admin/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.admin.GetUser(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Create handles POST /admin/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.admin.AddUser(c.Context(), principal.User, service.UserCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		RoleKey:  req.Role,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// Update handles PATCH /admin/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.admin.UpdateUser(c.Context(), principal.User, c.Params("id"), service.UserUpdateInput{
		Name:    req.Name,
		Email:   req.Email,
		RoleKey: req.Role,
		Active:  req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Delete handles DELETE /admin/users/:id?confirm=true.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	confirmed := c.Query("confirm") == "true"
	if err := h.admin.DeleteUser(c.Context(), principal.User, c.Params("id"), confirmed); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

// ToggleBank handles POST /admin/users/:id/banks.
func (h *UsersHandler) ToggleBank(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.BankToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Bank == "" {
		return fiber.NewError(http.StatusBadRequest, "bank required")
	}

	user, err := h.admin.ToggleBankAssignment(c.Context(), principal.User, c.Params("id"), req.Bank)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// AdjustBalance handles POST /admin/users/:id/balances.
func (h *UsersHandler) AdjustBalance(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.BalanceAdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	adj, err := h.admin.AdjustUserBalance(c.Context(), principal.User, c.Params("id"),
		req.Bank, req.Amount, req.Reason, req.ExpectedBalance)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": adjustmentResponse(adj)})
}

// ManageableRoles handles GET /admin/roles — the roles the caller may assign.
func (h *UsersHandler) ManageableRoles(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	manageable := roles.Manageable(principal.RoleKey)
	out := make([]fiber.Map, 0, len(manageable))
	for _, role := range manageable {
		out = append(out, roleResponse(role))
	}
	return c.JSON(fiber.Map{"data": out})
}

func userResponse(user *domain.AdminUser) fiber.Map {
	badge := roles.BadgeFor(user.RoleKey)
	return fiber.Map{
		"id":             user.ID,
		"name":           user.Name,
		"email":          user.Email,
		"role":           user.RoleKey,
		"role_badge":     fiber.Map{"label": badge.Label, "color": badge.Color},
		"assigned_banks": user.AssignedBanks,
		"bank_balances":  user.BankBalances,
		"active":         user.Active,
	}
}

func roleResponse(role roles.Role) fiber.Map {
	return fiber.Map{
		"key":   role.Key,
		"name":  role.Name,
		"rank":  role.Rank,
		"badge": fiber.Map{"label": role.Badge.Label, "color": role.Badge.Color},
	}
}

func adjustmentResponse(adj *domain.BalanceAdjustment) fiber.Map {
	return fiber.Map{
		"id":          adj.ID,
		"target_type": adj.TargetType,
		"target_id":   adj.TargetID,
		"bank":        adj.Bank,
		"old_balance": adj.OldBalance,
		"new_balance": adj.NewBalance,
		"reason":      adj.Reason,
		"actor_name":  adj.ActorName,
		"created_at":  adj.CreatedAt,
	}
}
