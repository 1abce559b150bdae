package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/finops-admin/internal/domain"
)

// AdminUserRepository defines persistence access for operator accounts.
type AdminUserRepository interface {
	Create(ctx context.Context, user *domain.AdminUser) error
	Update(ctx context.Context, user *domain.AdminUser) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	List(ctx context.Context) ([]domain.AdminUser, error)
}

type adminUserRepository struct {
	pool *pgxpool.Pool
}

// NewAdminUserRepository returns a Postgres-backed implementation.
func NewAdminUserRepository(pool *pgxpool.Pool) AdminUserRepository {
	return &adminUserRepository{pool: pool}
}

func (r *adminUserRepository) Create(ctx context.Context, user *domain.AdminUser) error {
	const query = `
        INSERT INTO admin_users (name, email, role_key, assigned_banks, bank_balances, password_hash, active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	if user.AssignedBanks == nil {
		user.AssignedBanks = []string{}
	}
	if user.BankBalances == nil {
		user.BankBalances = map[string]float64{}
	}
	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.RoleKey,
		user.AssignedBanks,
		user.BankBalances,
		user.PasswordHash,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *adminUserRepository) Update(ctx context.Context, user *domain.AdminUser) error {
	const query = `
        UPDATE admin_users
        SET name=$1, email=$2, role_key=$3, assigned_banks=$4, bank_balances=$5,
            password_hash=$6, active=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.RoleKey,
		user.AssignedBanks,
		user.BankBalances,
		user.PasswordHash,
		user.Active,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminUserRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM admin_users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const adminUserColumns = `
        id, name, email, role_key, assigned_banks, bank_balances, password_hash, active, created_at, updated_at`

func scanAdminUser(row pgx.Row) (*domain.AdminUser, error) {
	var user domain.AdminUser
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.RoleKey,
		&user.AssignedBanks,
		&user.BankBalances,
		&user.PasswordHash,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminUserRepository) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	return scanAdminUser(r.pool.QueryRow(ctx,
		`SELECT `+adminUserColumns+` FROM admin_users WHERE id=$1`, id))
}

func (r *adminUserRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	return scanAdminUser(r.pool.QueryRow(ctx,
		`SELECT `+adminUserColumns+` FROM admin_users WHERE email=$1`, email))
}

func (r *adminUserRepository) List(ctx context.Context) ([]domain.AdminUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+adminUserColumns+` FROM admin_users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AdminUser
	for rows.Next() {
		user, err := scanAdminUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}
