package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/finops-admin/internal/domain"
)

// PlatformRepository manages platform persistence.
type PlatformRepository interface {
	Create(ctx context.Context, platform *domain.Platform) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Platform, error)
	GetByName(ctx context.Context, name string) (*domain.Platform, error)
	List(ctx context.Context) ([]domain.Platform, error)
	UpdateBalance(ctx context.Context, id string, balance float64) error
}

type platformRepository struct {
	pool *pgxpool.Pool
}

// NewPlatformRepository builds the repository.
func NewPlatformRepository(pool *pgxpool.Pool) PlatformRepository {
	return &platformRepository{pool: pool}
}

func (r *platformRepository) Create(ctx context.Context, platform *domain.Platform) error {
	const query = `
        INSERT INTO platforms (name, balance_usdt)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		platform.Name,
		platform.BalanceUSDT,
	).Scan(&platform.ID, &platform.CreatedAt, &platform.UpdatedAt)
}

func (r *platformRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM platforms WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *platformRepository) GetByID(ctx context.Context, id string) (*domain.Platform, error) {
	const query = `
        SELECT id, name, balance_usdt, created_at, updated_at
        FROM platforms WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *platformRepository) GetByName(ctx context.Context, name string) (*domain.Platform, error) {
	const query = `
        SELECT id, name, balance_usdt, created_at, updated_at
        FROM platforms WHERE LOWER(name)=LOWER($1)`
	return r.scanOne(r.pool.QueryRow(ctx, query, name))
}

func (r *platformRepository) scanOne(row pgx.Row) (*domain.Platform, error) {
	var platform domain.Platform
	if err := row.Scan(
		&platform.ID,
		&platform.Name,
		&platform.BalanceUSDT,
		&platform.CreatedAt,
		&platform.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &platform, nil
}

func (r *platformRepository) List(ctx context.Context) ([]domain.Platform, error) {
	const query = `
        SELECT id, name, balance_usdt, created_at, updated_at
        FROM platforms ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Platform
	for rows.Next() {
		var platform domain.Platform
		if err := rows.Scan(&platform.ID, &platform.Name, &platform.BalanceUSDT, &platform.CreatedAt, &platform.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, platform)
	}
	return result, rows.Err()
}

func (r *platformRepository) UpdateBalance(ctx context.Context, id string, balance float64) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE platforms SET balance_usdt=$1, updated_at=NOW() WHERE id=$2`, balance, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
