package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/finops-admin/internal/domain"
)

// BankRepository manages bank name persistence.
type BankRepository interface {
	Create(ctx context.Context, bank *domain.Bank) error
	Delete(ctx context.Context, id string) error
	GetByName(ctx context.Context, name string) (*domain.Bank, error)
	List(ctx context.Context) ([]domain.Bank, error)
}

type bankRepository struct {
	pool *pgxpool.Pool
}

// NewBankRepository builds the repository.
func NewBankRepository(pool *pgxpool.Pool) BankRepository {
	return &bankRepository{pool: pool}
}

func (r *bankRepository) Create(ctx context.Context, bank *domain.Bank) error {
	const query = `
        INSERT INTO banks (name)
        VALUES ($1)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, bank.Name).Scan(&bank.ID, &bank.CreatedAt)
}

func (r *bankRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM banks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bankRepository) GetByName(ctx context.Context, name string) (*domain.Bank, error) {
	const query = `
        SELECT id, name, created_at
        FROM banks WHERE LOWER(name)=LOWER($1)`
	var bank domain.Bank
	if err := r.pool.QueryRow(ctx, query, name).Scan(&bank.ID, &bank.Name, &bank.CreatedAt); err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *bankRepository) List(ctx context.Context) ([]domain.Bank, error) {
	const query = `
        SELECT id, name, created_at
        FROM banks ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Bank
	for rows.Next() {
		var bank domain.Bank
		if err := rows.Scan(&bank.ID, &bank.Name, &bank.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, bank)
	}
	return result, rows.Err()
}
