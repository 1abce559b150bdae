package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/finops-admin/internal/domain"
)

// AdjustmentRepository stores balance audit entries. Entries are append-only;
// no update or delete operations exist.
type AdjustmentRepository interface {
	Create(ctx context.Context, adj *domain.BalanceAdjustment) error
	ListByTarget(ctx context.Context, targetType domain.AdjustmentTarget, targetID string, limit, offset int) ([]domain.BalanceAdjustment, error)
	ListRecent(ctx context.Context, limit, offset int) ([]domain.BalanceAdjustment, error)
}

type adjustmentRepository struct {
	pool *pgxpool.Pool
}

// NewAdjustmentRepository builds repository.
func NewAdjustmentRepository(pool *pgxpool.Pool) AdjustmentRepository {
	return &adjustmentRepository{pool: pool}
}

func (r *adjustmentRepository) Create(ctx context.Context, adj *domain.BalanceAdjustment) error {
	const query = `
        INSERT INTO balance_adjustments (target_type, target_id, bank, old_balance, new_balance, reason, actor_name)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		adj.TargetType,
		adj.TargetID,
		adj.Bank,
		adj.OldBalance,
		adj.NewBalance,
		adj.Reason,
		adj.ActorName,
	).Scan(&adj.ID, &adj.CreatedAt)
}

func (r *adjustmentRepository) ListByTarget(ctx context.Context, targetType domain.AdjustmentTarget, targetID string, limit, offset int) ([]domain.BalanceAdjustment, error) {
	const query = `
        SELECT id, target_type, target_id, bank, old_balance, new_balance, reason, actor_name, created_at
        FROM balance_adjustments
        WHERE target_type=$1 AND target_id=$2
        ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, targetType, targetID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAdjustments(rows)
}

func (r *adjustmentRepository) ListRecent(ctx context.Context, limit, offset int) ([]domain.BalanceAdjustment, error) {
	const query = `
        SELECT id, target_type, target_id, bank, old_balance, new_balance, reason, actor_name, created_at
        FROM balance_adjustments
        ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAdjustments(rows)
}

func scanAdjustments(rows pgx.Rows) ([]domain.BalanceAdjustment, error) {
	var result []domain.BalanceAdjustment
	for rows.Next() {
		var adj domain.BalanceAdjustment
		if err := rows.Scan(
			&adj.ID,
			&adj.TargetType,
			&adj.TargetID,
			&adj.Bank,
			&adj.OldBalance,
			&adj.NewBalance,
			&adj.Reason,
			&adj.ActorName,
			&adj.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, adj)
	}
	return result, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}
