package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/finops-admin/internal/domain"
)

// OrganizationRepository manages the white-label branding record.
type OrganizationRepository interface {
	Get(ctx context.Context) (*domain.Organization, error)
	UpdateBranding(ctx context.Context, org *domain.Organization) error
}

type organizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository builds the repository.
func NewOrganizationRepository(pool *pgxpool.Pool) OrganizationRepository {
	return &organizationRepository{pool: pool}
}

func (r *organizationRepository) Get(ctx context.Context) (*domain.Organization, error) {
	const query = `
        SELECT id, name, display_name, logo_url, primary_color, accent_color, support_email, updated_at
        FROM organizations ORDER BY updated_at ASC LIMIT 1`
	var org domain.Organization
	if err := r.pool.QueryRow(ctx, query).Scan(
		&org.ID,
		&org.Name,
		&org.DisplayName,
		&org.LogoURL,
		&org.PrimaryColor,
		&org.AccentColor,
		&org.SupportEmail,
		&org.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) UpdateBranding(ctx context.Context, org *domain.Organization) error {
	const query = `
        UPDATE organizations
        SET display_name=$1, logo_url=$2, primary_color=$3, accent_color=$4, support_email=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		org.DisplayName,
		org.LogoURL,
		org.PrimaryColor,
		org.AccentColor,
		org.SupportEmail,
		org.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
