package repository

import (
	"context"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

func (r *Repository) CreateSite(site *domain.Site) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO sites (company_id, name, address)
		VALUES ($1, $2, $3)
		RETURNING id, is_active, created_at, version
	`

	args := []any{site.CompanyID, site.Name, site.Address}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&site.ID, &site.IsActive, &site.CreatedAt, &site.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSiteByID(id int64) (*domain.Site, error) {
	query := `
		SELECT company_id, name, address, is_active, created_at, version
		FROM sites WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	site := &domain.Site{
		ID: id,
	}

	dst := []any{&site.CompanyID, &site.Name, &site.Address, &site.IsActive, &site.CreatedAt, &site.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return site, nil
}

func (r *Repository) GetAllSitesByCompanyID(companyID int64) ([]*domain.Site, error) {
	query := `
		SELECT id, name, address, is_active, created_at, version
		FROM sites WHERE company_id = $1 ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := make([]*domain.Site, 0)
	for rows.Next() {
		site := &domain.Site{CompanyID: companyID}
		dst := []any{&site.ID, &site.Name, &site.Address, &site.IsActive, &site.CreatedAt, &site.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sites, nil
}

func (r *Repository) UpdateSite(site *domain.Site) error {
	query := `
		UPDATE sites
		SET
			name = $1,
			address = $2,
			is_active = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{site.Name, site.Address, site.IsActive, site.ID, site.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&site.CreatedAt, &site.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteSite(id int64) error {
	query := `
		DELETE FROM sites WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
