package repository

import (
	"context"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

func (r *Repository) CreateCompany(company *domain.Company) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO companies (name)
		VALUES ($1)
		RETURNING id, created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, company.Name).Scan(&company.ID, &company.CreatedAt, &company.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetCompanyByID(id int64) (*domain.Company, error) {
	query := `
		SELECT name, created_at, version FROM companies WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	company := &domain.Company{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&company.Name, &company.CreatedAt, &company.Version); err != nil {
		return nil, err
	}

	return company, nil
}

func (r *Repository) GetCompanyIDByName(name string) (int64, error) {
	query := `SELECT id FROM companies WHERE name = $1`

	var id int64
	if err := r.dbpool.QueryRowContext(context.Background(), query, name).Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *Repository) UpdateCompany(company *domain.Company) error {
	query := `
		UPDATE companies
		SET
			name = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{company.Name, company.ID, company.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&company.CreatedAt, &company.Version); err != nil {
		return err
	}

	return nil
}
