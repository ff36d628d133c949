package repository

import (
	"context"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

func (r *Repository) GetContractRequirementsByCompanyID(companyID int64) ([]*domain.ContractHourRequirement, error) {
	query := `
		SELECT id, contract_type, min_monthly_hours, version
		FROM contract_hour_requirements WHERE company_id = $1
		ORDER BY contract_type
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requirements := make([]*domain.ContractHourRequirement, 0)
	for rows.Next() {
		requirement := &domain.ContractHourRequirement{CompanyID: companyID}
		dst := []any{&requirement.ID, &requirement.ContractType, &requirement.MinMonthlyHours, &requirement.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requirements = append(requirements, requirement)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requirements, nil
}

// UpsertContractRequirement 全职的法定最低工时不走这里，handler 层会直接拒绝
func (r *Repository) UpsertContractRequirement(requirement *domain.ContractHourRequirement) error {
	query := `
		INSERT INTO contract_hour_requirements (company_id, contract_type, min_monthly_hours)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, contract_type) DO UPDATE
		SET
			min_monthly_hours = EXCLUDED.min_monthly_hours,
			version = contract_hour_requirements.version + 1
		RETURNING id, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{requirement.CompanyID, requirement.ContractType, requirement.MinMonthlyHours}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&requirement.ID, &requirement.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteContractRequirement(id int64) error {
	query := `
		DELETE FROM contract_hour_requirements WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
