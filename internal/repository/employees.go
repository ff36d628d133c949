package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO employees (company_id, site_id, full_name, email, experience_years, contract_type, contract_weekly_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_active, created_at, version
	`

	args := []any{employee.CompanyID, employee.SiteID, employee.FullName, employee.Email, employee.ExperienceYears, employee.ContractType, employee.ContractWeeklyHours}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&employee.ID, &employee.IsActive, &employee.CreatedAt, &employee.Version); err != nil {
		return err
	}

	if err := insertEmployeeTags(ctx, tx, employee); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func insertEmployeeTags(ctx context.Context, tx *sql.Tx, employee *domain.Employee) error {
	for _, agentType := range employee.AgentTypes {
		query := `
			INSERT INTO employee_agent_types (employee_id, agent_type)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, employee.ID, agentType); err != nil {
			return err
		}
	}

	for _, skill := range employee.Skills {
		query := `
			INSERT INTO employee_skills (employee_id, skill)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, employee.ID, skill); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) GetEmployeeByID(id int64) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			e.company_id,
			e.site_id,
			e.full_name,
			e.email,
			e.experience_years,
			e.contract_type,
			e.contract_weekly_hours,
			e.is_active,
			e.created_at,
			e.version,
			eat.agent_type,
			es.skill
		FROM employees e
		LEFT JOIN employee_agent_types eat ON e.id = eat.employee_id
		LEFT JOIN employee_skills es ON e.id = es.employee_id
		WHERE e.id = $1
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employee := &domain.Employee{
		ID:         id,
		AgentTypes: make([]string, 0),
		Skills:     make([]string, 0),
	}
	agentTypeSet := make(map[string]bool)
	skillSet := make(map[string]bool)
	found := false

	for rows.Next() {
		var row struct {
			CompanyID           int64
			SiteID              int64
			FullName            string
			Email               string
			ExperienceYears     int32
			ContractType        string
			ContractWeeklyHours int32
			IsActive            bool
			CreatedAt           time.Time
			Version             int32

			AgentType sql.NullString
			Skill     sql.NullString
		}

		dst := []any{
			&row.CompanyID,
			&row.SiteID,
			&row.FullName,
			&row.Email,
			&row.ExperienceYears,
			&row.ContractType,
			&row.ContractWeeklyHours,
			&row.IsActive,
			&row.CreatedAt,
			&row.Version,
			&row.AgentType,
			&row.Skill,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !found {
			found = true
			employee.CompanyID = row.CompanyID
			employee.SiteID = row.SiteID
			employee.FullName = row.FullName
			employee.Email = row.Email
			employee.ExperienceYears = row.ExperienceYears
			employee.ContractType = row.ContractType
			employee.ContractWeeklyHours = row.ContractWeeklyHours
			employee.IsActive = row.IsActive
			employee.CreatedAt = row.CreatedAt
			employee.Version = row.Version
		}

		// 两个子表做笛卡尔积，需要去重
		if row.AgentType.Valid && !agentTypeSet[row.AgentType.String] {
			agentTypeSet[row.AgentType.String] = true
			employee.AgentTypes = append(employee.AgentTypes, row.AgentType.String)
		}
		if row.Skill.Valid && !skillSet[row.Skill.String] {
			skillSet[row.Skill.String] = true
			employee.Skills = append(employee.Skills, row.Skill.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return employee, nil
}

func (r *Repository) getEmployeesByQuery(query string, arg any) ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employeesMap := make(map[int64]*domain.Employee)
	agentTypeSets := make(map[int64]map[string]bool)
	skillSets := make(map[int64]map[string]bool)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID                  int64
			CompanyID           int64
			SiteID              int64
			FullName            string
			Email               string
			ExperienceYears     int32
			ContractType        string
			ContractWeeklyHours int32
			IsActive            bool
			CreatedAt           time.Time
			Version             int32

			AgentType sql.NullString
			Skill     sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.CompanyID,
			&row.SiteID,
			&row.FullName,
			&row.Email,
			&row.ExperienceYears,
			&row.ContractType,
			&row.ContractWeeklyHours,
			&row.IsActive,
			&row.CreatedAt,
			&row.Version,
			&row.AgentType,
			&row.Skill,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		employee, exists := employeesMap[row.ID]
		if !exists {
			employee = &domain.Employee{
				ID:                  row.ID,
				CompanyID:           row.CompanyID,
				SiteID:              row.SiteID,
				FullName:            row.FullName,
				Email:               row.Email,
				ExperienceYears:     row.ExperienceYears,
				ContractType:        row.ContractType,
				ContractWeeklyHours: row.ContractWeeklyHours,
				IsActive:            row.IsActive,
				CreatedAt:           row.CreatedAt,
				Version:             row.Version,
				AgentTypes:          make([]string, 0),
				Skills:              make([]string, 0),
			}
			employeesMap[row.ID] = employee
			agentTypeSets[row.ID] = make(map[string]bool)
			skillSets[row.ID] = make(map[string]bool)
			order = append(order, row.ID)
		}

		if row.AgentType.Valid && !agentTypeSets[row.ID][row.AgentType.String] {
			agentTypeSets[row.ID][row.AgentType.String] = true
			employee.AgentTypes = append(employee.AgentTypes, row.AgentType.String)
		}
		if row.Skill.Valid && !skillSets[row.ID][row.Skill.String] {
			skillSets[row.ID][row.Skill.String] = true
			employee.Skills = append(employee.Skills, row.Skill.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	employees := make([]*domain.Employee, 0, len(order))
	for _, id := range order {
		employees = append(employees, employeesMap[id])
	}

	return employees, nil
}

func (r *Repository) GetAllEmployeesByCompanyID(companyID int64) ([]*domain.Employee, error) {
	query := `
		SELECT
			e.id, e.company_id, e.site_id, e.full_name, e.email,
			e.experience_years, e.contract_type, e.contract_weekly_hours,
			e.is_active, e.created_at, e.version,
			eat.agent_type, es.skill
		FROM employees e
		LEFT JOIN employee_agent_types eat ON e.id = eat.employee_id
		LEFT JOIN employee_skills es ON e.id = es.employee_id
		WHERE e.company_id = $1
		ORDER BY e.id
	`

	return r.getEmployeesByQuery(query, companyID)
}

// GetActiveEmployeesBySiteID 返回站点的候选员工池
func (r *Repository) GetActiveEmployeesBySiteID(siteID int64) ([]*domain.Employee, error) {
	query := `
		SELECT
			e.id, e.company_id, e.site_id, e.full_name, e.email,
			e.experience_years, e.contract_type, e.contract_weekly_hours,
			e.is_active, e.created_at, e.version,
			eat.agent_type, es.skill
		FROM employees e
		LEFT JOIN employee_agent_types eat ON e.id = eat.employee_id
		LEFT JOIN employee_skills es ON e.id = es.employee_id
		WHERE e.site_id = $1 AND e.is_active = true
		ORDER BY e.id
	`

	return r.getEmployeesByQuery(query, siteID)
}

func (r *Repository) UpdateEmployee(employee *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE employees
		SET
			site_id = $1,
			full_name = $2,
			email = $3,
			experience_years = $4,
			contract_type = $5,
			contract_weekly_hours = $6,
			is_active = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING created_at, version
	`

	args := []any{employee.SiteID, employee.FullName, employee.Email, employee.ExperienceYears, employee.ContractType, employee.ContractWeeklyHours, employee.IsActive, employee.ID, employee.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&employee.CreatedAt, &employee.Version); err != nil {
		return err
	}

	// 岗位类型和技能直接重建
	if _, err := tx.ExecContext(ctx, `DELETE FROM employee_agent_types WHERE employee_id = $1`, employee.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM employee_skills WHERE employee_id = $1`, employee.ID); err != nil {
		return err
	}
	if err := insertEmployeeTags(ctx, tx, employee); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteEmployee(id int64) error {
	query := `
		DELETE FROM employees WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
