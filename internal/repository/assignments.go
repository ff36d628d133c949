package repository

import (
	"context"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

func scanAssignment(a *domain.Assignment) []any {
	return []any{
		&a.ID, &a.ScheduleID, &a.EmployeeID, &a.SiteID, &a.Date,
		&a.StartTime, &a.EndTime, &a.DurationMinutes, &a.AgentType,
		&a.Label, &a.Notes, &a.Status, &a.CreatedAt, &a.Version,
	}
}

const assignmentColumns = `
	id, schedule_id, employee_id, site_id, date,
	start_time, end_time, duration_minutes, agent_type,
	label, notes, status, created_at, version
`

func (r *Repository) CreateAssignment(a *domain.Assignment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO assignments (schedule_id, employee_id, site_id, date, start_time, end_time, duration_minutes, agent_type, label, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, version
	`

	args := []any{a.ScheduleID, a.EmployeeID, a.SiteID, a.Date, a.StartTime, a.EndTime, a.DurationMinutes, a.AgentType, a.Label, a.Notes, a.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAssignmentByID(id int64) (*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	a := &domain.Assignment{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(scanAssignment(a)...); err != nil {
		return nil, err
	}

	return a, nil
}

func (r *Repository) getAssignmentsByQuery(query string, args ...any) ([]*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*domain.Assignment, 0)
	for rows.Next() {
		a := &domain.Assignment{}
		if err := rows.Scan(scanAssignment(a)...); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *Repository) GetAssignmentsByScheduleID(scheduleID int64) ([]*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE schedule_id = $1 ORDER BY date, start_time`
	return r.getAssignmentsByQuery(query, scheduleID)
}

// GetAssignmentsByEmployeeID 返回员工在某段日期内所有班表下的排班
// 手动排班的冲突检查需要跨班表看历史
func (r *Repository) GetAssignmentsByEmployeeID(employeeID int64, from, to time.Time) ([]*domain.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE employee_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, start_time
	`
	return r.getAssignmentsByQuery(query, employeeID, from, to)
}

// GetAssignmentsForSiteEmployees 返回站点员工池在某段日期内的所有排班
// 自动生成时用它给负载计算喂上个月末尾和别的班表的数据
func (r *Repository) GetAssignmentsForSiteEmployees(siteID int64, from, to time.Time) ([]*domain.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE employee_id IN (SELECT id FROM employees WHERE site_id = $1 AND is_active = true)
			AND date >= $2 AND date <= $3
		ORDER BY date, start_time
	`
	return r.getAssignmentsByQuery(query, siteID, from, to)
}

func (r *Repository) UpdateAssignment(a *domain.Assignment) error {
	query := `
		UPDATE assignments
		SET
			employee_id = $1,
			site_id = $2,
			date = $3,
			start_time = $4,
			end_time = $5,
			duration_minutes = $6,
			agent_type = $7,
			label = $8,
			notes = $9,
			status = $10,
			version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{a.EmployeeID, a.SiteID, a.Date, a.StartTime, a.EndTime, a.DurationMinutes, a.AgentType, a.Label, a.Notes, a.Status, a.ID, a.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&a.CreatedAt, &a.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteAssignment(id int64) error {
	query := `
		DELETE FROM assignments WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
