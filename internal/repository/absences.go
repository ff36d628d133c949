package repository

import (
	"context"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

func (r *Repository) CreateAbsence(absence *domain.Absence) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO absences (employee_id, start_date, end_date, reason, approved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	args := []any{absence.EmployeeID, absence.StartDate, absence.EndDate, absence.Reason, absence.Approved}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&absence.ID, &absence.CreatedAt, &absence.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAbsenceByID(id int64) (*domain.Absence, error) {
	query := `
		SELECT employee_id, start_date, end_date, reason, approved, created_at, version
		FROM absences WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	absence := &domain.Absence{
		ID: id,
	}

	dst := []any{&absence.EmployeeID, &absence.StartDate, &absence.EndDate, &absence.Reason, &absence.Approved, &absence.CreatedAt, &absence.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return absence, nil
}

func (r *Repository) GetAbsencesByEmployeeID(employeeID int64) ([]*domain.Absence, error) {
	query := `
		SELECT id, start_date, end_date, reason, approved, created_at, version
		FROM absences WHERE employee_id = $1
		ORDER BY start_date DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	absences := make([]*domain.Absence, 0)
	for rows.Next() {
		absence := &domain.Absence{EmployeeID: employeeID}
		dst := []any{&absence.ID, &absence.StartDate, &absence.EndDate, &absence.Reason, &absence.Approved, &absence.CreatedAt, &absence.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		absences = append(absences, absence)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return absences, nil
}

// GetApprovedAbsencesForSite 取出站点员工池在某段日期内已批准的请假
func (r *Repository) GetApprovedAbsencesForSite(siteID int64, from, to time.Time) (map[int64][]*domain.Absence, error) {
	query := `
		SELECT a.id, a.employee_id, a.start_date, a.end_date, a.reason, a.approved, a.created_at, a.version
		FROM absences a
		JOIN employees e ON a.employee_id = e.id
		WHERE e.site_id = $1 AND e.is_active = true
			AND a.approved = true
			AND a.start_date <= $3 AND a.end_date >= $2
		ORDER BY a.employee_id, a.start_date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, siteID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]*domain.Absence)
	for rows.Next() {
		absence := &domain.Absence{}
		dst := []any{&absence.ID, &absence.EmployeeID, &absence.StartDate, &absence.EndDate, &absence.Reason, &absence.Approved, &absence.CreatedAt, &absence.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		result[absence.EmployeeID] = append(result[absence.EmployeeID], absence)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Repository) UpdateAbsence(absence *domain.Absence) error {
	query := `
		UPDATE absences
		SET
			start_date = $1,
			end_date = $2,
			reason = $3,
			approved = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{absence.StartDate, absence.EndDate, absence.Reason, absence.Approved, absence.ID, absence.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&absence.CreatedAt, &absence.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteAbsence(id int64) error {
	query := `
		DELETE FROM absences WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
