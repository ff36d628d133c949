package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

func (r *Repository) GetPreferenceByEmployeeID(employeeID int64) (*domain.EmployeePreference, error) {
	query := `
		SELECT
			can_work_weekdays, can_work_weekends, can_work_days, can_work_nights, no_preference,
			min_hours_per_day, max_hours_per_day, min_hours_per_week, max_hours_per_week,
			preferred_work_streak, min_rest_streak, version
		FROM employee_preferences WHERE employee_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	pref := &domain.EmployeePreference{
		EmployeeID: employeeID,
	}

	dst := []any{
		&pref.CanWorkWeekdays, &pref.CanWorkWeekends, &pref.CanWorkDays, &pref.CanWorkNights, &pref.NoPreference,
		&pref.MinHoursPerDay, &pref.MaxHoursPerDay, &pref.MinHoursPerWeek, &pref.MaxHoursPerWeek,
		&pref.PreferredWorkStreak, &pref.MinRestStreak, &pref.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, employeeID).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// 没有偏好记录不是错误，排班时按无限制处理
			return nil, nil
		}
		return nil, err
	}

	return pref, nil
}

func (r *Repository) UpsertPreference(pref *domain.EmployeePreference) error {
	query := `
		INSERT INTO employee_preferences (
			employee_id, can_work_weekdays, can_work_weekends, can_work_days, can_work_nights, no_preference,
			min_hours_per_day, max_hours_per_day, min_hours_per_week, max_hours_per_week,
			preferred_work_streak, min_rest_streak
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (employee_id) DO UPDATE
		SET
			can_work_weekdays = EXCLUDED.can_work_weekdays,
			can_work_weekends = EXCLUDED.can_work_weekends,
			can_work_days = EXCLUDED.can_work_days,
			can_work_nights = EXCLUDED.can_work_nights,
			no_preference = EXCLUDED.no_preference,
			min_hours_per_day = EXCLUDED.min_hours_per_day,
			max_hours_per_day = EXCLUDED.max_hours_per_day,
			min_hours_per_week = EXCLUDED.min_hours_per_week,
			max_hours_per_week = EXCLUDED.max_hours_per_week,
			preferred_work_streak = EXCLUDED.preferred_work_streak,
			min_rest_streak = EXCLUDED.min_rest_streak,
			version = employee_preferences.version + 1
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		pref.EmployeeID, pref.CanWorkWeekdays, pref.CanWorkWeekends, pref.CanWorkDays, pref.CanWorkNights, pref.NoPreference,
		pref.MinHoursPerDay, pref.MaxHoursPerDay, pref.MinHoursPerWeek, pref.MaxHoursPerWeek,
		pref.PreferredWorkStreak, pref.MinRestStreak,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&pref.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAvailabilityByEmployeeID(employeeID int64) ([]*domain.EmployeeAvailability, error) {
	query := `
		SELECT id, weekday, start_time, end_time
		FROM employee_availability WHERE employee_id = $1
		ORDER BY weekday, start_time
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	windows := make([]*domain.EmployeeAvailability, 0)
	for rows.Next() {
		window := &domain.EmployeeAvailability{EmployeeID: employeeID}
		if err := rows.Scan(&window.ID, &window.Weekday, &window.StartTime, &window.EndTime); err != nil {
			return nil, err
		}
		windows = append(windows, window)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return windows, nil
}

// ReplaceAvailability 用提交的窗口整体替换员工的可用时间
func (r *Repository) ReplaceAvailability(employeeID int64, windows []*domain.EmployeeAvailability) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM employee_availability WHERE employee_id = $1`
	if _, err := tx.ExecContext(ctx, query, employeeID); err != nil {
		return err
	}

	for _, window := range windows {
		query = `
			INSERT INTO employee_availability (employee_id, weekday, start_time, end_time)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		args := []any{employeeID, window.Weekday, window.StartTime, window.EndTime}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&window.ID); err != nil {
			return err
		}
		window.EmployeeID = employeeID
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// GetAvailabilityForSite 一次性取出站点员工池的所有可用时间窗口
func (r *Repository) GetAvailabilityForSite(siteID int64) (map[int64][]*domain.EmployeeAvailability, error) {
	query := `
		SELECT ea.employee_id, ea.id, ea.weekday, ea.start_time, ea.end_time
		FROM employee_availability ea
		JOIN employees e ON ea.employee_id = e.id
		WHERE e.site_id = $1 AND e.is_active = true
		ORDER BY ea.employee_id, ea.weekday
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]*domain.EmployeeAvailability)
	for rows.Next() {
		window := &domain.EmployeeAvailability{}
		if err := rows.Scan(&window.EmployeeID, &window.ID, &window.Weekday, &window.StartTime, &window.EndTime); err != nil {
			return nil, err
		}
		result[window.EmployeeID] = append(result[window.EmployeeID], window)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// GetPreferencesForSite 一次性取出站点员工池的所有偏好
func (r *Repository) GetPreferencesForSite(siteID int64) (map[int64]*domain.EmployeePreference, error) {
	query := `
		SELECT
			ep.employee_id,
			ep.can_work_weekdays, ep.can_work_weekends, ep.can_work_days, ep.can_work_nights, ep.no_preference,
			ep.min_hours_per_day, ep.max_hours_per_day, ep.min_hours_per_week, ep.max_hours_per_week,
			ep.preferred_work_streak, ep.min_rest_streak, ep.version
		FROM employee_preferences ep
		JOIN employees e ON ep.employee_id = e.id
		WHERE e.site_id = $1 AND e.is_active = true
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]*domain.EmployeePreference)
	for rows.Next() {
		pref := &domain.EmployeePreference{}
		dst := []any{
			&pref.EmployeeID,
			&pref.CanWorkWeekdays, &pref.CanWorkWeekends, &pref.CanWorkDays, &pref.CanWorkNights, &pref.NoPreference,
			&pref.MinHoursPerDay, &pref.MaxHoursPerDay, &pref.MinHoursPerWeek, &pref.MaxHoursPerWeek,
			&pref.PreferredWorkStreak, &pref.MinRestStreak, &pref.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		result[pref.EmployeeID] = pref
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
