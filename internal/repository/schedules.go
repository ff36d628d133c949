package repository

import (
	"context"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

func (r *Repository) CreateSchedule(schedule *domain.Schedule) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO schedules (site_id, month, year)
		VALUES ($1, $2, $3)
		RETURNING id, published, validated, sent, completion_percentage, created_at, updated_at, version
	`

	args := []any{schedule.SiteID, schedule.Month, schedule.Year}
	dst := []any{&schedule.ID, &schedule.Published, &schedule.Validated, &schedule.Sent, &schedule.CompletionPercentage, &schedule.CreatedAt, &schedule.UpdatedAt, &schedule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleByID(id int64) (*domain.Schedule, error) {
	query := `
		SELECT site_id, month, year, published, validated, sent, completion_percentage, created_at, updated_at, version
		FROM schedules WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	schedule := &domain.Schedule{
		ID: id,
	}

	dst := []any{&schedule.SiteID, &schedule.Month, &schedule.Year, &schedule.Published, &schedule.Validated, &schedule.Sent, &schedule.CompletionPercentage, &schedule.CreatedAt, &schedule.UpdatedAt, &schedule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return schedule, nil
}

// GetScheduleBySiteAndPeriod 同一站点同一个月份最多只有一张班表
func (r *Repository) GetScheduleBySiteAndPeriod(siteID int64, month, year int32) (*domain.Schedule, error) {
	query := `
		SELECT id, published, validated, sent, completion_percentage, created_at, updated_at, version
		FROM schedules WHERE site_id = $1 AND month = $2 AND year = $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	schedule := &domain.Schedule{
		SiteID: siteID,
		Month:  month,
		Year:   year,
	}

	dst := []any{&schedule.ID, &schedule.Published, &schedule.Validated, &schedule.Sent, &schedule.CompletionPercentage, &schedule.CreatedAt, &schedule.UpdatedAt, &schedule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, siteID, month, year).Scan(dst...); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (r *Repository) GetAllSchedulesBySiteID(siteID int64) ([]*domain.Schedule, error) {
	query := `
		SELECT id, month, year, published, validated, sent, completion_percentage, created_at, updated_at, version
		FROM schedules WHERE site_id = $1
		ORDER BY year DESC, month DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]*domain.Schedule, 0)
	for rows.Next() {
		schedule := &domain.Schedule{SiteID: siteID}
		dst := []any{&schedule.ID, &schedule.Month, &schedule.Year, &schedule.Published, &schedule.Validated, &schedule.Sent, &schedule.CompletionPercentage, &schedule.CreatedAt, &schedule.UpdatedAt, &schedule.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// ReplaceScheduleAssignments 用一次生成的结果整体替换班表的自动排班
// 手动排班（PENDING/CONFIRMED/DECLINED）不会被清掉
func (r *Repository) ReplaceScheduleAssignments(scheduleID int64, assignments []*domain.Assignment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 先将之前自动生成的排班删除
	query := `DELETE FROM assignments WHERE schedule_id = $1 AND status = $2`
	if _, err := tx.ExecContext(ctx, query, scheduleID, domain.AssignmentAssigned); err != nil {
		return err
	}

	for _, a := range assignments {
		query = `
			INSERT INTO assignments (schedule_id, employee_id, site_id, date, start_time, end_time, duration_minutes, agent_type, label, notes, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at, version
		`

		args := []any{scheduleID, a.EmployeeID, a.SiteID, a.Date, a.StartTime, a.EndTime, a.DurationMinutes, a.AgentType, a.Label, a.Notes, a.Status}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.Version); err != nil {
			return err
		}
		a.ScheduleID = scheduleID
	}

	query = `UPDATE schedules SET updated_at = now() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, scheduleID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateScheduleFlags(schedule *domain.Schedule) error {
	query := `
		UPDATE schedules
		SET
			published = $1,
			validated = $2,
			sent = $3,
			updated_at = now(),
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{schedule.Published, schedule.Validated, schedule.Sent, schedule.ID, schedule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&schedule.UpdatedAt, &schedule.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateScheduleCompletion(schedule *domain.Schedule) error {
	query := `
		UPDATE schedules
		SET
			completion_percentage = $1,
			updated_at = now(),
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{schedule.CompletionPercentage, schedule.ID, schedule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&schedule.UpdatedAt, &schedule.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteSchedule(id int64) error {
	query := `
		DELETE FROM schedules WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
