package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

// UpsertWeeklyRule 对站点在某个星期几的基础人力需求做整体替换
// 每个站点每个星期几最多只有一条规则
func (r *Repository) UpsertWeeklyRule(rule *domain.WeeklyStaffingRule) error {
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
		INSERT INTO weekly_staffing_rules (site_id, weekday)
		VALUES ($1, $2)
		ON CONFLICT (site_id, weekday) DO UPDATE
		SET version = weekly_staffing_rules.version + 1
		RETURNING id, created_at, version
	`

	if err := tx.QueryRowContext(ctx, query, rule.SiteID, rule.Weekday).Scan(&rule.ID, &rule.CreatedAt, &rule.Version); err != nil {
		return err
	}

	// 需求行直接重建
	query = `DELETE FROM weekly_rule_lines WHERE rule_id = $1`
	if _, err := tx.ExecContext(ctx, query, rule.ID); err != nil {
		return err
	}

	for i := range rule.Lines {
		query = `
			INSERT INTO weekly_rule_lines (rule_id, agent_type, start_time, end_time, headcount, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		args := []any{rule.ID, rule.Lines[i].AgentType, rule.Lines[i].StartTime, rule.Lines[i].EndTime, rule.Lines[i].Headcount, rule.Lines[i].Notes}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&rule.Lines[i].ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetWeeklyRulesBySiteID(siteID int64) ([]*domain.WeeklyStaffingRule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			wsr.id,
			wsr.weekday,
			wsr.created_at,
			wsr.version,
			wrl.id,
			wrl.agent_type,
			wrl.start_time,
			wrl.end_time,
			wrl.headcount,
			wrl.notes
		FROM weekly_staffing_rules wsr
		LEFT JOIN weekly_rule_lines wrl ON wsr.id = wrl.rule_id
		WHERE wsr.site_id = $1
		ORDER BY wsr.weekday, wrl.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rulesMap := make(map[int64]*domain.WeeklyStaffingRule)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID        int64
			Weekday   int32
			CreatedAt time.Time
			Version   int32

			LineID    sql.NullInt64
			AgentType sql.NullString
			StartTime sql.NullString
			EndTime   sql.NullString
			Headcount sql.NullInt32
			Notes     sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.Weekday,
			&row.CreatedAt,
			&row.Version,
			&row.LineID,
			&row.AgentType,
			&row.StartTime,
			&row.EndTime,
			&row.Headcount,
			&row.Notes,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		rule, exists := rulesMap[row.ID]
		if !exists {
			rule = &domain.WeeklyStaffingRule{
				ID:        row.ID,
				SiteID:    siteID,
				Weekday:   row.Weekday,
				Lines:     make([]domain.RequirementLine, 0),
				CreatedAt: row.CreatedAt,
				Version:   row.Version,
			}
			rulesMap[row.ID] = rule
			order = append(order, row.ID)
		}

		// 规则可以暂时没有任何需求行
		if !row.LineID.Valid {
			continue
		}

		rule.Lines = append(rule.Lines, domain.RequirementLine{
			ID:        row.LineID.Int64,
			AgentType: row.AgentType.String,
			StartTime: row.StartTime.String,
			EndTime:   row.EndTime.String,
			Headcount: row.Headcount.Int32,
			Notes:     row.Notes.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	rules := make([]*domain.WeeklyStaffingRule, 0, len(order))
	for _, id := range order {
		rules = append(rules, rulesMap[id])
	}

	return rules, nil
}

func (r *Repository) DeleteWeeklyRule(id int64) error {
	query := `
		DELETE FROM weekly_staffing_rules WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateDateException(exception *domain.DateException) error {
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
		INSERT INTO date_exceptions (site_id, kind, start_date, end_date, agent_type, start_time, end_time, headcount, min_experience_years, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`

	args := []any{
		exception.SiteID, exception.Kind, exception.StartDate, exception.EndDate,
		exception.AgentType, exception.StartTime, exception.EndTime, exception.Headcount,
		exception.MinExperienceYears, exception.Notes,
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&exception.ID, &exception.CreatedAt, &exception.Version); err != nil {
		return err
	}

	if err := insertDateExceptionTags(ctx, tx, exception); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func insertDateExceptionTags(ctx context.Context, tx *sql.Tx, exception *domain.DateException) error {
	for _, weekday := range exception.Weekdays {
		query := `
			INSERT INTO date_exception_weekdays (exception_id, weekday)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, exception.ID, weekday); err != nil {
			return err
		}
	}

	for _, skill := range exception.RequiredSkills {
		query := `
			INSERT INTO date_exception_skills (exception_id, skill)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, exception.ID, skill); err != nil {
			return err
		}
	}

	return nil
}

// GetDateExceptionsForSite 取出与某段日期有交集的所有覆盖规则
func (r *Repository) GetDateExceptionsForSite(siteID int64, from, to time.Time) ([]*domain.DateException, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			de.id,
			de.kind,
			de.start_date,
			de.end_date,
			de.agent_type,
			de.start_time,
			de.end_time,
			de.headcount,
			de.min_experience_years,
			de.notes,
			de.created_at,
			de.version,
			dew.weekday,
			des.skill
		FROM date_exceptions de
		LEFT JOIN date_exception_weekdays dew ON de.id = dew.exception_id
		LEFT JOIN date_exception_skills des ON de.id = des.exception_id
		WHERE de.site_id = $1 AND de.start_date <= $3 AND de.end_date >= $2
		ORDER BY de.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, siteID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exceptionsMap := make(map[int64]*domain.DateException)
	weekdaySets := make(map[int64]map[int32]bool)
	skillSets := make(map[int64]map[string]bool)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID                 int64
			Kind               domain.ExceptionKind
			StartDate          time.Time
			EndDate            time.Time
			AgentType          string
			StartTime          string
			EndTime            string
			Headcount          int32
			MinExperienceYears int32
			Notes              string
			CreatedAt          time.Time
			Version            int32

			Weekday sql.NullInt32
			Skill   sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.Kind,
			&row.StartDate,
			&row.EndDate,
			&row.AgentType,
			&row.StartTime,
			&row.EndTime,
			&row.Headcount,
			&row.MinExperienceYears,
			&row.Notes,
			&row.CreatedAt,
			&row.Version,
			&row.Weekday,
			&row.Skill,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		exception, exists := exceptionsMap[row.ID]
		if !exists {
			exception = &domain.DateException{
				ID:                 row.ID,
				SiteID:             siteID,
				Kind:               row.Kind,
				StartDate:          row.StartDate,
				EndDate:            row.EndDate,
				Weekdays:           make([]int32, 0),
				AgentType:          row.AgentType,
				StartTime:          row.StartTime,
				EndTime:            row.EndTime,
				Headcount:          row.Headcount,
				MinExperienceYears: row.MinExperienceYears,
				RequiredSkills:     make([]string, 0),
				Notes:              row.Notes,
				CreatedAt:          row.CreatedAt,
				Version:            row.Version,
			}
			exceptionsMap[row.ID] = exception
			weekdaySets[row.ID] = make(map[int32]bool)
			skillSets[row.ID] = make(map[string]bool)
			order = append(order, row.ID)
		}

		// 两个子表做笛卡尔积，需要去重
		if row.Weekday.Valid && !weekdaySets[row.ID][row.Weekday.Int32] {
			weekdaySets[row.ID][row.Weekday.Int32] = true
			exception.Weekdays = append(exception.Weekdays, row.Weekday.Int32)
		}
		if row.Skill.Valid && !skillSets[row.ID][row.Skill.String] {
			skillSets[row.ID][row.Skill.String] = true
			exception.RequiredSkills = append(exception.RequiredSkills, row.Skill.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	exceptions := make([]*domain.DateException, 0, len(order))
	for _, id := range order {
		exceptions = append(exceptions, exceptionsMap[id])
	}

	return exceptions, nil
}

func (r *Repository) GetDateExceptionByID(id int64) (*domain.DateException, error) {
	query := `
		SELECT site_id, kind, start_date, end_date, agent_type, start_time, end_time, headcount, min_experience_years, notes, created_at, version
		FROM date_exceptions WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	exception := &domain.DateException{
		ID: id,
	}

	dst := []any{
		&exception.SiteID, &exception.Kind, &exception.StartDate, &exception.EndDate,
		&exception.AgentType, &exception.StartTime, &exception.EndTime, &exception.Headcount,
		&exception.MinExperienceYears, &exception.Notes, &exception.CreatedAt, &exception.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return exception, nil
}

func (r *Repository) UpdateDateException(exception *domain.DateException) error {
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
		UPDATE date_exceptions
		SET
			kind = $1,
			start_date = $2,
			end_date = $3,
			agent_type = $4,
			start_time = $5,
			end_time = $6,
			headcount = $7,
			min_experience_years = $8,
			notes = $9,
			version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING created_at, version
	`

	args := []any{
		exception.Kind, exception.StartDate, exception.EndDate,
		exception.AgentType, exception.StartTime, exception.EndTime, exception.Headcount,
		exception.MinExperienceYears, exception.Notes, exception.ID, exception.Version,
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&exception.CreatedAt, &exception.Version); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM date_exception_weekdays WHERE exception_id = $1`, exception.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM date_exception_skills WHERE exception_id = $1`, exception.ID); err != nil {
		return err
	}
	if err := insertDateExceptionTags(ctx, tx, exception); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteDateException(id int64) error {
	query := `
		DELETE FROM date_exceptions WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
