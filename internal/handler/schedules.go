package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/guardia-dev/roster-manager/backend/internal/roster"
	"github.com/guardia-dev/roster-manager/backend/internal/utils"
	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
)

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month int32 `json:"month" validate:"min=1,max=12"`
		Year  int32 `json:"year" validate:"min=2000,max=2100"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	site := r.Context().Value(SiteCtx).(*domain.Site)

	schedule := &domain.Schedule{
		SiteID: site.ID,
		Month:  req.Month,
		Year:   req.Year,
	}

	if err := h.repository.CreateSchedule(schedule); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "schedules_site_id_month_year_key":
			h.badRequest(w, r, errors.New("该站点在这个月份已有班表"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "班表创建成功", schedule)
}

func (h *Handler) GetSchedulesBySite(w http.ResponseWriter, r *http.Request) {
	site := r.Context().Value(SiteCtx).(*domain.Site)

	schedules, err := h.repository.GetAllSchedulesBySiteID(site.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班表列表成功", schedules)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	assignments, err := h.repository.GetAssignmentsByScheduleID(schedule.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班表成功", map[string]any{
		"schedule":    schedule,
		"assignments": assignments,
	})
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	if schedule.Published {
		h.errorResponse(w, r, "已发布的班表不允许删除")
		return
	}

	if err := h.repository.DeleteSchedule(schedule.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班表成功", nil)
}

// loadGenerationInput 把一次生成需要的所有数据从存储中装配出来
func (h *Handler) loadGenerationInput(schedule *domain.Schedule) (*roster.Input, error) {
	from, to := utils.MonthDateRange(schedule.Year, schedule.Month)

	employees, err := h.repository.GetActiveEmployeesBySiteID(schedule.SiteID)
	if err != nil {
		return nil, err
	}

	availability, err := h.repository.GetAvailabilityForSite(schedule.SiteID)
	if err != nil {
		return nil, err
	}

	preferences, err := h.repository.GetPreferencesForSite(schedule.SiteID)
	if err != nil {
		return nil, err
	}

	absences, err := h.repository.GetApprovedAbsencesForSite(schedule.SiteID, from, to)
	if err != nil {
		return nil, err
	}

	candidates := make([]*roster.Candidate, 0, len(employees))
	for _, employee := range employees {
		candidates = append(candidates, &roster.Candidate{
			Employee:     employee,
			Availability: availability[employee.ID],
			Preference:   preferences[employee.ID],
			Absences:     absences[employee.ID],
		})
	}

	rules, err := h.repository.GetWeeklyRulesBySiteID(schedule.SiteID)
	if err != nil {
		return nil, err
	}

	exceptions, err := h.repository.GetDateExceptionsForSite(schedule.SiteID, from, to)
	if err != nil {
		return nil, err
	}

	// 月初月末所在的 ISO 周会延伸到相邻的月份，前后各多取六天，
	// 让周工时上限检查能看到相邻月份班表里的排班
	all, err := h.repository.GetAssignmentsForSiteEmployees(schedule.SiteID, from.AddDate(0, 0, -6), to.AddDate(0, 0, 6))
	if err != nil {
		return nil, err
	}
	existing := workloadSeed(schedule.ID, all)

	return &roster.Input{
		Schedule:            schedule,
		Candidates:          candidates,
		WeeklyRules:         rules,
		Exceptions:          exceptions,
		ExistingAssignments: existing,
	}, nil
}

// workloadSeed 过滤出用于预置生成负载的排班
// 只剔除本班表中会被重新生成覆盖的自动排班；
// 本班表中幸存的手动排班（PENDING/CONFIRMED/DECLINED）必须保留，
// 否则生成器会在它们占用的时间段上重复排班
func workloadSeed(scheduleID int64, all []*domain.Assignment) []*domain.Assignment {
	existing := make([]*domain.Assignment, 0, len(all))
	for _, a := range all {
		if a.ScheduleID == scheduleID && a.Status == domain.AssignmentAssigned {
			continue
		}
		existing = append(existing, a)
	}
	return existing
}

func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Policy            string `json:"policy" validate:"omitempty,oneof=LOAD_BALANCED LEGACY_SHUFFLE"`
		Seed              *int64 `json:"seed"`
		MaxOneShiftPerDay bool   `json:"maxOneShiftPerDay"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	if schedule.Published {
		h.errorResponse(w, r, "已发布的班表不允许重新生成")
		return
	}

	in, err := h.loadGenerationInput(schedule)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	generator, err := roster.NewGenerator(roster.Options{
		Policy:            roster.Policy(req.Policy),
		Seed:              req.Seed,
		MaxOneShiftPerDay: req.MaxOneShiftPerDay,
		DayBand: roster.DayBand{
			Start: h.config.Roster.DayBandStart,
			End:   h.config.Roster.DayBandEnd,
		},
	}, in)
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrNoWeeklyRule):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	result := generator.Generate()

	if err := h.repository.ReplaceScheduleAssignments(schedule.ID, result.Assignments); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.recomputeCompletion(schedule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "排班生成成功", map[string]any{
		"assignments": result.Assignments,
		"shortages":   result.Shortages,
	})
}

// recomputeCompletion 在任何排班变动之后重新计算班表完成度
func (h *Handler) recomputeCompletion(schedule *domain.Schedule) error {
	assignments, err := h.repository.GetAssignmentsByScheduleID(schedule.ID)
	if err != nil {
		return err
	}

	schedule.CompletionPercentage = roster.CompletionPercentage(assignments)
	return h.repository.UpdateScheduleCompletion(schedule)
}

func (h *Handler) UpdateScheduleFlags(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Published *bool `json:"published"`
		Validated *bool `json:"validated"`
		Sent      *bool `json:"sent"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)
	site := r.Context().Value(SiteCtx).(*domain.Site)

	wasPublished := schedule.Published
	wasSent := schedule.Sent

	if req.Published != nil {
		schedule.Published = *req.Published
	}
	if req.Validated != nil {
		schedule.Validated = *req.Validated
	}
	if req.Sent != nil {
		schedule.Sent = *req.Sent
	}

	// 未发布的班表不能直接下发
	if schedule.Sent && !schedule.Published {
		h.errorResponse(w, r, "班表必须先发布才能下发")
		return
	}

	if err := h.repository.UpdateScheduleFlags(schedule); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新班表状态失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 发布和下发时给站点员工池发邮件通知
	if (!wasPublished && schedule.Published) || (!wasSent && schedule.Sent) {
		mailType := "schedule_published"
		if !wasSent && schedule.Sent {
			mailType = "schedule_sent"
		}
		if err := h.notifySiteEmployees(mailType, site, schedule); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "更新班表状态成功", schedule)
}

func (h *Handler) notifySiteEmployees(mailType string, site *domain.Site, schedule *domain.Schedule) error {
	employees, err := h.repository.GetActiveEmployeesBySiteID(site.ID)
	if err != nil {
		return err
	}

	for _, employee := range employees {
		mailMessage := domain.MailMessage{
			Type: mailType,
			To:   employee.Email,
			Data: domain.SchedulePublishedMailData{
				SiteName:             site.Name,
				Month:                schedule.Month,
				Year:                 schedule.Year,
				CompletionPercentage: schedule.CompletionPercentage,
			},
		}

		mailData, err := json.Marshal(mailMessage)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
		err = h.mailChannel.PublishWithContext(
			ctx,
			"",
			"email_queue",
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        mailData,
			},
		)
		cancel()
		if err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) GetScheduleCompliance(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)
	site := r.Context().Value(SiteCtx).(*domain.Site)

	employees, err := h.repository.GetActiveEmployeesBySiteID(schedule.SiteID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	assignments, err := h.repository.GetAssignmentsByScheduleID(schedule.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	requirements, err := h.repository.GetContractRequirementsByCompanyID(site.CompanyID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	report := roster.BuildComplianceReport(employees, assignments, requirements)

	h.successResponse(w, r, "获取合规报告成功", report)
}
