package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/guardia-dev/roster-manager/backend/internal/utils"
)

func (h *Handler) GetWeeklyRules(w http.ResponseWriter, r *http.Request) {
	site := r.Context().Value(SiteCtx).(*domain.Site)

	rules, err := h.repository.GetWeeklyRulesBySiteID(site.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取周排班规则成功", rules)
}

func (h *Handler) UpsertWeeklyRule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Weekday int32 `json:"weekday" validate:"min=1,max=7"`
		Lines   []struct {
			AgentType string `json:"agentType" validate:"required"`
			StartTime string `json:"startTime" validate:"required"`
			EndTime   string `json:"endTime" validate:"required"`
			Headcount int32  `json:"headcount" validate:"min=1"`
			Notes     string `json:"notes"`
		} `json:"lines" validate:"dive"`
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

	rule := &domain.WeeklyStaffingRule{
		SiteID:  site.ID,
		Weekday: req.Weekday,
		Lines:   make([]domain.RequirementLine, 0, len(req.Lines)),
	}

	for _, line := range req.Lines {
		if err := utils.ValidateClockString(line.StartTime); err != nil {
			h.badRequest(w, r, err)
			return
		}
		if err := utils.ValidateClockString(line.EndTime); err != nil {
			h.badRequest(w, r, err)
			return
		}
		rule.Lines = append(rule.Lines, domain.RequirementLine{
			AgentType: line.AgentType,
			StartTime: line.StartTime,
			EndTime:   line.EndTime,
			Headcount: line.Headcount,
			Notes:     line.Notes,
		})
	}

	if err := h.repository.UpsertWeeklyRule(rule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存周排班规则成功", rule)
}

func (h *Handler) DeleteWeeklyRule(w http.ResponseWriter, r *http.Request) {
	weekday := chi.URLParam(r, "weekday")

	site := r.Context().Value(SiteCtx).(*domain.Site)

	rules, err := h.repository.GetWeeklyRulesBySiteID(site.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	for _, rule := range rules {
		if utils.FormatWeekday(rule.Weekday) == weekday {
			if err := h.repository.DeleteWeeklyRule(rule.ID); err != nil {
				h.internalServerError(w, r, err)
				return
			}
			h.successResponse(w, r, "删除周排班规则成功", nil)
			return
		}
	}

	h.errorResponse(w, r, "该星期几没有配置周排班规则")
}

func (h *Handler) GetDateExceptions(w http.ResponseWriter, r *http.Request) {
	site := r.Context().Value(SiteCtx).(*domain.Site)

	from, to, err := utils.ParseDateRangeQuery(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	exceptions, err := h.repository.GetDateExceptionsForSite(site.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取覆盖规则成功", exceptions)
}

func (h *Handler) CreateDateException(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind               string    `json:"kind" validate:"required,oneof=CLOSE_DAY REPLACE_DAY ADD_SHIFT MASK_SHIFT"`
		StartDate          time.Time `json:"startDate" validate:"required"`
		EndDate            time.Time `json:"endDate" validate:"required"`
		Weekdays           []int32   `json:"weekdays" validate:"dive,min=1,max=7"`
		AgentType          string    `json:"agentType"`
		StartTime          string    `json:"startTime"`
		EndTime            string    `json:"endTime"`
		Headcount          int32     `json:"headcount" validate:"min=0"`
		MinExperienceYears int32     `json:"minExperienceYears" validate:"min=0"`
		RequiredSkills     []string  `json:"requiredSkills"`
		Notes              string    `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.EndDate.Before(req.StartDate) {
		h.errorResponse(w, r, "结束日期不能早于开始日期")
		return
	}
	if err := utils.ValidateExceptionWindow(req.Kind, req.StartTime, req.EndTime, req.Headcount); err != nil {
		h.badRequest(w, r, err)
		return
	}

	site := r.Context().Value(SiteCtx).(*domain.Site)

	exception := &domain.DateException{
		SiteID:             site.ID,
		Kind:               domain.ExceptionKind(req.Kind),
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Weekdays:           req.Weekdays,
		AgentType:          req.AgentType,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Headcount:          req.Headcount,
		MinExperienceYears: req.MinExperienceYears,
		RequiredSkills:     req.RequiredSkills,
		Notes:              req.Notes,
	}
	if exception.Weekdays == nil {
		exception.Weekdays = make([]int32, 0)
	}
	if exception.RequiredSkills == nil {
		exception.RequiredSkills = make([]string, 0)
	}

	if err := h.repository.CreateDateException(exception); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "覆盖规则创建成功", exception)
}

func (h *Handler) UpdateDateException(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind               *string    `json:"kind" validate:"omitempty,oneof=CLOSE_DAY REPLACE_DAY ADD_SHIFT MASK_SHIFT"`
		StartDate          *time.Time `json:"startDate"`
		EndDate            *time.Time `json:"endDate"`
		Weekdays           *[]int32   `json:"weekdays" validate:"omitempty,dive,min=1,max=7"`
		AgentType          *string    `json:"agentType"`
		StartTime          *string    `json:"startTime"`
		EndTime            *string    `json:"endTime"`
		Headcount          *int32     `json:"headcount" validate:"omitempty,min=0"`
		MinExperienceYears *int32     `json:"minExperienceYears" validate:"omitempty,min=0"`
		RequiredSkills     *[]string  `json:"requiredSkills"`
		Notes              *string    `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	exception := r.Context().Value(DateExceptionCtx).(*domain.DateException)

	if req.Kind != nil {
		exception.Kind = domain.ExceptionKind(*req.Kind)
	}
	if req.StartDate != nil {
		exception.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		exception.EndDate = *req.EndDate
	}
	if req.Weekdays != nil {
		exception.Weekdays = *req.Weekdays
	}
	if req.AgentType != nil {
		exception.AgentType = *req.AgentType
	}
	if req.StartTime != nil {
		exception.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		exception.EndTime = *req.EndTime
	}
	if req.Headcount != nil {
		exception.Headcount = *req.Headcount
	}
	if req.MinExperienceYears != nil {
		exception.MinExperienceYears = *req.MinExperienceYears
	}
	if req.RequiredSkills != nil {
		exception.RequiredSkills = *req.RequiredSkills
	}
	if req.Notes != nil {
		exception.Notes = *req.Notes
	}

	if exception.EndDate.Before(exception.StartDate) {
		h.errorResponse(w, r, "结束日期不能早于开始日期")
		return
	}
	if err := utils.ValidateExceptionWindow(string(exception.Kind), exception.StartTime, exception.EndTime, exception.Headcount); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateDateException(exception); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新覆盖规则失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新覆盖规则成功", exception)
}

func (h *Handler) DeleteDateException(w http.ResponseWriter, r *http.Request) {
	exception := r.Context().Value(DateExceptionCtx).(*domain.DateException)

	if err := h.repository.DeleteDateException(exception.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除覆盖规则成功", nil)
}
