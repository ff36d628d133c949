package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/guardia-dev/roster-manager/backend/internal/utils"
	"github.com/jackc/pgx/v5/pgconn"
)

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SiteID              int64    `json:"siteID" validate:"required"`
		FullName            string   `json:"fullName" validate:"required"`
		Email               string   `json:"email" validate:"required,email"`
		AgentTypes          []string `json:"agentTypes" validate:"required,min=1"`
		Skills              []string `json:"skills"`
		ExperienceYears     int32    `json:"experienceYears" validate:"min=0"`
		ContractType        string   `json:"contractType" validate:"required,oneof=FULL_TIME PART_TIME TEMPORARY"`
		ContractWeeklyHours int32    `json:"contractWeeklyHours" validate:"min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	// 员工必须挂在本公司的站点下
	site, err := h.repository.GetSiteByID(req.SiteID)
	if err != nil || site.CompanyID != myInfo.CompanyID {
		h.errorResponse(w, r, "站点不存在")
		return
	}

	employee := &domain.Employee{
		CompanyID:           myInfo.CompanyID,
		SiteID:              req.SiteID,
		FullName:            req.FullName,
		Email:               req.Email,
		AgentTypes:          req.AgentTypes,
		Skills:              req.Skills,
		ExperienceYears:     req.ExperienceYears,
		ContractType:        req.ContractType,
		ContractWeeklyHours: req.ContractWeeklyHours,
	}
	if employee.Skills == nil {
		employee.Skills = make([]string, 0)
	}

	if err := h.repository.CreateEmployee(employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "employees_email_key":
			h.badRequest(w, r, errors.New("邮箱已存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "员工创建成功", employee)
}

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	employees, err := h.repository.GetAllEmployeesByCompanyID(myInfo.CompanyID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)
	h.successResponse(w, r, "获取员工信息成功", employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SiteID              *int64    `json:"siteID"`
		FullName            *string   `json:"fullName"`
		Email               *string   `json:"email" validate:"omitempty,email"`
		AgentTypes          *[]string `json:"agentTypes" validate:"omitempty,min=1"`
		Skills              *[]string `json:"skills"`
		ExperienceYears     *int32    `json:"experienceYears" validate:"omitempty,min=0"`
		ContractType        *string   `json:"contractType" validate:"omitempty,oneof=FULL_TIME PART_TIME TEMPORARY"`
		ContractWeeklyHours *int32    `json:"contractWeeklyHours" validate:"omitempty,min=0"`
		IsActive            *bool     `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if req.SiteID != nil {
		site, err := h.repository.GetSiteByID(*req.SiteID)
		if err != nil || site.CompanyID != myInfo.CompanyID {
			h.errorResponse(w, r, "站点不存在")
			return
		}
		employee.SiteID = *req.SiteID
	}
	if req.FullName != nil {
		employee.FullName = *req.FullName
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.AgentTypes != nil {
		employee.AgentTypes = *req.AgentTypes
	}
	if req.Skills != nil {
		employee.Skills = *req.Skills
	}
	if req.ExperienceYears != nil {
		employee.ExperienceYears = *req.ExperienceYears
	}
	if req.ContractType != nil {
		employee.ContractType = *req.ContractType
	}
	if req.ContractWeeklyHours != nil {
		employee.ContractWeeklyHours = *req.ContractWeeklyHours
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateEmployee(employee); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新员工信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新员工信息成功", employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	if err := h.repository.DeleteEmployee(employee.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除员工成功", nil)
}

func (h *Handler) GetEmployeePreference(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	pref, err := h.repository.GetPreferenceByEmployeeID(employee.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工偏好成功", pref)
}

func (h *Handler) UpsertEmployeePreference(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CanWorkWeekdays     bool  `json:"canWorkWeekdays"`
		CanWorkWeekends     bool  `json:"canWorkWeekends"`
		CanWorkDays         bool  `json:"canWorkDays"`
		CanWorkNights       bool  `json:"canWorkNights"`
		NoPreference        bool  `json:"noPreference"`
		MinHoursPerDay      int32 `json:"minHoursPerDay" validate:"min=0"`
		MaxHoursPerDay      int32 `json:"maxHoursPerDay" validate:"min=0"`
		MinHoursPerWeek     int32 `json:"minHoursPerWeek" validate:"min=0"`
		MaxHoursPerWeek     int32 `json:"maxHoursPerWeek" validate:"min=0"`
		PreferredWorkStreak int32 `json:"preferredWorkStreak" validate:"min=0"`
		MinRestStreak       int32 `json:"minRestStreak" validate:"min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	pref := &domain.EmployeePreference{
		EmployeeID:          employee.ID,
		CanWorkWeekdays:     req.CanWorkWeekdays,
		CanWorkWeekends:     req.CanWorkWeekends,
		CanWorkDays:         req.CanWorkDays,
		CanWorkNights:       req.CanWorkNights,
		NoPreference:        req.NoPreference,
		MinHoursPerDay:      req.MinHoursPerDay,
		MaxHoursPerDay:      req.MaxHoursPerDay,
		MinHoursPerWeek:     req.MinHoursPerWeek,
		MaxHoursPerWeek:     req.MaxHoursPerWeek,
		PreferredWorkStreak: req.PreferredWorkStreak,
		MinRestStreak:       req.MinRestStreak,
	}

	if err := h.repository.UpsertPreference(pref); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存员工偏好成功", pref)
}

func (h *Handler) GetEmployeeAvailability(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	windows, err := h.repository.GetAvailabilityByEmployeeID(employee.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工可用时间成功", windows)
}

func (h *Handler) ReplaceEmployeeAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Windows []struct {
			Weekday   int32  `json:"weekday" validate:"min=1,max=7"`
			StartTime string `json:"startTime" validate:"required"`
			EndTime   string `json:"endTime" validate:"required"`
		} `json:"windows" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	windows := make([]*domain.EmployeeAvailability, 0, len(req.Windows))
	for _, window := range req.Windows {
		if err := utils.ValidateClockString(window.StartTime); err != nil {
			h.badRequest(w, r, err)
			return
		}
		if err := utils.ValidateClockString(window.EndTime); err != nil {
			h.badRequest(w, r, err)
			return
		}
		windows = append(windows, &domain.EmployeeAvailability{
			EmployeeID: employee.ID,
			Weekday:    window.Weekday,
			StartTime:  window.StartTime,
			EndTime:    window.EndTime,
		})
	}

	if err := h.repository.ReplaceAvailability(employee.ID, windows); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存员工可用时间成功", windows)
}

func (h *Handler) GetEmployeeAbsences(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	absences, err := h.repository.GetAbsencesByEmployeeID(employee.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取请假记录成功", absences)
}

func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate time.Time `json:"startDate" validate:"required"`
		EndDate   time.Time `json:"endDate" validate:"required"`
		Reason    string    `json:"reason"`
		Approved  bool      `json:"approved"`
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

	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	absence := &domain.Absence{
		EmployeeID: employee.ID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Reason:     req.Reason,
		Approved:   req.Approved,
	}

	if err := h.repository.CreateAbsence(absence); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "请假记录创建成功", absence)
}

func (h *Handler) UpdateAbsence(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate *time.Time `json:"startDate"`
		EndDate   *time.Time `json:"endDate"`
		Reason    *string    `json:"reason"`
		Approved  *bool      `json:"approved"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	absence := r.Context().Value(AbsenceCtx).(*domain.Absence)

	if req.StartDate != nil {
		absence.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		absence.EndDate = *req.EndDate
	}
	if req.Reason != nil {
		absence.Reason = *req.Reason
	}
	if req.Approved != nil {
		absence.Approved = *req.Approved
	}

	if absence.EndDate.Before(absence.StartDate) {
		h.errorResponse(w, r, "结束日期不能早于开始日期")
		return
	}

	if err := h.repository.UpdateAbsence(absence); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新请假记录失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新请假记录成功", absence)
}

func (h *Handler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	absence := r.Context().Value(AbsenceCtx).(*domain.Absence)

	if err := h.repository.DeleteAbsence(absence.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除请假记录成功", nil)
}
