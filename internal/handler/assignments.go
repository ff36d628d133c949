package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/guardia-dev/roster-manager/backend/internal/roster"
	"github.com/guardia-dev/roster-manager/backend/internal/utils"
)

// lockEmployeeAssignments 用 redis 锁住单个员工的排班写入，
// 防止并发的手动排班绕过冲突检查
func (h *Handler) lockEmployeeAssignments(ctx context.Context, employeeID int64) (func(), error) {
	key := fmt.Sprintf("lock_employee_%d_assignments", employeeID)

	ok, err := h.redisClient.SetNX(ctx, key, 1, time.Duration(h.config.Redis.LockExpiration)*time.Second).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
		defer cancel()
		_ = h.redisClient.Del(releaseCtx, key).Err()
	}
	return release, nil
}

// validateManualAssignment 装配手动排班校验所需的数据并执行校验
// excludeID 为正在编辑的排班 ID，创建时传 0
func (h *Handler) validateManualAssignment(a *domain.Assignment, scheduleSite *domain.Site, excludeID int64) error {
	employee, err := h.repository.GetEmployeeByID(a.EmployeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &roster.ConflictError{Reason: "员工不存在"}
		}
		return err
	}

	targetSite := scheduleSite
	if a.SiteID != scheduleSite.ID {
		targetSite, err = h.repository.GetSiteByID(a.SiteID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &roster.ConflictError{Reason: "站点不存在"}
			}
			return err
		}
	}

	preference, err := h.repository.GetPreferenceByEmployeeID(a.EmployeeID)
	if err != nil {
		return err
	}

	absences, err := h.repository.GetAbsencesByEmployeeID(a.EmployeeID)
	if err != nil {
		return err
	}

	// 前后各取两天，足够覆盖重叠和最低休息时间的检查
	history, err := h.repository.GetAssignmentsByEmployeeID(a.EmployeeID, a.Date.AddDate(0, 0, -2), a.Date.AddDate(0, 0, 2))
	if err != nil {
		return err
	}
	filtered := make([]*domain.Assignment, 0, len(history))
	for _, other := range history {
		if other.ID != excludeID {
			filtered = append(filtered, other)
		}
	}

	return roster.ValidateManualAssignment(&roster.ManualAssignmentCheck{
		Assignment:        a,
		Employee:          employee,
		Site:              targetSite,
		ScheduleCompanyID: scheduleSite.CompanyID,
		Preference:        preference,
		Absences:          absences,
		History:           filtered,
		MinRestHours:      int32(h.config.Roster.MinRestHours),
	})
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID int64     `json:"employeeID" validate:"required"`
		SiteID     *int64    `json:"siteID"`
		Date       time.Time `json:"date" validate:"required"`
		StartTime  string    `json:"startTime" validate:"required"`
		EndTime    string    `json:"endTime" validate:"required"`
		AgentType  string    `json:"agentType"`
		Label      string    `json:"label"`
		Notes      string    `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateClockString(req.StartTime); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateClockString(req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)
	site := r.Context().Value(SiteCtx).(*domain.Site)

	assignment := &domain.Assignment{
		ScheduleID: schedule.ID,
		EmployeeID: req.EmployeeID,
		SiteID:     site.ID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		AgentType:  req.AgentType,
		Label:      req.Label,
		Notes:      req.Notes,
		Status:     domain.AssignmentPending,
	}
	if req.SiteID != nil {
		assignment.SiteID = *req.SiteID
	}

	release, err := h.lockEmployeeAssignments(r.Context(), assignment.EmployeeID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if release == nil {
		h.errorResponse(w, r, "该员工的排班正在被其他操作修改，请稍后重试")
		return
	}
	defer release()

	if err := h.validateManualAssignment(assignment, site, 0); err != nil {
		var conflictErr *roster.ConflictError
		switch {
		case errors.As(err, &conflictErr):
			h.errorResponse(w, r, conflictErr.Reason)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.CreateAssignment(assignment); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.recomputeCompletion(schedule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "排班创建成功", assignment)
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID *int64     `json:"employeeID"`
		SiteID     *int64     `json:"siteID"`
		Date       *time.Time `json:"date"`
		StartTime  *string    `json:"startTime"`
		EndTime    *string    `json:"endTime"`
		AgentType  *string    `json:"agentType"`
		Label      *string    `json:"label"`
		Notes      *string    `json:"notes"`
		Status     *string    `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED DECLINED"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	assignment := r.Context().Value(AssignmentCtx).(*domain.Assignment)
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)
	site := r.Context().Value(SiteCtx).(*domain.Site)

	if req.EmployeeID != nil {
		assignment.EmployeeID = *req.EmployeeID
	}
	if req.SiteID != nil {
		assignment.SiteID = *req.SiteID
	}
	if req.Date != nil {
		assignment.Date = *req.Date
	}
	if req.StartTime != nil {
		if err := utils.ValidateClockString(*req.StartTime); err != nil {
			h.badRequest(w, r, err)
			return
		}
		assignment.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		if err := utils.ValidateClockString(*req.EndTime); err != nil {
			h.badRequest(w, r, err)
			return
		}
		assignment.EndTime = *req.EndTime
	}
	if req.AgentType != nil {
		assignment.AgentType = *req.AgentType
	}
	if req.Label != nil {
		assignment.Label = *req.Label
	}
	if req.Notes != nil {
		assignment.Notes = *req.Notes
	}
	if req.Status != nil {
		assignment.Status = domain.AssignmentStatus(*req.Status)
	}

	release, err := h.lockEmployeeAssignments(r.Context(), assignment.EmployeeID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if release == nil {
		h.errorResponse(w, r, "该员工的排班正在被其他操作修改，请稍后重试")
		return
	}
	defer release()

	if err := h.validateManualAssignment(assignment, site, assignment.ID); err != nil {
		var conflictErr *roster.ConflictError
		switch {
		case errors.As(err, &conflictErr):
			h.errorResponse(w, r, conflictErr.Reason)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.UpdateAssignment(assignment); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新排班失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.recomputeCompletion(schedule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新排班成功", assignment)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(AssignmentCtx).(*domain.Assignment)
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	if err := h.repository.DeleteAssignment(assignment.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.recomputeCompletion(schedule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除排班成功", nil)
}
