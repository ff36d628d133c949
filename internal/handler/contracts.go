package handler

import (
	"net/http"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/guardia-dev/roster-manager/backend/internal/roster"
)

func (h *Handler) GetContractRequirements(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	requirements, err := h.repository.GetContractRequirementsByCompanyID(myInfo.CompanyID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 全职的法定最低工时不存库，直接拼在返回结果里
	hasFullTime := false
	for _, requirement := range requirements {
		if requirement.ContractType == domain.ContractFullTime {
			requirement.MinMonthlyHours = roster.LegalFullTimeMonthlyHours
			hasFullTime = true
		}
	}
	if !hasFullTime {
		requirements = append(requirements, &domain.ContractHourRequirement{
			CompanyID:       myInfo.CompanyID,
			ContractType:    domain.ContractFullTime,
			MinMonthlyHours: roster.LegalFullTimeMonthlyHours,
		})
	}

	h.successResponse(w, r, "获取合同工时要求成功", requirements)
}

func (h *Handler) UpsertContractRequirement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContractType    string  `json:"contractType" validate:"required,oneof=FULL_TIME PART_TIME TEMPORARY"`
		MinMonthlyHours float64 `json:"minMonthlyHours" validate:"min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 全职的每月最低工时是法定值，不允许编辑
	if req.ContractType == domain.ContractFullTime {
		h.errorResponse(w, r, "全职员工的每月最低工时为法定值，不允许修改")
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	requirement := &domain.ContractHourRequirement{
		CompanyID:       myInfo.CompanyID,
		ContractType:    req.ContractType,
		MinMonthlyHours: req.MinMonthlyHours,
	}

	if err := h.repository.UpsertContractRequirement(requirement); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存合同工时要求成功", requirement)
}
