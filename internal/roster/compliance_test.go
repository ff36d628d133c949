package roster

import (
	"testing"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionPercentage(t *testing.T) {
	tests := map[string]struct {
		statuses []domain.AssignmentStatus
		expected int32
	}{
		"没有排班时为 0": {statuses: nil, expected: 0},
		"四分之一已确认": {
			statuses: []domain.AssignmentStatus{
				domain.AssignmentConfirmed,
				domain.AssignmentPending,
				domain.AssignmentAssigned,
				domain.AssignmentDeclined,
			},
			expected: 25,
		},
		"全部已确认": {
			statuses: []domain.AssignmentStatus{domain.AssignmentConfirmed, domain.AssignmentConfirmed},
			expected: 100,
		},
		"三分之一四舍五入": {
			statuses: []domain.AssignmentStatus{
				domain.AssignmentConfirmed,
				domain.AssignmentPending,
				domain.AssignmentPending,
			},
			expected: 33,
		},
		"三分之二四舍五入": {
			statuses: []domain.AssignmentStatus{
				domain.AssignmentConfirmed,
				domain.AssignmentConfirmed,
				domain.AssignmentPending,
			},
			expected: 67,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assignments := make([]*domain.Assignment, 0, len(tt.statuses))
			for _, status := range tt.statuses {
				assignments = append(assignments, &domain.Assignment{Status: status})
			}
			assert.Equal(t, tt.expected, CompletionPercentage(assignments))
		})
	}
}

func assignmentsTotalling(employeeID int64, hours int32) []*domain.Assignment {
	return []*domain.Assignment{
		{EmployeeID: employeeID, DurationMinutes: hours * 60},
	}
}

func TestBuildComplianceReportBelowRequirement(t *testing.T) {
	employees := []*domain.Employee{
		{ID: 1, FullName: "李强", ContractType: domain.ContractPartTime},
	}
	requirements := []*domain.ContractHourRequirement{
		{CompanyID: 100, ContractType: domain.ContractPartTime, MinMonthlyHours: 151},
	}

	report := BuildComplianceReport(employees, assignmentsTotalling(1, 140), requirements)

	require.Len(t, report, 1)
	entry := report[0]
	assert.False(t, entry.Compliant)
	assert.Equal(t, float64(151), entry.RequiredHours)
	assert.Equal(t, float64(140), entry.ActualHours)
	assert.Equal(t, float64(11), entry.MissingHours)
	assert.InDelta(t, 92.7, entry.Percentage, 0.1)
}

func TestBuildComplianceReportMeetsRequirement(t *testing.T) {
	employees := []*domain.Employee{
		{ID: 1, FullName: "李强", ContractType: domain.ContractPartTime},
	}
	requirements := []*domain.ContractHourRequirement{
		{CompanyID: 100, ContractType: domain.ContractPartTime, MinMonthlyHours: 80},
	}

	report := BuildComplianceReport(employees, assignmentsTotalling(1, 90), requirements)

	require.Len(t, report, 1)
	assert.True(t, report[0].Compliant)
	assert.Equal(t, float64(0), report[0].MissingHours)
	// 百分比封顶在 100
	assert.Equal(t, float64(100), report[0].Percentage)
}

func TestBuildComplianceReportFullTimeUsesLegalMinimum(t *testing.T) {
	employees := []*domain.Employee{
		{ID: 1, FullName: "王芳", ContractType: domain.ContractFullTime},
	}

	// 即使公司为全职配置了别的值，也必须使用法定最低工时
	requirements := []*domain.ContractHourRequirement{
		{CompanyID: 100, ContractType: domain.ContractFullTime, MinMonthlyHours: 10},
	}

	report := BuildComplianceReport(employees, assignmentsTotalling(1, 100), requirements)

	require.Len(t, report, 1)
	assert.Equal(t, LegalFullTimeMonthlyHours, report[0].RequiredHours)
	assert.False(t, report[0].Compliant)
	assert.InDelta(t, 51.67, report[0].MissingHours, 0.001)
}

func TestBuildComplianceReportNoRequirementConfigured(t *testing.T) {
	employees := []*domain.Employee{
		{ID: 1, FullName: "赵敏", ContractType: domain.ContractTemporary},
	}

	report := BuildComplianceReport(employees, assignmentsTotalling(1, 5), nil)

	require.Len(t, report, 1)
	assert.True(t, report[0].Compliant)
	assert.Equal(t, float64(100), report[0].Percentage)
	assert.Equal(t, float64(0), report[0].MissingHours)
}

func TestBuildComplianceReportMultipleEmployees(t *testing.T) {
	employees := []*domain.Employee{
		{ID: 1, FullName: "李强", ContractType: domain.ContractPartTime},
		{ID: 2, FullName: "张伟", ContractType: domain.ContractPartTime},
	}
	requirements := []*domain.ContractHourRequirement{
		{CompanyID: 100, ContractType: domain.ContractPartTime, MinMonthlyHours: 50},
	}

	assignments := append(assignmentsTotalling(1, 60), assignmentsTotalling(2, 40)...)

	report := BuildComplianceReport(employees, assignments, requirements)

	require.Len(t, report, 2)
	assert.True(t, report[0].Compliant)
	assert.False(t, report[1].Compliant)
	assert.Equal(t, float64(10), report[1].MissingHours)
}
