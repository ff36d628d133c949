package roster

import (
	"math"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

// LegalFullTimeMonthlyHours 为法定的全职每月最低工时（35 小时周折算），不允许配置
const LegalFullTimeMonthlyHours = 151.67

// CompletionPercentage 计算班表的完成度：已确认排班占全部排班的百分比（四舍五入）
// 没有任何排班时为 0
func CompletionPercentage(assignments []*domain.Assignment) int32 {
	if len(assignments) == 0 {
		return 0
	}

	confirmed := 0
	for _, a := range assignments {
		if a.Status == domain.AssignmentConfirmed {
			confirmed++
		}
	}

	return int32(math.Round(float64(confirmed) * 100 / float64(len(assignments))))
}

type EmployeeCompliance struct {
	EmployeeID    int64   `json:"employeeID"`
	FullName      string  `json:"fullName"`
	ContractType  string  `json:"contractType"`
	RequiredHours float64 `json:"requiredHours"`
	ActualHours   float64 `json:"actualHours"`
	MissingHours  float64 `json:"missingHours"`
	Percentage    float64 `json:"percentage"`
	Compliant     bool    `json:"compliant"`
}

// BuildComplianceReport 对比每个员工在该周期内的已排工时与其合同类型的每月最低工时
// 没有配置要求的合同类型视为达标
func BuildComplianceReport(employees []*domain.Employee, assignments []*domain.Assignment, requirements []*domain.ContractHourRequirement) []*EmployeeCompliance {
	minutesByEmployee := make(map[int64]int32)
	for _, a := range assignments {
		minutesByEmployee[a.EmployeeID] += a.DurationMinutes
	}

	report := make([]*EmployeeCompliance, 0, len(employees))
	for _, employee := range employees {
		actual := float64(minutesByEmployee[employee.ID]) / 60

		entry := &EmployeeCompliance{
			EmployeeID:   employee.ID,
			FullName:     employee.FullName,
			ContractType: employee.ContractType,
			ActualHours:  actual,
		}

		required := requiredHoursFor(employee, requirements)
		entry.RequiredHours = required

		if required <= 0 {
			entry.Compliant = true
			entry.Percentage = 100
		} else {
			entry.MissingHours = math.Max(0, required-actual)
			entry.Percentage = math.Min(100, actual*100/required)
			entry.Compliant = actual >= required
		}

		report = append(report, entry)
	}

	return report
}

// 全职的最低工时固定取法定值，其余合同类型查公司配置的要求表
func requiredHoursFor(employee *domain.Employee, requirements []*domain.ContractHourRequirement) float64 {
	if employee.ContractType == domain.ContractFullTime {
		return LegalFullTimeMonthlyHours
	}
	for _, req := range requirements {
		if req.ContractType == employee.ContractType {
			return req.MinMonthlyHours
		}
	}
	return 0
}
