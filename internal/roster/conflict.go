package roster

import (
	"fmt"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

// ConflictError 表示手动排班未通过校验，Reason 会直接返回给调用方
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// ManualAssignmentCheck 为手动创建或编辑单条排班时的校验输入
type ManualAssignmentCheck struct {
	Assignment        *domain.Assignment
	Employee          *domain.Employee
	Site              *domain.Site // 排班的目标站点
	ScheduleCompanyID int64        // 班表所属站点的公司
	Preference        *domain.EmployeePreference // 可以为 nil
	Absences          []*domain.Absence
	History           []*domain.Assignment // 该员工所有班表中的全部排班（编辑时不包含被编辑的这条）
	MinRestHours      int32
}

// ValidateManualAssignment 按固定顺序执行各项校验，任何一项不通过都返回 *ConflictError
// 全部通过后会按跨午夜规则重新计算排班时长
func ValidateManualAssignment(chk *ManualAssignmentCheck) error {
	a := chk.Assignment

	if chk.Employee.SiteID != chk.Site.ID {
		return &ConflictError{Reason: "该员工不属于目标站点的员工池"}
	}

	if chk.Site.CompanyID != chk.ScheduleCompanyID {
		return &ConflictError{Reason: "站点与班表不属于同一家公司"}
	}

	for _, absence := range chk.Absences {
		if absence.Approved && dateWithin(a.Date, absence.StartDate, absence.EndDate) {
			return &ConflictError{Reason: "该员工当天有已批准的请假"}
		}
	}

	if isWeekend(a.Date) && chk.Preference != nil && !chk.Preference.NoPreference && !chk.Preference.CanWorkWeekends {
		return &ConflictError{Reason: "该员工不接受周末排班"}
	}

	if isNightWindow(a.StartTime, a.EndTime) && chk.Preference != nil && !chk.Preference.NoPreference && !chk.Preference.CanWorkNights {
		return &ConflictError{Reason: "该员工不接受夜班排班"}
	}

	// 与该员工的全部历史排班比较，而不只是当前班表
	candidate := absRange(a.Date, a.StartTime, a.EndTime)
	minRest := chk.MinRestHours * 60
	for _, other := range chk.History {
		existing := absRange(other.Date, other.StartTime, other.EndTime)

		if intervalsOverlap(candidate, existing) {
			return &ConflictError{Reason: "与该员工已有的排班时间重叠"}
		}
		if dateKey(other.Date) == dateKey(a.Date) && windowsOverlap(other.StartTime, other.EndTime, a.StartTime, a.EndTime) {
			return &ConflictError{Reason: "与该员工已有的排班时间重叠"}
		}

		// 新班次与相邻班次之间在任一侧的间隔都不能少于最低休息时间
		var gap int32
		if existing.end <= candidate.start {
			gap = candidate.start - existing.end
		} else {
			gap = existing.start - candidate.end
		}
		if gap < minRest {
			return &ConflictError{Reason: fmt.Sprintf("与相邻排班的间隔不足 %d 小时", chk.MinRestHours)}
		}
	}

	a.DurationMinutes = DurationMinutes(a.StartTime, a.EndTime)

	return nil
}

// isNightWindow 判断手动排班是否属于夜班：开始时间晚于 20:59 或结束时间早于 05:01
func isNightWindow(start string, end string) bool {
	s, _ := parseClock(start)
	e, _ := parseClock(end)
	return s >= 21*60 || e <= 5*60
}
