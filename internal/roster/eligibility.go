package roster

import (
	"slices"
	"time"
)

// CheckEligibility 判断候选员工能否被排到某天的某个班次上
// 所有检查是与的关系，任何一项不通过都会立刻排除该候选人
// 返回空字符串表示通过，否则为未通过的原因
func CheckEligibility(c *Candidate, date time.Time, spec ShiftSpec, w *Workload, band DayBand) string {
	if reason := checkAgentType(c, spec); reason != "" {
		return reason
	}
	if reason := checkSkills(c, spec); reason != "" {
		return reason
	}
	if reason := checkExperience(c, spec); reason != "" {
		return reason
	}
	if reason := checkAbsence(c, date); reason != "" {
		return reason
	}
	if reason := checkAvailability(c, date, spec, band); reason != "" {
		return reason
	}
	if reason := checkDailyCap(c, date, spec, w); reason != "" {
		return reason
	}
	if reason := checkWeeklyCap(c, date, spec, w); reason != "" {
		return reason
	}
	if reason := checkOverlap(c, date, spec, w); reason != "" {
		return reason
	}
	return ""
}

// 班次的岗位类型未设置时不做过滤
func checkAgentType(c *Candidate, spec ShiftSpec) string {
	if spec.AgentType == "" {
		return ""
	}
	if !slices.Contains(c.Employee.AgentTypes, spec.AgentType) {
		return "岗位类型不匹配"
	}
	return ""
}

// 员工的技能集合必须覆盖班次要求的技能
func checkSkills(c *Candidate, spec ShiftSpec) string {
	for _, skill := range spec.RequiredSkills {
		if !slices.Contains(c.Employee.Skills, skill) {
			return "缺少班次要求的技能"
		}
	}
	return ""
}

func checkExperience(c *Candidate, spec ShiftSpec) string {
	if spec.MinExperienceYears > 0 && c.Employee.ExperienceYears < spec.MinExperienceYears {
		return "工作年限不满足班次要求"
	}
	return ""
}

func checkAbsence(c *Candidate, date time.Time) string {
	for _, absence := range c.Absences {
		if absence.Approved && dateWithin(date, absence.StartDate, absence.EndDate) {
			return "当天有已批准的请假"
		}
	}
	return ""
}

// 如果员工配置了结构化的可用时间窗口，则当天星期几必须存在一个完整包含班次的窗口；
// 如果完全没有配置，则回退到偏好检查
func checkAvailability(c *Candidate, date time.Time, spec ShiftSpec, band DayBand) string {
	if len(c.Availability) > 0 {
		weekday := isoWeekday(date)
		for _, window := range c.Availability {
			if window.Weekday != weekday {
				continue
			}
			if windowContains(window.StartTime, window.EndTime, spec.StartTime, spec.EndTime) {
				return ""
			}
		}
		return "不在可用时间窗口内"
	}

	pref := c.Preference
	if pref == nil || pref.NoPreference {
		return ""
	}

	if isWeekend(date) {
		if !pref.CanWorkWeekends {
			return "不接受周末排班"
		}
	} else {
		if !pref.CanWorkWeekdays {
			return "不接受工作日排班"
		}
	}

	if isDayShift(spec, band) {
		if !pref.CanWorkDays {
			return "不接受白班排班"
		}
	} else {
		if !pref.CanWorkNights {
			return "不接受夜班排班"
		}
	}

	return ""
}

func isDayShift(spec ShiftSpec, band DayBand) bool {
	return windowContains(band.Start, band.End, spec.StartTime, spec.EndTime)
}

// 当天已排分钟数加上候选班次时长不能超过每日上限（默认不设限）
func checkDailyCap(c *Candidate, date time.Time, spec ShiftSpec, w *Workload) string {
	if c.Preference == nil || c.Preference.MaxHoursPerDay <= 0 {
		return ""
	}
	total := w.DayMinutes(c.Employee.ID, date) + DurationMinutes(spec.StartTime, spec.EndTime)
	if total > c.Preference.MaxHoursPerDay*60 {
		return "超过每日最大工时"
	}
	return ""
}

// 周上限优先取偏好中的设置，否则回退到合同约定的每周工时
func checkWeeklyCap(c *Candidate, date time.Time, spec ShiftSpec, w *Workload) string {
	var limit int32
	if c.Preference != nil && c.Preference.MaxHoursPerWeek > 0 {
		limit = c.Preference.MaxHoursPerWeek * 60
	} else if c.Employee.ContractWeeklyHours > 0 {
		limit = c.Employee.ContractWeeklyHours * 60
	}
	if limit <= 0 {
		return ""
	}
	total := w.WeekMinutes(c.Employee.ID, date) + DurationMinutes(spec.StartTime, spec.EndTime)
	if total > limit {
		return "超过每周最大工时"
	}
	return ""
}

func checkOverlap(c *Candidate, date time.Time, spec ShiftSpec, w *Workload) string {
	if w.HasOverlap(c.Employee.ID, date, spec.StartTime, spec.EndTime) {
		return "与当天已有排班时间重叠"
	}
	return ""
}
