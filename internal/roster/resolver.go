package roster

import (
	"slices"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

// ResolveDay 合并站点的基础周规则和日期例外，得出某一天需要被排上的班次列表
// 优先级：CLOSE_DAY > REPLACE_DAY > 基础规则 + ADD_SHIFT - MASK_SHIFT
// 返回空列表表示当天不需要排班
func ResolveDay(date time.Time, rules []*domain.WeeklyStaffingRule, exceptions []*domain.DateException) []ShiftSpec {
	weekday := isoWeekday(date)

	// 筛选出命中当天的例外：日期区间包含当天，且星期几子集（如果有）包含当天的星期几
	matched := make([]*domain.DateException, 0)
	for _, ex := range exceptions {
		if !dateWithin(date, ex.StartDate, ex.EndDate) {
			continue
		}
		if len(ex.Weekdays) > 0 && !slices.Contains(ex.Weekdays, weekday) {
			continue
		}
		matched = append(matched, ex)
	}

	// 关闭日的优先级最高，无论基础规则和其他例外如何都直接返回空
	for _, ex := range matched {
		if ex.Kind == domain.ExceptionCloseDay {
			return nil
		}
	}

	// 替换日完全忽略基础规则，只返回替换例外自带的需求行
	replaces := make([]ShiftSpec, 0)
	for _, ex := range matched {
		if ex.Kind == domain.ExceptionReplaceDay {
			replaces = append(replaces, specFromException(ex))
		}
	}
	if len(replaces) > 0 {
		return replaces
	}

	// 从当天星期几的基础规则出发
	specs := make([]ShiftSpec, 0)
	for _, rule := range rules {
		if rule.Weekday != weekday {
			continue
		}
		for _, line := range rule.Lines {
			specs = append(specs, ShiftSpec{
				AgentType: line.AgentType,
				StartTime: line.StartTime,
				EndTime:   line.EndTime,
				Headcount: line.Headcount,
				Label:     line.Notes,
			})
		}
	}

	// 追加 ADD_SHIFT 例外的需求行
	for _, ex := range matched {
		if ex.Kind == domain.ExceptionAddShift {
			specs = append(specs, specFromException(ex))
		}
	}

	// 最后剔除被任意一个 MASK_SHIFT 例外命中的需求行
	result := make([]ShiftSpec, 0, len(specs))
	for _, spec := range specs {
		masked := false
		for _, ex := range matched {
			if ex.Kind == domain.ExceptionMaskShift && maskMatches(ex, spec) {
				masked = true
				break
			}
		}
		if !masked {
			result = append(result, spec)
		}
	}

	return result
}

func specFromException(ex *domain.DateException) ShiftSpec {
	return ShiftSpec{
		AgentType:          ex.AgentType,
		StartTime:          ex.StartTime,
		EndTime:            ex.EndTime,
		Headcount:          ex.Headcount,
		MinExperienceYears: ex.MinExperienceYears,
		RequiredSkills:     ex.RequiredSkills,
		Label:              ex.Notes,
	}
}

// maskMatches 判断屏蔽例外是否命中某条需求行：
// 岗位类型未设置或相等，且时间窗口未设置或与需求行的窗口重叠
func maskMatches(mask *domain.DateException, spec ShiftSpec) bool {
	if mask.AgentType != "" && mask.AgentType != spec.AgentType {
		return false
	}
	if mask.StartTime != "" && mask.EndTime != "" {
		if !windowsOverlap(mask.StartTime, mask.EndTime, spec.StartTime, spec.EndTime) {
			return false
		}
	}
	return true
}
