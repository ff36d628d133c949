package roster

import (
	"testing"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

var defaultBand = DayBand{Start: "06:00", End: "20:00"}

func candidate() *Candidate {
	return &Candidate{
		Employee: &domain.Employee{
			ID:                  42,
			SiteID:              1,
			FullName:            "张伟",
			AgentTypes:          []string{"保安员"},
			Skills:              []string{"消防", "急救"},
			ExperienceYears:     3,
			ContractType:        domain.ContractFullTime,
			ContractWeeklyHours: 40,
			IsActive:            true,
		},
	}
}

func dayShift() ShiftSpec {
	return ShiftSpec{AgentType: "保安员", StartTime: "08:00", EndTime: "16:00", Headcount: 1}
}

func TestCheckEligibilityAgentType(t *testing.T) {
	c := candidate()

	assert.Empty(t, CheckEligibility(c, monday, dayShift(), NewWorkload(), defaultBand))

	spec := dayShift()
	spec.AgentType = "队长"
	assert.Equal(t, "岗位类型不匹配", CheckEligibility(c, monday, spec, NewWorkload(), defaultBand))

	// 班次没有岗位类型要求时不过滤
	spec.AgentType = ""
	assert.Empty(t, CheckEligibility(c, monday, spec, NewWorkload(), defaultBand))
}

func TestCheckEligibilitySkills(t *testing.T) {
	c := candidate()

	spec := dayShift()
	spec.RequiredSkills = []string{"消防"}
	assert.Empty(t, CheckEligibility(c, monday, spec, NewWorkload(), defaultBand))

	spec.RequiredSkills = []string{"消防", "持枪证"}
	assert.Equal(t, "缺少班次要求的技能", CheckEligibility(c, monday, spec, NewWorkload(), defaultBand))
}

func TestCheckEligibilityExperience(t *testing.T) {
	c := candidate()

	spec := dayShift()
	spec.MinExperienceYears = 5
	assert.Equal(t, "工作年限不满足班次要求", CheckEligibility(c, monday, spec, NewWorkload(), defaultBand))
}

func TestCheckEligibilityAbsence(t *testing.T) {
	c := candidate()
	c.Absences = []*domain.Absence{
		{EmployeeID: 42, StartDate: monday, EndDate: monday.AddDate(0, 0, 2), Approved: true},
	}

	assert.Equal(t, "当天有已批准的请假", CheckEligibility(c, monday, dayShift(), NewWorkload(), defaultBand))

	// 未批准的请假不排除候选人
	c.Absences[0].Approved = false
	assert.Empty(t, CheckEligibility(c, monday, dayShift(), NewWorkload(), defaultBand))
}

func TestCheckEligibilityStructuredAvailability(t *testing.T) {
	c := candidate()
	c.Availability = []*domain.EmployeeAvailability{
		{EmployeeID: 42, Weekday: 1, StartTime: "07:00", EndTime: "19:00"},
	}

	assert.Empty(t, CheckEligibility(c, monday, dayShift(), NewWorkload(), defaultBand))

	// 窗口必须完整包含班次
	spec := dayShift()
	spec.EndTime = "20:00"
	assert.Equal(t, "不在可用时间窗口内", CheckEligibility(c, monday, spec, NewWorkload(), defaultBand))

	// 有结构化记录但不覆盖当天星期几时同样排除，不回退到偏好
	tuesday := monday.AddDate(0, 0, 1)
	assert.Equal(t, "不在可用时间窗口内", CheckEligibility(c, tuesday, dayShift(), NewWorkload(), defaultBand))
}

func TestCheckEligibilityPreferenceFallback(t *testing.T) {
	saturday := date(2025, time.January, 11)
	nightShift := ShiftSpec{AgentType: "保安员", StartTime: "22:00", EndTime: "06:00", Headcount: 1}

	tests := map[string]struct {
		pref     *domain.EmployeePreference
		day      time.Time
		spec     ShiftSpec
		expected string
	}{
		"没有偏好记录直接通过": {pref: nil, day: monday, spec: dayShift(), expected: ""},
		"声明无偏好直接通过":  {pref: &domain.EmployeePreference{NoPreference: true}, day: saturday, spec: nightShift, expected: ""},
		"不接受周末": {
			pref:     &domain.EmployeePreference{CanWorkWeekdays: true, CanWorkDays: true},
			day:      saturday,
			spec:     dayShift(),
			expected: "不接受周末排班",
		},
		"不接受工作日": {
			pref:     &domain.EmployeePreference{CanWorkWeekends: true, CanWorkDays: true},
			day:      monday,
			spec:     dayShift(),
			expected: "不接受工作日排班",
		},
		"不接受夜班": {
			pref:     &domain.EmployeePreference{CanWorkWeekdays: true, CanWorkDays: true},
			day:      monday,
			spec:     nightShift,
			expected: "不接受夜班排班",
		},
		"不接受白班": {
			pref:     &domain.EmployeePreference{CanWorkWeekdays: true, CanWorkNights: true},
			day:      monday,
			spec:     dayShift(),
			expected: "不接受白班排班",
		},
		"夜班偏好匹配": {
			pref:     &domain.EmployeePreference{CanWorkWeekdays: true, CanWorkNights: true},
			day:      monday,
			spec:     nightShift,
			expected: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := candidate()
			c.Preference = tt.pref
			assert.Equal(t, tt.expected, CheckEligibility(c, tt.day, tt.spec, NewWorkload(), defaultBand))
		})
	}
}

func TestCheckEligibilityDailyCap(t *testing.T) {
	c := candidate()
	c.Preference = &domain.EmployeePreference{NoPreference: true, MaxHoursPerDay: 8}

	// 已经排了 5 小时，再排 4 小时会达到 9 小时，超过 8 小时上限
	w := NewWorkload()
	w.Add(42, monday, "06:00", "11:00")

	spec := ShiftSpec{AgentType: "保安员", StartTime: "12:00", EndTime: "16:00", Headcount: 1}
	assert.Equal(t, "超过每日最大工时", CheckEligibility(c, monday, spec, w, defaultBand))

	// 3 小时的班次刚好排满 8 小时，不超限
	spec.EndTime = "15:00"
	assert.Empty(t, CheckEligibility(c, monday, spec, w, defaultBand))
}

func TestCheckEligibilityWeeklyCap(t *testing.T) {
	c := candidate()
	c.Preference = &domain.EmployeePreference{NoPreference: true, MaxHoursPerWeek: 10}

	w := NewWorkload()
	w.Add(42, monday, "08:00", "16:00") // 本周已排 8 小时

	tuesday := monday.AddDate(0, 0, 1)
	spec := ShiftSpec{AgentType: "保安员", StartTime: "08:00", EndTime: "11:00", Headcount: 1}
	assert.Equal(t, "超过每周最大工时", CheckEligibility(c, tuesday, spec, w, defaultBand))

	// 下一个 ISO 周从零开始计算
	nextMonday := monday.AddDate(0, 0, 7)
	assert.Empty(t, CheckEligibility(c, nextMonday, spec, w, defaultBand))
}

func TestCheckEligibilityWeeklyCapFallsBackToContract(t *testing.T) {
	c := candidate()
	c.Employee.ContractWeeklyHours = 10
	c.Preference = &domain.EmployeePreference{NoPreference: true} // 偏好未设置周上限

	w := NewWorkload()
	w.Add(42, monday, "08:00", "16:00")

	tuesday := monday.AddDate(0, 0, 1)
	spec := ShiftSpec{AgentType: "保安员", StartTime: "08:00", EndTime: "11:00", Headcount: 1}
	assert.Equal(t, "超过每周最大工时", CheckEligibility(c, tuesday, spec, w, defaultBand))
}

func TestCheckEligibilityOverlap(t *testing.T) {
	c := candidate()

	w := NewWorkload()
	w.Add(42, monday, "22:00", "06:00")

	// 同一天 05:00~07:00 与跨午夜的 22:00~06:00 冲突
	spec := ShiftSpec{AgentType: "保安员", StartTime: "05:00", EndTime: "07:00", Headcount: 1}
	assert.Equal(t, "与当天已有排班时间重叠", CheckEligibility(c, monday, spec, w, defaultBand))

	spec = ShiftSpec{AgentType: "保安员", StartTime: "08:00", EndTime: "16:00", Headcount: 1}
	assert.Empty(t, CheckEligibility(c, monday, spec, w, defaultBand))
}
