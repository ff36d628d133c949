package roster

import (
	"testing"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// 2025-01-06 是周一
var monday = date(2025, time.January, 6)

func baseRules() []*domain.WeeklyStaffingRule {
	return []*domain.WeeklyStaffingRule{
		{
			SiteID:  1,
			Weekday: 1,
			Lines: []domain.RequirementLine{
				{AgentType: "保安员", StartTime: "08:00", EndTime: "16:00", Headcount: 2},
				{AgentType: "队长", StartTime: "09:00", EndTime: "18:00", Headcount: 1},
			},
		},
		{
			SiteID:  1,
			Weekday: 2,
			Lines: []domain.RequirementLine{
				{AgentType: "保安员", StartTime: "08:00", EndTime: "16:00", Headcount: 1},
			},
		},
	}
}

func exception(kind domain.ExceptionKind) *domain.DateException {
	return &domain.DateException{
		SiteID:    1,
		Kind:      kind,
		StartDate: date(2025, time.January, 1),
		EndDate:   date(2025, time.January, 31),
	}
}

func TestResolveDayBaseRuleOnly(t *testing.T) {
	specs := ResolveDay(monday, baseRules(), nil)

	require.Len(t, specs, 2)
	assert.Equal(t, "保安员", specs[0].AgentType)
	assert.Equal(t, int32(2), specs[0].Headcount)
	assert.Equal(t, "队长", specs[1].AgentType)
}

func TestResolveDayNoRuleForWeekday(t *testing.T) {
	// 2025-01-08 是周三，没有配置基础规则
	specs := ResolveDay(date(2025, time.January, 8), baseRules(), nil)
	assert.Empty(t, specs)
}

func TestResolveDayCloseDayBeatsEverything(t *testing.T) {
	add := exception(domain.ExceptionAddShift)
	add.AgentType = "保安员"
	add.StartTime = "20:00"
	add.EndTime = "23:00"
	add.Headcount = 1

	replace := exception(domain.ExceptionReplaceDay)
	replace.AgentType = "队长"
	replace.StartTime = "10:00"
	replace.EndTime = "14:00"
	replace.Headcount = 1

	exceptions := []*domain.DateException{add, replace, exception(domain.ExceptionCloseDay)}

	specs := ResolveDay(monday, baseRules(), exceptions)
	assert.Empty(t, specs)
}

func TestResolveDayReplaceDayIgnoresBaseRule(t *testing.T) {
	replace := exception(domain.ExceptionReplaceDay)
	replace.AgentType = "巡逻员"
	replace.StartTime = "10:00"
	replace.EndTime = "14:00"
	replace.Headcount = 3
	replace.RequiredSkills = []string{"持枪证"}

	specs := ResolveDay(monday, baseRules(), []*domain.DateException{replace})

	require.Len(t, specs, 1)
	assert.Equal(t, "巡逻员", specs[0].AgentType)
	assert.Equal(t, int32(3), specs[0].Headcount)
	assert.Equal(t, []string{"持枪证"}, specs[0].RequiredSkills)
}

func TestResolveDayMultipleReplaceDaysConcatenate(t *testing.T) {
	first := exception(domain.ExceptionReplaceDay)
	first.AgentType = "巡逻员"
	first.StartTime = "10:00"
	first.EndTime = "14:00"
	first.Headcount = 1

	second := exception(domain.ExceptionReplaceDay)
	second.AgentType = "保安员"
	second.StartTime = "14:00"
	second.EndTime = "22:00"
	second.Headcount = 2

	specs := ResolveDay(monday, baseRules(), []*domain.DateException{first, second})
	assert.Len(t, specs, 2)
}

func TestResolveDayAddShift(t *testing.T) {
	add := exception(domain.ExceptionAddShift)
	add.AgentType = "保安员"
	add.StartTime = "20:00"
	add.EndTime = "23:00"
	add.Headcount = 1

	specs := ResolveDay(monday, baseRules(), []*domain.DateException{add})

	require.Len(t, specs, 3)
	assert.Equal(t, "20:00", specs[2].StartTime)
}

func TestResolveDayMaskShift(t *testing.T) {
	tests := map[string]struct {
		agentType string
		start     string
		end       string
		remaining int
	}{
		"按岗位类型屏蔽":     {agentType: "队长", remaining: 1},
		"按时间窗口屏蔽全部":   {agentType: "", start: "08:00", end: "18:00", remaining: 0},
		"岗位加窗口只中一条":   {agentType: "保安员", start: "08:00", end: "18:00", remaining: 1},
		"窗口不重叠则不屏蔽":   {agentType: "", start: "20:00", end: "23:00", remaining: 2},
		"无条件屏蔽命中全部需求": {agentType: "", remaining: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			mask := exception(domain.ExceptionMaskShift)
			mask.AgentType = tt.agentType
			mask.StartTime = tt.start
			mask.EndTime = tt.end

			specs := ResolveDay(monday, baseRules(), []*domain.DateException{mask})
			assert.Len(t, specs, tt.remaining)
		})
	}
}

func TestResolveDayMaskAgainstMidnightCrossingLine(t *testing.T) {
	rules := []*domain.WeeklyStaffingRule{
		{
			SiteID:  1,
			Weekday: 1,
			Lines: []domain.RequirementLine{
				{AgentType: "保安员", StartTime: "22:00", EndTime: "06:00", Headcount: 1},
			},
		},
	}

	// 屏蔽窗口在次日清晨，与跨午夜的需求行重叠
	mask := exception(domain.ExceptionMaskShift)
	mask.StartTime = "05:00"
	mask.EndTime = "07:00"

	specs := ResolveDay(monday, rules, []*domain.DateException{mask})
	assert.Empty(t, specs)
}

func TestResolveDayExceptionOutsideDateRange(t *testing.T) {
	closed := exception(domain.ExceptionCloseDay)
	closed.StartDate = date(2025, time.February, 1)
	closed.EndDate = date(2025, time.February, 28)

	specs := ResolveDay(monday, baseRules(), []*domain.DateException{closed})
	assert.Len(t, specs, 2)
}

func TestResolveDayExceptionWeekdaySubset(t *testing.T) {
	closed := exception(domain.ExceptionCloseDay)
	closed.Weekdays = []int32{6, 7}

	// 周一不在子集内，关闭日不生效
	specs := ResolveDay(monday, baseRules(), []*domain.DateException{closed})
	assert.Len(t, specs, 2)

	closed.Weekdays = []int32{1}
	specs = ResolveDay(monday, baseRules(), []*domain.DateException{closed})
	assert.Empty(t, specs)
}
