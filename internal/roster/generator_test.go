package roster

import (
	"testing"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generatorInput() *Input {
	rules := make([]*domain.WeeklyStaffingRule, 0, 7)
	for weekday := int32(1); weekday <= 7; weekday++ {
		rules = append(rules, &domain.WeeklyStaffingRule{
			SiteID:  1,
			Weekday: weekday,
			Lines: []domain.RequirementLine{
				{AgentType: "保安员", StartTime: "08:00", EndTime: "16:00", Headcount: 1},
			},
		})
	}

	return &Input{
		Schedule:    &domain.Schedule{ID: 10, SiteID: 1, Month: 1, Year: 2025},
		Candidates:  poolOf(1, 2, 3),
		WeeklyRules: rules,
	}
}

func TestNewGeneratorRequiresWeeklyRules(t *testing.T) {
	in := generatorInput()
	in.WeeklyRules = nil

	_, err := NewGenerator(Options{}, in)
	assert.ErrorIs(t, err, ErrNoWeeklyRule)
}

func TestGenerateFillsEveryDay(t *testing.T) {
	g, err := NewGenerator(Options{}, generatorInput())
	require.NoError(t, err)

	result := g.Generate()

	// 2025 年 1 月有 31 天，每天一个班次一个人
	assert.Len(t, result.Assignments, 31)
	assert.Empty(t, result.Shortages)

	for _, a := range result.Assignments {
		assert.Equal(t, int64(10), a.ScheduleID)
		assert.Equal(t, int64(1), a.SiteID)
		assert.Equal(t, domain.AssignmentAssigned, a.Status)
		assert.Equal(t, int32(480), a.DurationMinutes)
	}
}

func TestGenerateLoadBalancedSpreadsWork(t *testing.T) {
	g, err := NewGenerator(Options{}, generatorInput())
	require.NoError(t, err)

	result := g.Generate()

	counts := make(map[int64]int)
	for _, a := range result.Assignments {
		counts[a.EmployeeID]++
	}

	// 负载均衡策略下三个人的班次数量应该大致均衡
	require.Len(t, counts, 3)
	for _, count := range counts {
		assert.GreaterOrEqual(t, count, 10)
		assert.LessOrEqual(t, count, 11)
	}
}

func TestGenerateRecordsShortage(t *testing.T) {
	in := generatorInput()
	in.Candidates = poolOf(1) // 只有一个人

	// 每天需要 3 个人
	for _, rule := range in.WeeklyRules {
		rule.Lines[0].Headcount = 3
	}

	g, err := NewGenerator(Options{}, in)
	require.NoError(t, err)

	result := g.Generate()

	// 缺口被记录但运行继续，能排的人照常排上
	assert.Len(t, result.Assignments, 31)
	require.Len(t, result.Shortages, 31)
	assert.Equal(t, int32(2), result.Shortages[0].Missing)
	assert.Equal(t, "保安员", result.Shortages[0].AgentType)
}

func TestGenerateCloseDayProducesNothing(t *testing.T) {
	in := generatorInput()
	in.Exceptions = []*domain.DateException{
		{
			SiteID:    1,
			Kind:      domain.ExceptionCloseDay,
			StartDate: date(2025, time.January, 1),
			EndDate:   date(2025, time.January, 31),
		},
	}

	g, err := NewGenerator(Options{}, in)
	require.NoError(t, err)

	result := g.Generate()
	assert.Empty(t, result.Assignments)
	assert.Empty(t, result.Shortages)
}

func TestGenerateMaxOneShiftPerDay(t *testing.T) {
	in := generatorInput()
	in.Candidates = poolOf(1)

	// 每天两个不重叠的班次，但只有一个人且开启了每天一个班次的限制
	for _, rule := range in.WeeklyRules {
		rule.Lines = []domain.RequirementLine{
			{AgentType: "保安员", StartTime: "08:00", EndTime: "12:00", Headcount: 1},
			{AgentType: "保安员", StartTime: "13:00", EndTime: "17:00", Headcount: 1},
		}
	}

	g, err := NewGenerator(Options{MaxOneShiftPerDay: true}, in)
	require.NoError(t, err)

	result := g.Generate()

	assert.Len(t, result.Assignments, 31)
	assert.Len(t, result.Shortages, 31)

	seen := make(map[string]bool)
	for _, a := range result.Assignments {
		key := dateKey(a.Date)
		assert.False(t, seen[key], "员工在同一天被排了两个班次")
		seen[key] = true
	}
}

func TestGenerateSameDayShiftsVisibleToLaterShifts(t *testing.T) {
	in := generatorInput()
	in.Candidates = poolOf(1, 2)

	// 两个时间重叠的班次：同一个人不能同时出现在两个班次里
	for _, rule := range in.WeeklyRules {
		rule.Lines = []domain.RequirementLine{
			{AgentType: "保安员", StartTime: "08:00", EndTime: "16:00", Headcount: 1},
			{AgentType: "保安员", StartTime: "10:00", EndTime: "18:00", Headcount: 1},
		}
	}

	g, err := NewGenerator(Options{}, in)
	require.NoError(t, err)

	result := g.Generate()

	byDate := make(map[string][]int64)
	for _, a := range result.Assignments {
		byDate[dateKey(a.Date)] = append(byDate[dateKey(a.Date)], a.EmployeeID)
	}

	for day, ids := range byDate {
		require.Len(t, ids, 2, "日期 %s", day)
		assert.NotEqual(t, ids[0], ids[1])
	}
}

func TestGenerateExistingAssignmentsSeedWorkload(t *testing.T) {
	in := generatorInput()
	in.Candidates = poolOf(1)
	in.Candidates[0].Preference = &domain.EmployeePreference{NoPreference: true, MaxHoursPerDay: 8}

	// 员工 1 在另一个班表中 1 月 6 日已经排了 8 小时
	in.ExistingAssignments = []*domain.Assignment{
		{EmployeeID: 1, Date: date(2025, time.January, 6), StartTime: "00:00", EndTime: "08:00"},
	}

	g, err := NewGenerator(Options{}, in)
	require.NoError(t, err)

	result := g.Generate()

	for _, a := range result.Assignments {
		assert.NotEqual(t, "2025-01-06", dateKey(a.Date), "已排满的当天不应再被排班")
	}
	assert.Len(t, result.Assignments, 30)
}

func TestGenerateSurvivingManualAssignmentsBlockOverlap(t *testing.T) {
	in := generatorInput()
	in.Candidates = poolOf(1)

	// 本班表中有一条已确认的手动排班，重新生成时它不会被删除，
	// 生成器不能在与它重叠的时间段上再给该员工排班
	in.ExistingAssignments = []*domain.Assignment{
		{
			ScheduleID: 10,
			EmployeeID: 1,
			Date:       monday,
			StartTime:  "09:00",
			EndTime:    "17:00",
			Status:     domain.AssignmentConfirmed,
		},
	}

	g, err := NewGenerator(Options{}, in)
	require.NoError(t, err)

	result := g.Generate()

	for _, a := range result.Assignments {
		assert.NotEqual(t, dateKey(monday), dateKey(a.Date), "手动排班已占用的时间段又被自动排班")
	}

	// 当天的需求只能转为缺口
	found := false
	for _, s := range result.Shortages {
		if dateKey(s.Date) == dateKey(monday) {
			found = true
		}
	}
	assert.True(t, found)
}

func TestGeneratePriorMonthTailCountsTowardWeeklyCap(t *testing.T) {
	in := generatorInput()
	in.Candidates = poolOf(1)
	in.Candidates[0].Preference = &domain.EmployeePreference{NoPreference: true, MaxHoursPerWeek: 24}

	// 2025-01-01 所在的 ISO 周从 2024-12-30（周一）开始，
	// 员工 1 在上个月的班表里本周已经排了两个 8 小时班次
	in.ExistingAssignments = []*domain.Assignment{
		{EmployeeID: 1, Date: date(2024, time.December, 30), StartTime: "08:00", EndTime: "16:00"},
		{EmployeeID: 1, Date: date(2024, time.December, 31), StartTime: "08:00", EndTime: "16:00"},
	}

	g, err := NewGenerator(Options{}, in)
	require.NoError(t, err)

	result := g.Generate()

	assigned := make(map[string]bool)
	for _, a := range result.Assignments {
		assigned[dateKey(a.Date)] = true
	}

	// 本周剩余额度只够 1 月 1 日一个班次，1 月 2 日至 5 日只能记缺口
	assert.True(t, assigned["2025-01-01"])
	for day := 2; day <= 5; day++ {
		assert.False(t, assigned[dateKey(date(2025, time.January, day))], "上个月末尾的工时没有被计入本周")
	}
}

func TestGenerateLegacyShuffleWithSeedIsReproducible(t *testing.T) {
	seed := int64(99)

	run := func() []int64 {
		g, err := NewGenerator(Options{Policy: PolicyLegacyShuffle, Seed: &seed}, generatorInput())
		require.NoError(t, err)

		ids := make([]int64, 0)
		for _, a := range g.Generate().Assignments {
			ids = append(ids, a.EmployeeID)
		}
		return ids
	}

	assert.Equal(t, run(), run())
}
