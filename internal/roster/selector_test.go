package roster

import (
	"math/rand"
	"testing"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poolOf(ids ...int64) []*Candidate {
	pool := make([]*Candidate, 0, len(ids))
	for _, id := range ids {
		pool = append(pool, &Candidate{
			Employee: &domain.Employee{ID: id, AgentTypes: []string{"保安员"}},
		})
	}
	return pool
}

func TestSelectAssigneesLoadBalanced(t *testing.T) {
	pool := poolOf(1, 2, 3)

	w := NewWorkload()
	w.Add(1, monday, "08:00", "16:00") // 480 分钟
	w.Add(2, monday, "08:00", "12:00") // 240 分钟
	// 员工 3 本周还没有排班

	spec := ShiftSpec{AgentType: "保安员", StartTime: "08:00", EndTime: "12:00", Headcount: 2}
	picked := SelectAssignees(spec, pool, monday.AddDate(0, 0, 1), PolicyLoadBalanced, rand.New(rand.NewSource(1)), w)

	require.Len(t, picked, 2)
	// 先选负载最低的员工 3，选完后员工 3 有 240 分钟，与员工 2 并列，取池中靠前的员工 2
	assert.Equal(t, int64(3), picked[0].Employee.ID)
	assert.Equal(t, int64(2), picked[1].Employee.ID)
}

func TestSelectAssigneesLoadBalancedRecomputesBetweenPicks(t *testing.T) {
	pool := poolOf(1, 2)

	w := NewWorkload()
	spec := ShiftSpec{AgentType: "保安员", StartTime: "08:00", EndTime: "16:00", Headcount: 1}

	first := SelectAssignees(spec, pool, monday, PolicyLoadBalanced, rand.New(rand.NewSource(1)), w)
	require.Len(t, first, 1)
	assert.Equal(t, int64(1), first[0].Employee.ID)

	// 第一次挑选之后员工 1 的负载上升，下一个班次应该轮到员工 2
	second := SelectAssignees(spec, pool, monday.AddDate(0, 0, 1), PolicyLoadBalanced, rand.New(rand.NewSource(1)), w)
	require.Len(t, second, 1)
	assert.Equal(t, int64(2), second[0].Employee.ID)
}

func TestSelectAssigneesShortage(t *testing.T) {
	pool := poolOf(1)

	spec := ShiftSpec{AgentType: "保安员", StartTime: "08:00", EndTime: "16:00", Headcount: 3}
	picked := SelectAssignees(spec, pool, monday, PolicyLoadBalanced, rand.New(rand.NewSource(1)), NewWorkload())

	// 池不够时只返回能选出的人，不报错
	assert.Len(t, picked, 1)
}

func TestSelectAssigneesEmptyPool(t *testing.T) {
	spec := ShiftSpec{AgentType: "保安员", StartTime: "08:00", EndTime: "16:00", Headcount: 2}
	picked := SelectAssignees(spec, nil, monday, PolicyLoadBalanced, rand.New(rand.NewSource(1)), NewWorkload())
	assert.Empty(t, picked)
}

func TestSelectAssigneesLegacyShuffleSeedable(t *testing.T) {
	spec := ShiftSpec{AgentType: "保安员", StartTime: "08:00", EndTime: "16:00", Headcount: 2}

	run := func(seed int64) []int64 {
		picked := SelectAssignees(spec, poolOf(1, 2, 3, 4, 5), monday, PolicyLegacyShuffle, rand.New(rand.NewSource(seed)), NewWorkload())
		ids := make([]int64, 0, len(picked))
		for _, c := range picked {
			ids = append(ids, c.Employee.ID)
		}
		return ids
	}

	// 相同种子的结果可以复现
	assert.Equal(t, run(7), run(7))
	assert.Len(t, run(7), 2)
}

func TestSelectAssigneesUpdatesWorkload(t *testing.T) {
	pool := poolOf(1, 2)
	w := NewWorkload()

	spec := ShiftSpec{AgentType: "保安员", StartTime: "08:00", EndTime: "16:00", Headcount: 2}
	SelectAssignees(spec, pool, monday, PolicyLegacyShuffle, rand.New(rand.NewSource(1)), w)

	// 两种策略都必须把选中的班次计入负载
	assert.Equal(t, int32(480), w.DayMinutes(1, monday))
	assert.Equal(t, int32(480), w.DayMinutes(2, monday))
	assert.True(t, w.HasOverlap(1, monday, "10:00", "12:00"))
}
