package roster

import (
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

// ErrNoWeeklyRule 表示站点没有配置任何基础周规则，整次生成无法进行
var ErrNoWeeklyRule = errors.New("站点没有配置任何基础周排班规则")

type Options struct {
	Policy            Policy
	Seed              *int64 // 仅洗牌策略使用，注入固定种子可以让测试复现结果
	MaxOneShiftPerDay bool   // 开启后每个员工每天最多被排一个班次
	DayBand           DayBand
}

// Input 为一次生成运行的全部输入，由调用方预先从存储中加载
type Input struct {
	Schedule            *domain.Schedule
	Candidates          []*Candidate
	WeeklyRules         []*domain.WeeklyStaffingRule
	Exceptions          []*domain.DateException
	ExistingAssignments []*domain.Assignment // 员工在其他班表中已有的排班，用于预置负载
}

type Generator struct {
	opts Options
	in   *Input
	rng  *rand.Rand
}

func NewGenerator(opts Options, in *Input) (*Generator, error) {
	if len(in.WeeklyRules) == 0 {
		return nil, ErrNoWeeklyRule
	}

	if opts.Policy == "" {
		opts.Policy = PolicyLoadBalanced
	}
	if opts.DayBand.Start == "" || opts.DayBand.End == "" {
		opts.DayBand = DayBand{Start: "06:00", End: "20:00"}
	}

	var rng *rand.Rand
	if opts.Seed != nil {
		rng = rand.New(rand.NewSource(*opts.Seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Generator{
		opts: opts,
		in:   in,
		rng:  rng,
	}, nil
}

// Generate 逐天、逐班次地生成整个月的排班
// 候选池不足时记录缺口并继续，不会让整次运行失败
func (g *Generator) Generate() *Result {
	schedule := g.in.Schedule

	// 预置负载，让资格检查能看到员工在其他班表中已有的排班
	workload := NewWorkload()
	for _, a := range g.in.ExistingAssignments {
		workload.AddAssignment(a)
	}

	result := &Result{
		Assignments: make([]*domain.Assignment, 0),
		Shortages:   make([]Shortage, 0),
	}

	daysInMonth := time.Date(int(schedule.Year), time.Month(schedule.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(int(schedule.Year), time.Month(schedule.Month), day, 0, 0, 0, 0, time.UTC)

		specs := ResolveDay(date, g.in.WeeklyRules, g.in.Exceptions)
		for _, spec := range specs {
			// 过滤出当前班次的合格候选池
			pool := make([]*Candidate, 0, len(g.in.Candidates))
			for _, c := range g.in.Candidates {
				if g.opts.MaxOneShiftPerDay && workload.HasAssignmentOn(c.Employee.ID, date) {
					continue
				}
				if reason := CheckEligibility(c, date, spec, workload, g.opts.DayBand); reason != "" {
					continue
				}
				pool = append(pool, c)
			}

			picked := SelectAssignees(spec, pool, date, g.opts.Policy, g.rng, workload)

			if int32(len(picked)) < spec.Headcount {
				missing := spec.Headcount - int32(len(picked))
				slog.Warn("班次人手不足",
					"siteID", schedule.SiteID,
					"date", dateKey(date),
					"agentType", spec.AgentType,
					"startTime", spec.StartTime,
					"endTime", spec.EndTime,
					"missing", missing,
				)
				result.Shortages = append(result.Shortages, Shortage{
					Date:      date,
					AgentType: spec.AgentType,
					StartTime: spec.StartTime,
					EndTime:   spec.EndTime,
					Missing:   missing,
				})
			}

			for _, c := range picked {
				result.Assignments = append(result.Assignments, &domain.Assignment{
					ScheduleID:      schedule.ID,
					EmployeeID:      c.Employee.ID,
					SiteID:          schedule.SiteID,
					Date:            date,
					StartTime:       spec.StartTime,
					EndTime:         spec.EndTime,
					DurationMinutes: DurationMinutes(spec.StartTime, spec.EndTime),
					AgentType:       spec.AgentType,
					Label:           spec.Label,
					Status:          domain.AssignmentAssigned,
				})
			}
		}
	}

	return result
}
