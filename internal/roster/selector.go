package roster

import (
	"math/rand"
	"time"
)

type Policy string

const (
	// PolicyLoadBalanced 每次选出本周已排分钟数最少的候选人，
	// 选完一个立刻更新负载再进行下一次挑选，结果是确定性的（并列时取池中靠前者）
	PolicyLoadBalanced Policy = "LOAD_BALANCED"
	// PolicyLegacyShuffle 将候选池随机打乱后取前 N 个
	// 这是遗留的简单生成模式，除非注入固定种子，否则结果不是确定性的
	PolicyLegacyShuffle Policy = "LEGACY_SHUFFLE"
)

// SelectAssignees 从已通过资格检查的候选池中挑选班次所需的人数
// 候选池不足时返回能选出的所有人，由调用方记录缺口
// 每选出一个人都会把该班次计入负载累加器，同一天的后续班次能立刻看到
func SelectAssignees(spec ShiftSpec, pool []*Candidate, date time.Time, policy Policy, rng *rand.Rand, w *Workload) []*Candidate {
	need := int(spec.Headcount)
	if need > len(pool) {
		need = len(pool)
	}
	if need <= 0 {
		return nil
	}

	switch policy {
	case PolicyLegacyShuffle:
		shuffled := make([]*Candidate, len(pool))
		copy(shuffled, pool)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		picked := shuffled[:need]
		for _, c := range picked {
			w.Add(c.Employee.ID, date, spec.StartTime, spec.EndTime)
		}
		return picked
	default:
		remaining := make([]*Candidate, len(pool))
		copy(remaining, pool)

		picked := make([]*Candidate, 0, need)
		for len(picked) < need {
			best := 0
			bestMinutes := w.WeekMinutes(remaining[0].Employee.ID, date)
			for i := 1; i < len(remaining); i++ {
				minutes := w.WeekMinutes(remaining[i].Employee.ID, date)
				if minutes < bestMinutes {
					best = i
					bestMinutes = minutes
				}
			}

			c := remaining[best]
			remaining = append(remaining[:best], remaining[best+1:]...)
			picked = append(picked, c)

			// 立刻计入负载，下一次挑选基于新的负载
			w.Add(c.Employee.ID, date, spec.StartTime, spec.EndTime)
		}
		return picked
	}
}
