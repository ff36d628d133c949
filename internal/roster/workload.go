package roster

import (
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

// Workload 是生成运行中显式传递的负载累加器
// 记录每个员工每天的已排分钟数、每个 ISO 周的已排分钟数以及每天的时间窗口，
// 同一天内先排的班次对后续班次的资格检查可见
type Workload struct {
	dayMinutes  map[int64]map[string]int32
	weekMinutes map[int64]map[int]int32
	dayWindows  map[int64]map[string][]interval
}

func NewWorkload() *Workload {
	return &Workload{
		dayMinutes:  make(map[int64]map[string]int32),
		weekMinutes: make(map[int64]map[int]int32),
		dayWindows:  make(map[int64]map[string][]interval),
	}
}

// Add 记录员工在某天排了一个班次
func (w *Workload) Add(employeeID int64, date time.Time, start string, end string) {
	minutes := DurationMinutes(start, end)
	dk := dateKey(date)
	wk := weekKey(date)

	if _, exists := w.dayMinutes[employeeID]; !exists {
		w.dayMinutes[employeeID] = make(map[string]int32)
		w.weekMinutes[employeeID] = make(map[int]int32)
		w.dayWindows[employeeID] = make(map[string][]interval)
	}

	w.dayMinutes[employeeID][dk] += minutes
	w.weekMinutes[employeeID][wk] += minutes
	w.dayWindows[employeeID][dk] = append(w.dayWindows[employeeID][dk], windowInterval(start, end))
}

// AddAssignment 用已存在的排班记录预置负载
func (w *Workload) AddAssignment(a *domain.Assignment) {
	w.Add(a.EmployeeID, a.Date, a.StartTime, a.EndTime)
}

// DayMinutes 返回员工在某天已排的分钟数
func (w *Workload) DayMinutes(employeeID int64, date time.Time) int32 {
	return w.dayMinutes[employeeID][dateKey(date)]
}

// WeekMinutes 返回员工在某天所在 ISO 周（周一至周日）已排的分钟数
func (w *Workload) WeekMinutes(employeeID int64, date time.Time) int32 {
	return w.weekMinutes[employeeID][weekKey(date)]
}

// HasAssignmentOn 判断员工在某天是否已经有排班
func (w *Workload) HasAssignmentOn(employeeID int64, date time.Time) bool {
	return len(w.dayWindows[employeeID][dateKey(date)]) > 0
}

// HasOverlap 判断候选班次是否与员工当天已有的班次时间重叠
func (w *Workload) HasOverlap(employeeID int64, date time.Time, start string, end string) bool {
	candidate := windowInterval(start, end)
	for _, win := range w.dayWindows[employeeID][dateKey(date)] {
		if intervalsOverlap(win, candidate) {
			return true
		}
		if intervalsOverlap(interval{start: win.start + minutesPerDay, end: win.end + minutesPerDay}, candidate) {
			return true
		}
		if intervalsOverlap(win, interval{start: candidate.start + minutesPerDay, end: candidate.end + minutesPerDay}) {
			return true
		}
	}
	return false
}
