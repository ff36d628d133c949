package roster

import (
	"time"
)

const minutesPerDay = 1440

// parseClock 将 HH:MM 格式的墙上时间解析为当天零点起的分钟数
func parseClock(s string) (int32, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return int32(t.Hour()*60 + t.Minute()), nil
}

// DurationMinutes 计算班次的时长（分钟）
// 如果结束时间不严格晚于开始时间，则视为跨午夜班次，加上 24 小时
func DurationMinutes(start string, end string) int32 {
	s, _ := parseClock(start)
	e, _ := parseClock(end)
	if e <= s {
		e += minutesPerDay
	}
	return e - s
}

// interval 表示以某个参考日零点为原点的绝对分钟区间 [start, end)
type interval struct {
	start int32
	end   int32
}

// windowInterval 将时间窗口规整为参考日上的绝对区间，跨午夜窗口的终点落在次日
func windowInterval(start string, end string) interval {
	s, _ := parseClock(start)
	e, _ := parseClock(end)
	if e <= s {
		e += minutesPerDay
	}
	return interval{start: s, end: e}
}

func intervalsOverlap(a interval, b interval) bool {
	return a.start < b.end && b.start < a.end
}

// windowsOverlap 判断同一天内两个时间窗口是否重叠
// 除了直接比较规整后的区间外，还需要把其中一个区间平移 24 小时再比较一次，
// 否则 22:00~06:00 和同一天的 05:00~07:00 这种跨午夜的冲突会被漏掉
func windowsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	a := windowInterval(aStart, aEnd)
	b := windowInterval(bStart, bEnd)

	if intervalsOverlap(a, b) {
		return true
	}
	if intervalsOverlap(interval{start: a.start + minutesPerDay, end: a.end + minutesPerDay}, b) {
		return true
	}
	if intervalsOverlap(a, interval{start: b.start + minutesPerDay, end: b.end + minutesPerDay}) {
		return true
	}

	return false
}

// windowContains 判断外层窗口是否完整包含内层窗口
func windowContains(outerStart, outerEnd, innerStart, innerEnd string) bool {
	outer := windowInterval(outerStart, outerEnd)
	inner := windowInterval(innerStart, innerEnd)

	if outer.start <= inner.start && inner.end <= outer.end {
		return true
	}

	// 内层窗口可能整体落在外层窗口跨午夜的部分
	shifted := interval{start: inner.start + minutesPerDay, end: inner.end + minutesPerDay}
	return outer.start <= shifted.start && shifted.end <= outer.end
}

// isoWeekday 返回 ISO 星期（1 为周一，7 为周日）
func isoWeekday(date time.Time) int32 {
	wd := int32(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func isWeekend(date time.Time) bool {
	wd := isoWeekday(date)
	return wd == 6 || wd == 7
}

// weekKey 返回日期所在 ISO 周（周一至周日）的唯一键
func weekKey(date time.Time) int {
	year, week := date.ISOWeek()
	return year*100 + week
}

func dateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

// dateWithin 判断日期是否落在 [start, end] 闭区间内（只比较日期部分）
func dateWithin(date, start, end time.Time) bool {
	d := dateKey(date)
	return dateKey(start) <= d && d <= dateKey(end)
}

// absRange 返回某个日期上的班次对应的绝对分钟区间（以 Unix 纪元为原点）
// 用于跨日期比较排班之间的重叠与间隔
func absRange(date time.Time, start string, end string) interval {
	s, _ := parseClock(start)
	days := int32(date.Unix() / 86400)
	absStart := days*minutesPerDay + s
	return interval{start: absStart, end: absStart + DurationMinutes(start, end)}
}
