package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationMinutes(t *testing.T) {
	tests := map[string]struct {
		start    string
		end      string
		expected int32
	}{
		"普通白班":  {start: "08:00", end: "16:00", expected: 480},
		"跨午夜班次": {start: "23:00", end: "01:00", expected: 120},
		"整夜班次":  {start: "22:00", end: "06:00", expected: 480},
		"首尾相同":  {start: "08:00", end: "08:00", expected: 1440},
		"一分钟":   {start: "08:00", end: "08:01", expected: 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DurationMinutes(tt.start, tt.end))
		})
	}
}

func TestWindowsOverlap(t *testing.T) {
	tests := map[string]struct {
		aStart, aEnd string
		bStart, bEnd string
		expected     bool
	}{
		"完全分离":        {aStart: "08:00", aEnd: "12:00", bStart: "14:00", bEnd: "18:00", expected: false},
		"部分重叠":        {aStart: "08:00", aEnd: "12:00", bStart: "11:00", bEnd: "14:00", expected: true},
		"首尾相接不算重叠":    {aStart: "08:00", aEnd: "12:00", bStart: "12:00", bEnd: "16:00", expected: false},
		"跨午夜与次日清晨":    {aStart: "22:00", aEnd: "06:00", bStart: "05:00", bEnd: "07:00", expected: true},
		"跨午夜与白天不重叠":   {aStart: "22:00", aEnd: "06:00", bStart: "08:00", bEnd: "16:00", expected: false},
		"两个跨午夜班次":     {aStart: "22:00", aEnd: "06:00", bStart: "23:00", bEnd: "01:00", expected: true},
		"跨午夜与深夜开始的班次": {aStart: "23:00", aEnd: "02:00", bStart: "01:00", bEnd: "03:00", expected: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, windowsOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// 重叠判断应该是对称的
			assert.Equal(t, tt.expected, windowsOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestWindowContains(t *testing.T) {
	tests := map[string]struct {
		outerStart, outerEnd string
		innerStart, innerEnd string
		expected             bool
	}{
		"完整包含":       {outerStart: "08:00", outerEnd: "20:00", innerStart: "09:00", innerEnd: "17:00", expected: true},
		"边界重合":       {outerStart: "08:00", outerEnd: "20:00", innerStart: "08:00", innerEnd: "20:00", expected: true},
		"超出右边界":      {outerStart: "08:00", outerEnd: "20:00", innerStart: "12:00", innerEnd: "21:00", expected: false},
		"跨午夜窗口包含深夜班": {outerStart: "22:00", outerEnd: "06:00", innerStart: "23:00", innerEnd: "01:00", expected: true},
		"跨午夜窗口包含凌晨班": {outerStart: "22:00", outerEnd: "06:00", innerStart: "02:00", innerEnd: "05:00", expected: true},
		"白天窗口不含跨午夜班": {outerStart: "00:00", outerEnd: "23:59", innerStart: "22:00", innerEnd: "06:00", expected: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, windowContains(tt.outerStart, tt.outerEnd, tt.innerStart, tt.innerEnd))
		})
	}
}

func TestIsoWeekday(t *testing.T) {
	// 2025-01-06 是周一，2025-01-12 是周日
	assert.Equal(t, int32(1), isoWeekday(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int32(7), isoWeekday(time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)))

	assert.False(t, isWeekend(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, isWeekend(time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)))
}

func TestWeekKeyMondayBoundary(t *testing.T) {
	sunday := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	assert.NotEqual(t, weekKey(sunday), weekKey(monday))
	assert.Equal(t, weekKey(sunday), weekKey(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)))
}
