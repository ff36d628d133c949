package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

func ValidateClockString(value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return fmt.Errorf("时间 %s 的格式错误，应为 HH:MM", value)
	}
	return nil
}

// ValidateExceptionWindow 检查覆盖规则按种类必须携带的字段
// CLOSE_DAY 不需要时间窗口；REPLACE_DAY 和 ADD_SHIFT 必须给出完整班次；
// MASK_SHIFT 的时间窗口可以为空（表示按岗位类型屏蔽）
func ValidateExceptionWindow(kind string, startTime string, endTime string, headcount int32) error {
	switch kind {
	case "CLOSE_DAY":
		return nil
	case "REPLACE_DAY", "ADD_SHIFT":
		if startTime == "" || endTime == "" {
			return fmt.Errorf("%s 类型的覆盖规则必须给出班次时间窗口", kind)
		}
		if headcount < 1 {
			return fmt.Errorf("%s 类型的覆盖规则的需求人数必须大于 0", kind)
		}
	case "MASK_SHIFT":
		if (startTime == "") != (endTime == "") {
			return errors.New("MASK_SHIFT 类型的覆盖规则的时间窗口必须同时给出或同时为空")
		}
	}

	if startTime != "" {
		if err := ValidateClockString(startTime); err != nil {
			return err
		}
	}
	if endTime != "" {
		if err := ValidateClockString(endTime); err != nil {
			return err
		}
	}

	return nil
}

// ParseDateRangeQuery 解析 from/to 查询参数，缺省时取当前月份
func ParseDateRangeQuery(fromParam string, toParam string) (time.Time, time.Time, error) {
	if fromParam == "" && toParam == "" {
		now := time.Now().UTC()
		from, to := MonthDateRange(int32(now.Year()), int32(now.Month()))
		return from, to, nil
	}

	from, err := time.Parse("2006-01-02", fromParam)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("开始日期 %s 的格式错误，应为 YYYY-MM-DD", fromParam)
	}
	to, err := time.Parse("2006-01-02", toParam)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("结束日期 %s 的格式错误，应为 YYYY-MM-DD", toParam)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("结束日期不能早于开始日期")
	}

	return from, to, nil
}

// MonthDateRange 返回某个月份的第一天和最后一天
func MonthDateRange(year int32, month int32) (time.Time, time.Time) {
	from := time.Date(int(year), time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to
}

func FormatWeekday(weekday int32) string {
	return strconv.FormatInt(int64(weekday), 10)
}
