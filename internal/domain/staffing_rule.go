package domain

import "time"

// RequirementLine 表示某一天需要被排上的一条人力需求
type RequirementLine struct {
	ID        int64  `json:"id"`
	AgentType string `json:"agentType"`
	StartTime string `json:"startTime"` // HH:MM
	EndTime   string `json:"endTime"`   // HH:MM
	Headcount int32  `json:"headcount"`
	Notes     string `json:"notes"`
}

// WeeklyStaffingRule 表示站点在某个星期几的基础人力需求
// Weekday 的取值范围为 1~7（1 为周一）
type WeeklyStaffingRule struct {
	ID        int64             `json:"id"`
	SiteID    int64             `json:"siteID"`
	Weekday   int32             `json:"weekday"`
	Lines     []RequirementLine `json:"lines"`
	CreatedAt time.Time         `json:"createdAt"`
	Version   int32             `json:"-"`
}

type ExceptionKind string

const (
	ExceptionCloseDay   ExceptionKind = "CLOSE_DAY"
	ExceptionReplaceDay ExceptionKind = "REPLACE_DAY"
	ExceptionAddShift   ExceptionKind = "ADD_SHIFT"
	ExceptionMaskShift  ExceptionKind = "MASK_SHIFT"
)

// DateException 表示站点在某段日期内对基础人力需求的覆盖
// Weekdays 为空表示区间内每天都生效；AgentType 为空表示不按岗位类型过滤；
// StartTime/EndTime 为空表示没有时间窗口
type DateException struct {
	ID                 int64         `json:"id"`
	SiteID             int64         `json:"siteID"`
	Kind               ExceptionKind `json:"kind"`
	StartDate          time.Time     `json:"startDate"`
	EndDate            time.Time     `json:"endDate"`
	Weekdays           []int32       `json:"weekdays"`
	AgentType          string        `json:"agentType"`
	StartTime          string        `json:"startTime"`
	EndTime            string        `json:"endTime"`
	Headcount          int32         `json:"headcount"`
	MinExperienceYears int32         `json:"minExperienceYears"`
	RequiredSkills     []string      `json:"requiredSkills"`
	Notes              string        `json:"notes"`
	CreatedAt          time.Time     `json:"createdAt"`
	Version            int32         `json:"-"`
}
