package roster

import (
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
)

// ShiftSpec: 某一天需要被排上的一个班次
type ShiftSpec struct {
	AgentType          string   `json:"agentType"`
	StartTime          string   `json:"startTime"` // HH:MM
	EndTime            string   `json:"endTime"`   // HH:MM
	Headcount          int32    `json:"headcount"`
	MinExperienceYears int32    `json:"minExperienceYears"`
	RequiredSkills     []string `json:"requiredSkills"`
	Label              string   `json:"label"`
}

// Candidate 把资格检查需要的员工数据打包在一起，由调用方预先加载
type Candidate struct {
	Employee     *domain.Employee
	Availability []*domain.EmployeeAvailability
	Preference   *domain.EmployeePreference // 可以为 nil
	Absences     []*domain.Absence
}

// DayBand 定义白班的时间范围，完整落在该范围内的班次视为白班，否则视为夜班
type DayBand struct {
	Start string // HH:MM
	End   string // HH:MM
}

// Shortage 记录某个班次没有排满的情况
type Shortage struct {
	Date      time.Time `json:"date"`
	AgentType string    `json:"agentType"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Missing   int32     `json:"missing"`
}

// Result 为一次生成运行的产出
type Result struct {
	Assignments []*domain.Assignment `json:"assignments"`
	Shortages   []Shortage           `json:"shortages"`
}
