package domain

import "time"

// 合同类型
const (
	ContractFullTime  = "FULL_TIME"
	ContractPartTime  = "PART_TIME"
	ContractTemporary = "TEMPORARY"
)

type Employee struct {
	ID                  int64     `json:"id"`
	CompanyID           int64     `json:"companyID"`
	SiteID              int64     `json:"siteID"`
	FullName            string    `json:"fullName"`
	Email               string    `json:"email"`
	AgentTypes          []string  `json:"agentTypes"`
	Skills              []string  `json:"skills"`
	ExperienceYears     int32     `json:"experienceYears"`
	ContractType        string    `json:"contractType"`
	ContractWeeklyHours int32     `json:"contractWeeklyHours"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           time.Time `json:"createdAt"`
	Version             int32     `json:"-"`
}

// EmployeeAvailability 表示员工每周固定的可用时间窗口
// Weekday 的取值范围为 1~7（1 为周一）
type EmployeeAvailability struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employeeID"`
	Weekday    int32  `json:"weekday"`
	StartTime  string `json:"startTime"` // HH:MM
	EndTime    string `json:"endTime"`   // HH:MM
}

// EmployeePreference 中的小时数字段取 0 表示不设限制
type EmployeePreference struct {
	EmployeeID          int64 `json:"employeeID"`
	CanWorkWeekdays     bool  `json:"canWorkWeekdays"`
	CanWorkWeekends     bool  `json:"canWorkWeekends"`
	CanWorkDays         bool  `json:"canWorkDays"`
	CanWorkNights       bool  `json:"canWorkNights"`
	NoPreference        bool  `json:"noPreference"`
	MinHoursPerDay      int32 `json:"minHoursPerDay"`
	MaxHoursPerDay      int32 `json:"maxHoursPerDay"`
	MinHoursPerWeek     int32 `json:"minHoursPerWeek"`
	MaxHoursPerWeek     int32 `json:"maxHoursPerWeek"`
	PreferredWorkStreak int32 `json:"preferredWorkStreak"`
	MinRestStreak       int32 `json:"minRestStreak"`
	Version             int32 `json:"-"`
}

type Absence struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeID"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	Reason     string    `json:"reason"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"createdAt"`
	Version    int32     `json:"-"`
}

// ContractHourRequirement 表示某公司某合同类型每月最少需要工作的小时数
// 注意全职的最低小时数为法定值，不允许编辑
type ContractHourRequirement struct {
	ID              int64   `json:"id"`
	CompanyID       int64   `json:"companyID"`
	ContractType    string  `json:"contractType"`
	MinMonthlyHours float64 `json:"minMonthlyHours"`
	Version         int32   `json:"-"`
}
