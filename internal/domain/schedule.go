package domain

import "time"

type Schedule struct {
	ID                   int64     `json:"id"`
	SiteID               int64     `json:"siteID"`
	Month                int32     `json:"month"`
	Year                 int32     `json:"year"`
	Published            bool      `json:"published"`
	Validated            bool      `json:"validated"`
	Sent                 bool      `json:"sent"`
	CompletionPercentage int32     `json:"completionPercentage"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
	Version              int32     `json:"-"`
}

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "PENDING"
	AssignmentConfirmed AssignmentStatus = "CONFIRMED"
	AssignmentDeclined  AssignmentStatus = "DECLINED"
	AssignmentAssigned  AssignmentStatus = "ASSIGNED"
)

type Assignment struct {
	ID              int64            `json:"id"`
	ScheduleID      int64            `json:"scheduleID"`
	EmployeeID      int64            `json:"employeeID"`
	SiteID          int64            `json:"siteID"` // 默认为班表所属站点，可被覆盖
	Date            time.Time        `json:"date"`
	StartTime       string           `json:"startTime"` // HH:MM
	EndTime         string           `json:"endTime"`   // HH:MM
	DurationMinutes int32            `json:"durationMinutes"`
	AgentType       string           `json:"agentType"`
	Label           string           `json:"label"`
	Notes           string           `json:"notes"`
	Status          AssignmentStatus `json:"status"`
	CreatedAt       time.Time        `json:"createdAt"`
	Version         int32            `json:"-"`
}
