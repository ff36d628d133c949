package roster

import (
	"testing"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manualCheck() *ManualAssignmentCheck {
	return &ManualAssignmentCheck{
		Assignment: &domain.Assignment{
			EmployeeID: 42,
			Date:       monday,
			StartTime:  "08:00",
			EndTime:    "16:00",
		},
		Employee:          &domain.Employee{ID: 42, SiteID: 1, AgentTypes: []string{"保安员"}},
		Site:              &domain.Site{ID: 1, CompanyID: 100},
		ScheduleCompanyID: 100,
		MinRestHours:      12,
	}
}

func assertConflict(t *testing.T, err error, reason string) {
	t.Helper()
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, reason, conflictErr.Reason)
}

func TestValidateManualAssignmentOK(t *testing.T) {
	chk := manualCheck()

	require.NoError(t, ValidateManualAssignment(chk))
	assert.Equal(t, int32(480), chk.Assignment.DurationMinutes)
}

func TestValidateManualAssignmentRecomputesMidnightDuration(t *testing.T) {
	chk := manualCheck()
	chk.Assignment.StartTime = "23:00"
	chk.Assignment.EndTime = "01:00"

	require.NoError(t, ValidateManualAssignment(chk))
	assert.Equal(t, int32(120), chk.Assignment.DurationMinutes)
}

func TestValidateManualAssignmentEmployeeNotInSitePool(t *testing.T) {
	chk := manualCheck()
	chk.Employee.SiteID = 2

	assertConflict(t, ValidateManualAssignment(chk), "该员工不属于目标站点的员工池")
}

func TestValidateManualAssignmentSiteCompanyMismatch(t *testing.T) {
	chk := manualCheck()
	chk.ScheduleCompanyID = 200

	assertConflict(t, ValidateManualAssignment(chk), "站点与班表不属于同一家公司")
}

func TestValidateManualAssignmentApprovedAbsence(t *testing.T) {
	chk := manualCheck()
	chk.Absences = []*domain.Absence{
		{EmployeeID: 42, StartDate: monday.AddDate(0, 0, -1), EndDate: monday.AddDate(0, 0, 1), Approved: true},
	}

	assertConflict(t, ValidateManualAssignment(chk), "该员工当天有已批准的请假")

	chk.Absences[0].Approved = false
	assert.NoError(t, ValidateManualAssignment(chk))
}

func TestValidateManualAssignmentWeekendPreference(t *testing.T) {
	chk := manualCheck()
	chk.Assignment.Date = date(2025, time.January, 11) // 周六
	chk.Preference = &domain.EmployeePreference{CanWorkWeekdays: true, CanWorkDays: true}

	assertConflict(t, ValidateManualAssignment(chk), "该员工不接受周末排班")
}

func TestValidateManualAssignmentNightPreference(t *testing.T) {
	tests := map[string]struct {
		start    string
		end      string
		rejected bool
	}{
		"21 点开始算夜班":      {start: "21:00", end: "23:00", rejected: true},
		"20:59 前开始不算夜班":  {start: "20:00", end: "22:00", rejected: false},
		"05:00 结束算夜班":    {start: "01:00", end: "05:00", rejected: true},
		"05:01 之后结束不算夜班": {start: "01:00", end: "05:30", rejected: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			chk := manualCheck()
			chk.Assignment.StartTime = tt.start
			chk.Assignment.EndTime = tt.end
			chk.Preference = &domain.EmployeePreference{CanWorkWeekdays: true, CanWorkWeekends: true, CanWorkDays: true}

			err := ValidateManualAssignment(chk)
			if tt.rejected {
				assertConflict(t, err, "该员工不接受夜班排班")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateManualAssignmentOverlapAcrossSchedules(t *testing.T) {
	chk := manualCheck()
	// 历史排班来自另一个班表也必须参与冲突检查
	chk.History = []*domain.Assignment{
		{ScheduleID: 99, EmployeeID: 42, Date: monday, StartTime: "12:00", EndTime: "20:00"},
	}

	assertConflict(t, ValidateManualAssignment(chk), "与该员工已有的排班时间重叠")
}

func TestValidateManualAssignmentMidnightOverlap(t *testing.T) {
	chk := manualCheck()
	chk.Assignment.StartTime = "05:00"
	chk.Assignment.EndTime = "07:00"
	chk.History = []*domain.Assignment{
		{EmployeeID: 42, Date: monday, StartTime: "22:00", EndTime: "06:00"},
	}

	assertConflict(t, ValidateManualAssignment(chk), "与该员工已有的排班时间重叠")
}

func TestValidateManualAssignmentMinimumRest(t *testing.T) {
	tests := map[string]struct {
		start    string
		rejected bool
	}{
		// 前一天的班次 08:00~20:00 结束于 20:00
		"间隔 12 小时零 1 分钟": {start: "08:01", rejected: false},
		"间隔恰好 12 小时":     {start: "08:00", rejected: false},
		"间隔 11 小时 59 分钟":  {start: "07:59", rejected: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			chk := manualCheck()
			chk.Assignment.Date = monday.AddDate(0, 0, 1)
			chk.Assignment.StartTime = tt.start
			chk.Assignment.EndTime = "16:00"
			chk.History = []*domain.Assignment{
				{EmployeeID: 42, Date: monday, StartTime: "08:00", EndTime: "20:00"},
			}

			err := ValidateManualAssignment(chk)
			if tt.rejected {
				assertConflict(t, err, "与相邻排班的间隔不足 12 小时")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateManualAssignmentRestBeforeExistingShift(t *testing.T) {
	chk := manualCheck()
	// 新班次在已有班次之前结束，间隔同样不能少于 12 小时
	chk.Assignment.Date = monday
	chk.Assignment.StartTime = "06:00"
	chk.Assignment.EndTime = "14:00"
	chk.History = []*domain.Assignment{
		{EmployeeID: 42, Date: monday.AddDate(0, 0, 1), StartTime: "01:00", EndTime: "09:00"},
	}

	assertConflict(t, ValidateManualAssignment(chk), "与相邻排班的间隔不足 12 小时")
}
