package handler

type ContextKey string

var (
	RoleCtxKey       ContextKey = "role"
	SubCtxKey        ContextKey = "sub"
	MyInfoCtx        ContextKey = "myInfo"
	UserInfoCtx      ContextKey = "userInfo"
	SiteCtx          ContextKey = "site"
	EmployeeCtx      ContextKey = "employee"
	ScheduleCtx      ContextKey = "schedule"
	AssignmentCtx    ContextKey = "assignment"
	DateExceptionCtx ContextKey = "dateException"
	AbsenceCtx       ContextKey = "absence"
)
