package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/guardia-dev/roster-manager/backend/internal/config"
	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/guardia-dev/roster-manager/backend/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.myInfo)

		r.Route("/my-info", func(r chi.Router) {
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUsers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteUser)
			})
		})

		r.Route("/sites", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateSite)
			r.Get("/", h.GetAllSites)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.siteCtx)
				r.Get("/", h.GetSite)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateSite)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteSite)

				r.Route("/weekly-rules", func(r chi.Router) {
					r.Get("/", h.GetWeeklyRules)
					r.Put("/", h.UpsertWeeklyRule)
					r.Delete("/{weekday}", h.DeleteWeeklyRule)
				})

				r.Route("/date-exceptions", func(r chi.Router) {
					r.Get("/", h.GetDateExceptions)
					r.Post("/", h.CreateDateException)
				})

				r.Route("/schedules", func(r chi.Router) {
					r.Get("/", h.GetSchedulesBySite)
					r.Post("/", h.CreateSchedule)
				})
			})
		})

		r.Route("/date-exceptions/{id}", func(r chi.Router) {
			r.Use(h.dateExceptionCtx)
			r.Patch("/", h.UpdateDateException)
			r.Delete("/", h.DeleteDateException)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Post("/", h.CreateEmployee)
			r.Get("/", h.GetAllEmployees)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.employeeCtx)
				r.Get("/", h.GetEmployee)
				r.Patch("/", h.UpdateEmployee)
				r.Delete("/", h.DeleteEmployee)

				r.Route("/preference", func(r chi.Router) {
					r.Get("/", h.GetEmployeePreference)
					r.Put("/", h.UpsertEmployeePreference)
				})

				r.Route("/availability", func(r chi.Router) {
					r.Get("/", h.GetEmployeeAvailability)
					r.Put("/", h.ReplaceEmployeeAvailability)
				})

				r.Route("/absences", func(r chi.Router) {
					r.Get("/", h.GetEmployeeAbsences)
					r.Post("/", h.CreateAbsence)
				})
			})
		})

		r.Route("/absences/{id}", func(r chi.Router) {
			r.Use(h.absenceCtx)
			r.Patch("/", h.UpdateAbsence)
			r.Delete("/", h.DeleteAbsence)
		})

		r.Route("/contract-requirements", func(r chi.Router) {
			r.Get("/", h.GetContractRequirements)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Put("/", h.UpsertContractRequirement)
		})

		r.Route("/schedules/{id}", func(r chi.Router) {
			r.Use(h.scheduleCtx)
			r.Get("/", h.GetSchedule)
			r.Delete("/", h.DeleteSchedule)
			r.Post("/generate", h.GenerateSchedule)
			r.Patch("/flags", h.UpdateScheduleFlags)
			r.Get("/compliance", h.GetScheduleCompliance)
			r.Post("/assignments", h.CreateAssignment)
		})

		r.Route("/assignments/{id}", func(r chi.Router) {
			r.Use(h.assignmentCtx)
			r.Patch("/", h.UpdateAssignment)
			r.Delete("/", h.DeleteAssignment)
		})
	})
}
