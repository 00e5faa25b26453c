package routes

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	"github.com/BruksfildServices01/service-scheduler/internal/config"
	domainQueue "github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/service-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/service-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/service-scheduler/internal/usecase/appointment"
	ucAvailability "github.com/BruksfildServices01/service-scheduler/internal/usecase/availability"
	ucQueue "github.com/BruksfildServices01/service-scheduler/internal/usecase/queue"
)

// Deps are the process-wide singletons built in main.
type Deps struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Config  *config.Config
	Log     *slog.Logger
	Audit   audit.Recorder
	Counter domainQueue.Counter
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestLogger(d.Log),
		middleware.CORSMiddleware(),
		middleware.Timeout(cfg.RequestTimeout),
	)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	availabilityRepo := infraRepo.NewAvailabilityGormRepository(d.DB)
	holidayRepo := infraRepo.NewHolidayGormRepository(d.DB)
	directoryRepo := infraRepo.NewDirectoryGormRepository(d.DB)
	ticketRepo := infraRepo.NewTicketGormRepository(d.DB)
	deskRepo := infraRepo.NewDeskGormRepository(d.DB)

	clock := ucQueue.NewClock(cfg.OperationalTZ)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	validator := ucAppointment.NewValidator(
		appointmentRepo,
		availabilityRepo,
		holidayRepo,
		directoryRepo,
		ucAppointment.ValidatorOptions{
			OperationalTZ:                cfg.OperationalTZ,
			AllowTimeWithoutAvailability: cfg.AllowTimeWithoutAvailability,
			Now:                          time.Now,
		},
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		ucAppointment.NewCreateAppointment(validator, appointmentRepo, d.Audit, d.Log),
		ucAppointment.NewUpdateAppointment(validator, appointmentRepo, d.Audit),
		ucAppointment.NewUpdateAppointmentStatus(appointmentRepo, d.Audit, time.Now),
		ucAppointment.NewCancelAppointment(appointmentRepo, d.Audit, time.Now),
		ucAppointment.NewGetAppointment(appointmentRepo, directoryRepo),
		ucAppointment.NewListAppointments(appointmentRepo, directoryRepo),
		d.Log,
	)

	// ======================================================
	// USE CASES: AVAILABILITY
	// ======================================================
	availabilityHandler := handlers.NewAvailabilityHandler(
		ucAvailability.NewGetAvailability(availabilityRepo),
		ucAvailability.NewUpsertAvailability(availabilityRepo, directoryRepo, d.Audit, d.Log),
		ucAvailability.NewGetAvailableSlots(availabilityRepo, appointmentRepo, holidayRepo, time.Now),
		d.Log,
	)

	// ======================================================
	// USE CASES: QUEUE
	// ======================================================
	queueHandler := handlers.NewQueueHandler(handlers.QueueHandlerDeps{
		CreateTicket: ucQueue.NewCreateTicket(ticketRepo, d.Counter, directoryRepo, appointmentRepo, clock, d.Log),
		ListTickets:  ucQueue.NewListTickets(ticketRepo, clock),
		ByCode:       ucQueue.NewGetTicketByCode(ticketRepo, clock),
		Action:       ucQueue.NewTicketAction(ticketRepo, deskRepo, clock, d.Log),
		AssignDesk:   ucQueue.NewAssignDesk(deskRepo, clock, d.Log),
		ReleaseDesk:  ucQueue.NewReleaseDesk(deskRepo, clock),
		ListDesks:    ucQueue.NewListDesks(deskRepo),
	}, d.Log)

	// ======================================================
	// HANDLERS
	// ======================================================
	meHandler := handlers.NewMeHandler(deskRepo, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(audit.New(d.DB), cfg.OperationalTZ, d.Log)
	healthHandler := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := d.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return d.Redis.Ping(ctx).Err()
		},
	})

	r.GET("/health", healthHandler.Health)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// QUIOSQUE (público)
		// ------------------------------
		kiosk := api.Group("/queue/tickets")
		{
			kiosk.POST("", queueHandler.CreateTicket)
			kiosk.GET("/:code", queueHandler.GetByCode)
		}

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			secured.GET("/me", meHandler.GetMe)

			// APPOINTMENTS
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

			// AVAILABILITY
			secured.GET("/professionals/:id/availability/:serviceId", availabilityHandler.Get)
			secured.PUT("/professionals/:id/availability", availabilityHandler.Upsert)
			secured.GET("/professionals/:id/slots", availabilityHandler.Slots)

			// QUEUE
			secured.GET("/queue/tickets", queueHandler.ListTickets)
			secured.PATCH("/queue/tickets/:id/call", queueHandler.Action(domainQueue.ActionCall))
			secured.PATCH("/queue/tickets/:id/serve", queueHandler.Action(domainQueue.ActionServe))
			secured.PATCH("/queue/tickets/:id/done", queueHandler.Action(domainQueue.ActionDone))
			secured.PATCH("/queue/tickets/:id/cancel", queueHandler.Action(domainQueue.ActionCancel))
			secured.PATCH("/queue/tickets/:id/no-show", queueHandler.Action(domainQueue.ActionNoShow))

			secured.PUT("/queue/desks", queueHandler.AssignDesk)
			secured.DELETE("/queue/desks/:locationId/:deskId", queueHandler.ReleaseDesk)
			secured.GET("/queue/desks", queueHandler.ListDesks)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
