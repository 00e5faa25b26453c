package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/dto"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/service-scheduler/internal/usecase/appointment"
)

// ======================================================
// USE CASE PORTS
// ======================================================

type appointmentCreator interface {
	Execute(ctx context.Context, in ucAppointment.CreateAppointmentInput) (*models.Appointment, error)
}

type appointmentUpdater interface {
	Execute(ctx context.Context, in ucAppointment.UpdateAppointmentInput) (*models.Appointment, error)
}

type appointmentStatusChanger interface {
	Execute(ctx context.Context, actorID, id uint, to domain.Status) (*models.Appointment, error)
}

type appointmentCanceller interface {
	Execute(ctx context.Context, actorID, id uint, reason string) (*models.Appointment, error)
}

type appointmentGetter interface {
	Execute(ctx context.Context, id uint) (*dto.AppointmentDTO, error)
}

type appointmentLister interface {
	Execute(ctx context.Context, in ucAppointment.ListAppointmentsInput) (*dto.AppointmentPageDTO, error)
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create appointmentCreator
	update appointmentUpdater
	status appointmentStatusChanger
	cancel appointmentCanceller
	get    appointmentGetter
	list   appointmentLister
	log    *slog.Logger
}

func NewAppointmentHandler(
	create appointmentCreator,
	update appointmentUpdater,
	status appointmentStatusChanger,
	cancel appointmentCanceller,
	get appointmentGetter,
	list appointmentLister,
	log *slog.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		create: create,
		update: update,
		status: status,
		cancel: cancel,
		get:    get,
		list:   list,
		log:    log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID       uint      `json:"client_id" binding:"required"`
	ProfessionalID uint      `json:"professional_id" binding:"required"`
	ServiceID      uint      `json:"service_id" binding:"required"`
	StartAt        time.Time `json:"start_at" binding:"required"`
	Notes          string    `json:"notes"`
}

type UpdateAppointmentRequest struct {
	StartAt        *time.Time `json:"start_at"`
	ProfessionalID *uint      `json:"professional_id"`
	ServiceID      *uint      `json:"service_id"`
	Notes          *string    `json:"notes"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		ActorID:        middleware.UserID(c),
		ClientID:       req.ClientID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		StartAt:        req.StartAt,
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST / GET
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	professionalID, ok := queryID(c, "professional_id")
	if !ok {
		return
	}
	clientID, ok := queryID(c, "client_id")
	if !ok {
		return
	}
	serviceID, ok := queryID(c, "service_id")
	if !ok {
		return
	}
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	page, err := h.list.Execute(c.Request.Context(), ucAppointment.ListAppointmentsInput{
		ProfessionalID: professionalID,
		ClientID:       clientID,
		ServiceID:      serviceID,
		Status:         c.Query("status"),
		From:           from,
		To:             to,
		Page:           queryInt(c, "page", 1),
		PageSize:       queryInt(c, "page_size", 50),
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, page)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		ActorID:        middleware.UserID(c),
		ID:             id,
		StartAt:        req.StartAt,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	ap, err := h.status.Execute(c.Request.Context(), middleware.UserID(c), id, domain.Status(req.Status))
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	// corpo opcional
	var req CancelAppointmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c)
			return
		}
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.UserID(c), id, req.Reason)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}
