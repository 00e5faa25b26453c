package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	ucAvailability "github.com/BruksfildServices01/service-scheduler/internal/usecase/availability"
)

type availabilityGetter interface {
	Execute(ctx context.Context, professionalID, serviceID uint) (*models.Availability, error)
}

type availabilityUpserter interface {
	Execute(ctx context.Context, in ucAvailability.UpsertAvailabilityInput) (*models.Availability, error)
}

type slotsFinder interface {
	Execute(ctx context.Context, in ucAvailability.GetAvailableSlotsInput) ([]domain.Slot, error)
}

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	get    availabilityGetter
	upsert availabilityUpserter
	slots  slotsFinder
	log    *slog.Logger
}

func NewAvailabilityHandler(
	get availabilityGetter,
	upsert availabilityUpserter,
	slots slotsFinder,
	log *slog.Logger,
) *AvailabilityHandler {
	return &AvailabilityHandler{get: get, upsert: upsert, slots: slots, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type UpsertAvailabilityRequest struct {
	ServiceID   uint                   `json:"service_id" binding:"required"`
	Timezone    string                 `json:"timezone" binding:"required"`
	Weekly      []models.WeeklyDay     `json:"weekly"`
	Exceptions  []models.DateException `json:"exceptions"`
	BufferMin   int                    `json:"buffer_min" binding:"min=0"`
	DurationMin int                    `json:"duration_min" binding:"required,min=1"`
	Price       *float64               `json:"price"`
}

// ======================================================
// ENDPOINTS
// ======================================================

func (h *AvailabilityHandler) Get(c *gin.Context) {
	professionalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	serviceID, ok := pathID(c, "serviceId")
	if !ok {
		return
	}

	av, err := h.get.Execute(c.Request.Context(), professionalID, serviceID)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, av)
}

func (h *AvailabilityHandler) Upsert(c *gin.Context) {
	professionalID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpsertAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	av, err := h.upsert.Execute(c.Request.Context(), ucAvailability.UpsertAvailabilityInput{
		ActorID:        middleware.UserID(c),
		ProfessionalID: professionalID,
		ServiceID:      req.ServiceID,
		Timezone:       req.Timezone,
		Weekly:         req.Weekly,
		Exceptions:     req.Exceptions,
		BufferMin:      req.BufferMin,
		DurationMin:    req.DurationMin,
		Price:          req.Price,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, av)
}

// Slots answers GET /professionals/:id/slots?service_id&date_from&date_to.
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	professionalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	serviceID, ok := queryID(c, "service_id")
	if !ok {
		return
	}
	if serviceID == 0 {
		httperr.BadRequest(c, "invalid_service_id", "service_id é obrigatório.")
		return
	}

	slots, err := h.slots.Execute(c.Request.Context(), ucAvailability.GetAvailableSlotsInput{
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		DateFrom:       c.Query("date_from"),
		DateTo:         c.Query("date_to"),
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.List(c, slots)
}
