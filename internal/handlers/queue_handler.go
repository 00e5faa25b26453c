package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	ucQueue "github.com/BruksfildServices01/service-scheduler/internal/usecase/queue"
)

// ======================================================
// USE CASE PORTS
// ======================================================

type ticketCreator interface {
	Execute(ctx context.Context, in ucQueue.CreateTicketInput) (*models.QueueTicket, error)
}

type ticketLister interface {
	Execute(ctx context.Context, in ucQueue.ListTicketsInput) ([]models.QueueTicket, error)
}

type ticketByCode interface {
	Execute(ctx context.Context, locationID uint, code, date string) (*models.QueueTicket, error)
}

type ticketActor interface {
	Execute(ctx context.Context, in ucQueue.TicketActionInput) (*models.QueueTicket, error)
}

type deskAssigner interface {
	Execute(ctx context.Context, in ucQueue.AssignDeskInput) (*models.DeskAssignment, error)
}

type deskReleaser interface {
	Execute(ctx context.Context, locationID, deskID uint) (*models.DeskAssignment, error)
}

type deskLister interface {
	Execute(ctx context.Context, locationID uint, activeOnly bool) ([]models.DeskAssignment, error)
}

// ======================================================
// HANDLER
// ======================================================

type QueueHandler struct {
	createTicket ticketCreator
	listTickets  ticketLister
	byCode       ticketByCode
	action       ticketActor
	assignDesk   deskAssigner
	releaseDesk  deskReleaser
	listDesks    deskLister
	log          *slog.Logger
}

type QueueHandlerDeps struct {
	CreateTicket ticketCreator
	ListTickets  ticketLister
	ByCode       ticketByCode
	Action       ticketActor
	AssignDesk   deskAssigner
	ReleaseDesk  deskReleaser
	ListDesks    deskLister
}

func NewQueueHandler(deps QueueHandlerDeps, log *slog.Logger) *QueueHandler {
	return &QueueHandler{
		createTicket: deps.CreateTicket,
		listTickets:  deps.ListTickets,
		byCode:       deps.ByCode,
		action:       deps.Action,
		assignDesk:   deps.AssignDesk,
		releaseDesk:  deps.ReleaseDesk,
		listDesks:    deps.ListDesks,
		log:          log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateTicketRequest struct {
	DNI        string `json:"dni" binding:"required"`
	LocationID uint   `json:"location_id" binding:"required"`
}

type TicketActionRequest struct {
	DeskID uint `json:"desk_id"`
}

type AssignDeskRequest struct {
	LocationID uint `json:"location_id" binding:"required"`
	DeskID     uint `json:"desk_id" binding:"required"`
}

// ======================================================
// TICKETS
// ======================================================

// CreateTicket is the kiosk entry point: a document number in, a printed
// code out.
func (h *QueueHandler) CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	t, err := h.createTicket.Execute(c.Request.Context(), ucQueue.CreateTicketInput{
		DNI:        req.DNI,
		LocationID: req.LocationID,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.Created(c, t)
}

func (h *QueueHandler) ListTickets(c *gin.Context) {
	locationID, ok := queryID(c, "location_id")
	if !ok {
		return
	}
	deskID, ok := queryID(c, "desk_id")
	if !ok {
		return
	}

	list, err := h.listTickets.Execute(c.Request.Context(), ucQueue.ListTicketsInput{
		LocationID: locationID,
		Date:       c.Query("date"),
		Status:     c.Query("status"),
		Type:       c.Query("type"),
		DeskID:     deskID,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.List(c, list)
}

func (h *QueueHandler) GetByCode(c *gin.Context) {
	locationID, ok := queryID(c, "location_id")
	if !ok {
		return
	}
	if locationID == 0 {
		httperr.BadRequest(c, "invalid_location", "location_id é obrigatório.")
		return
	}

	t, err := h.byCode.Execute(c.Request.Context(), locationID, c.Param("code"), c.Query("date"))
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, t)
}

// Action returns the handler for one ticket transition. The receptionist
// is always the authenticated principal.
func (h *QueueHandler) Action(action domain.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req TicketActionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				invalidBody(c)
				return
			}
		}

		t, err := h.action.Execute(c.Request.Context(), ucQueue.TicketActionInput{
			TicketID:       id,
			Action:         action,
			ReceptionistID: middleware.UserID(c),
			DeskID:         req.DeskID,
		})
		if err != nil {
			httperr.FromError(c, h.log, err)
			return
		}

		httpresp.OK(c, t)
	}
}

// ======================================================
// DESKS
// ======================================================

func (h *QueueHandler) AssignDesk(c *gin.Context) {
	var req AssignDeskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	a, err := h.assignDesk.Execute(c.Request.Context(), ucQueue.AssignDeskInput{
		LocationID:     req.LocationID,
		DeskID:         req.DeskID,
		ReceptionistID: middleware.UserID(c),
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, a)
}

func (h *QueueHandler) ReleaseDesk(c *gin.Context) {
	locationID, ok := pathID(c, "locationId")
	if !ok {
		return
	}
	deskID, ok := pathID(c, "deskId")
	if !ok {
		return
	}

	a, err := h.releaseDesk.Execute(c.Request.Context(), locationID, deskID)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, a)
}

func (h *QueueHandler) ListDesks(c *gin.Context) {
	locationID, ok := queryID(c, "location_id")
	if !ok {
		return
	}

	list, err := h.listDesks.Execute(c.Request.Context(), locationID, queryBool(c, "active", false))
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.List(c, list)
}
