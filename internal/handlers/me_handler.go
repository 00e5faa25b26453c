package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type activeDeskFinder interface {
	ActiveForReceptionist(ctx context.Context, locationID, receptionistID uint) (*models.DeskAssignment, error)
}

type MeHandler struct {
	desks activeDeskFinder
	log   *slog.Logger
}

func NewMeHandler(desks activeDeskFinder, log *slog.Logger) *MeHandler {
	return &MeHandler{desks: desks, log: log}
}

type MeResponse struct {
	UserID uint                   `json:"user_id"`
	Role   string                 `json:"role"`
	Desk   *models.DeskAssignment `json:"desk"`
}

// GetMe echoes the principal and, when location_id is given, the desk the
// caller currently holds there.
func (h *MeHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		httperr.Unauthorized(c, "user_not_in_context", "Usuário não autenticado.")
		return
	}
	role := c.GetString(middleware.ContextUserRole)

	locationID, ok := queryID(c, "location_id")
	if !ok {
		return
	}

	out := MeResponse{UserID: userID, Role: role}
	if locationID != 0 {
		desk, err := h.desks.ActiveForReceptionist(c.Request.Context(), locationID, userID)
		if err != nil {
			httperr.FromError(c, h.log, err)
			return
		}
		out.Desk = desk
	}

	httpresp.OK(c, out)
}
