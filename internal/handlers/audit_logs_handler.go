package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

type auditLister interface {
	List(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error)
}

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	store auditLister
	loc   *time.Location
	log   *slog.Logger
}

func NewAuditLogsHandler(store auditLister, operationalTZ string, log *slog.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{store: store, loc: timezone.Location(operationalTZ), log: log}
}

type AuditLogsPage struct {
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
	Logs  []models.AuditLog `json:"logs"`
}

// List answers GET /audit-logs?action&entity&entity_id&from&to&page&limit.
// from/to are calendar dates in the operational zone, both inclusive.
func (h *AuditLogsHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	if page <= 0 {
		page = 1
	}
	limit := queryInt(c, "limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	entityID, ok := queryID(c, "entity_id")
	if !ok {
		return
	}

	f := audit.Filter{
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		EntityID: entityID,
		Page:     page,
		Limit:    limit,
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.ParseInLocation(timezone.DateLayout, raw, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_from", "Data inválida (YYYY-MM-DD).")
			return
		}
		f.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.ParseInLocation(timezone.DateLayout, raw, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_to", "Data inválida (YYYY-MM-DD).")
			return
		}
		end := to.AddDate(0, 0, 1)
		f.To = &end
	}

	logs, total, err := h.store.List(c.Request.Context(), f)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	httpresp.OK(c, AuditLogsPage{Page: page, Limit: limit, Total: total, Logs: logs})
}
