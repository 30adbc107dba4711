package handlers

import (
	"net/http"
	"strconv"
	"time"

	"whimsicalfrog/internal/common"
	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/services"

	"github.com/labstack/echo/v4"
)

// AuditHandlers exposes the admin activity trail.
type AuditHandlers struct {
	audit services.AuditService
}

func NewAuditHandlers(audit services.AuditService) *AuditHandlers {
	return &AuditHandlers{audit: audit}
}

func (h *AuditHandlers) ListActivity(c echo.Context) error {
	filters := &models.AdminActivityFilters{}

	if v := c.QueryParam("user_id"); v != "" {
		id, err := common.ValidateUUID(v, "user_id")
		if err != nil {
			return common.SendError(c, http.StatusBadRequest, err.Error())
		}
		filters.UserID = &id
	}
	if v := c.QueryParam("action"); v != "" {
		filters.Action = &v
	}
	if v := c.QueryParam("entity_type"); v != "" {
		filters.EntityType = &v
	}
	if v := c.QueryParam("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return common.SendError(c, http.StatusBadRequest, "start_date must be RFC3339")
		}
		filters.StartDate = &t
	}
	if v := c.QueryParam("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return common.SendError(c, http.StatusBadRequest, "end_date must be RFC3339")
		}
		filters.EndDate = &t
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	filters.Limit, filters.Offset = common.ValidatePaginationParams(limit, offset)

	entries, err := h.audit.List(c.Request().Context(), filters)
	if err != nil {
		return common.SendServerError(c, "failed to list activity")
	}
	return common.SendData(c, entries)
}
