package handlers

import (
	"net/http"

	"whimsicalfrog/internal/common"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type HealthHandlers struct {
	pool *pgxpool.Pool
}

func NewHealthHandlers(pool *pgxpool.Pool) *HealthHandlers {
	return &HealthHandlers{pool: pool}
}

func (h *HealthHandlers) Health(c echo.Context) error {
	if err := h.pool.Ping(c.Request().Context()); err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "database unreachable")
	}
	return common.SendData(c, map[string]string{"status": "ok"})
}
