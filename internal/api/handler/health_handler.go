package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 2 * time.Second

// Version is stamped at build time via -ldflags.
var Version = "dev"

type HealthHandler struct {
	db  *mongo.Database
	rdb *redis.Client
}

func NewHealthHandler(db *mongo.Database, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Root answers the API banner the frontend pings on load.
//
// @Summary      API banner
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Accademia Musicale I Musici - API",
		"version": Version,
	})
}

// Health is the in-band status probe.
//
// @Summary      Health status
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// Liveness reports only that the process is serving.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness pings Mongo and Redis and fails when either is down.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := map[string]string{"mongo": "ok", "redis": "ok"}
	healthy := true

	if err := h.db.Client().Ping(ctx, nil); err != nil {
		deps["mongo"] = err.Error()
		healthy = false
	}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		deps["redis"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{"status": deps, "ready": healthy})
}
