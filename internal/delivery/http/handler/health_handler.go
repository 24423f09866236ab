package handler

import (
	"context"
	"time"

	"jobboard/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness, and readiness of the database. The cache
// is informational only since the service runs without it.
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/health", h.HandleLive)
	r.Get("/health/ready", h.HandleReady)
}

func (h *HealthHandler) HandleLive(c fiber.Ctx) error {
	return response.OK(c, "Server is running", nil)
}

func (h *HealthHandler) HandleReady(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"database": "up", "cache": "disabled"}
	status, msg := fiber.StatusOK, "Ready"

	if h.db == nil || h.db.Ping(ctx) != nil {
		checks["database"] = "down"
		status, msg = fiber.StatusServiceUnavailable, "Database unavailable"
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err == nil {
			checks["cache"] = "up"
		}
	}
	return response.Success(c, status, msg, checks)
}
