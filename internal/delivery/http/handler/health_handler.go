package handler

import (
	"context"
	"time"

	"job-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health reports 503 when the database is unreachable. The cache is
// reported but never fails the probe.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	db := "up"
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			db = "down"
			status = fiber.StatusServiceUnavailable
		}
	}
	cache := "disabled"
	if h.cache != nil {
		cache = "up"
		if err := h.cache.Ping(ctx); err != nil {
			cache = "down"
		}
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "Service unavailable", fiber.Map{"database": db, "cache": cache})
	}
	return response.Success(c, status, response.MessageOK, fiber.Map{"database": db, "cache": cache})
}
