package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AccessLogMiddleware struct {
	logger    *log.Logger
	skipPaths map[string]bool
}

// NewAccessLogMiddleware assigns X-Request-ID when absent and logs one line
// per request. Requests to skipPaths (health probes) are not logged.
func NewAccessLogMiddleware(logger *log.Logger, skipPaths ...string) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}
	return &AccessLogMiddleware{logger: logger, skipPaths: skip}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("X-Request-ID", rid)

		err := c.Next()

		if m.skipPaths[c.Path()] {
			return err
		}

		status := c.Response().StatusCode()
		if err != nil {
			// ErrorMiddleware sits inside; anything reaching here unhandled is a 500.
			status = fiber.StatusInternalServerError
		}

		uid := "-"
		if id, ok := UserID(c); ok {
			uid = id.String()
		}

		m.logger.Printf(
			"HTTP access | rid=%s ip=%s method=%s path=%s status=%d latency=%s user_id=%s resp_bytes=%d ua=%q",
			rid, c.IP(), c.Method(), c.OriginalURL(), status, time.Since(start), uid,
			len(c.Response().Body()), c.Get("User-Agent"),
		)
		return err
	}
}
