package ws

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewHandler builds the upgrade handler. allowedOrigins mirrors the CORS
// list; when empty every origin is accepted.
func NewHandler(hub *Hub, allowedOrigins []string, logger *log.Logger) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// HandleApplicationsWS must run behind the auth middleware; userKey is the
// locals key holding the caller's uuid.
func (h *Handler) HandleApplicationsWS(userKey string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if h == nil || h.hub == nil {
			return fiber.ErrServiceUnavailable
		}
		userID, ok := c.Locals(userKey).(uuid.UUID)
		if !ok || userID == uuid.Nil {
			return fiber.ErrUnauthorized
		}

		fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := h.upgrader.Upgrade(w, r, nil)
			if err != nil {
				if h.logger != nil {
					h.logger.Printf("WS upgrade error | user_id=%s error=%v", userID, err)
				}
				return
			}

			client := NewClient(h.hub, conn, userID)
			h.hub.Register(client)
			go client.WritePump()
			go client.ReadPump()
		})

		return fiberHandler(c)
	}
}
