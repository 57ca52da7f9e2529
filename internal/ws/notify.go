package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Notify implements the application workflow's notifier on top of the hub.
func (h *Hub) Notify(userID uuid.UUID, event string, data any) {
	if h == nil || userID == uuid.Nil {
		return
	}
	b, err := json.Marshal(Event{
		Type:      event,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("WS encode error | event=%s error=%v", event, err)
		}
		return
	}
	h.Send(userID, b)
}
