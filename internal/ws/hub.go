package ws

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

type envelope struct {
	userID  uuid.UUID
	payload []byte
}

// Hub tracks live connections per user and routes targeted messages to them.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	direct     chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		direct:     make(chan envelope, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run routes messages until ctx ends. Register and Unregister stop blocking
// once it returns.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.userID] = set
			}
			set[client] = true
			total := h.countLocked()
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS connected | user_id=%s total_clients=%d", client.userID, total)
			}

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.removeLocked(client)
			total := h.countLocked()
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS disconnected | user_id=%s total_clients=%d", client.userID, total)
			}

		case msg := <-h.direct:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients[msg.userID]))
			for c := range h.clients[msg.userID] {
				targets = append(targets, c)
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- msg.payload:
				default:
					h.mutex.Lock()
					h.removeLocked(client)
					h.mutex.Unlock()
				}
			}
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; ok {
		delete(set, client)
		close(client.send)
	}
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) countLocked() int {
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for _, set := range h.clients {
		for c := range set {
			h.removeLocked(c)
		}
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	select {
	case <-h.done:
		h.release(client)
		return
	default:
	}
	select {
	case h.register <- client:
	case <-h.done:
		h.release(client)
	}
}

// release closes the send channel of a client the stopped hub never took.
func (h *Hub) release(client *Client) {
	if client != nil {
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Send queues payload for every connection of userID. It never blocks.
func (h *Hub) Send(userID uuid.UUID, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.direct <- envelope{userID: userID, payload: payload}:
	default:
		if h.logger != nil {
			h.logger.Printf("WS message dropped | user_id=%s reason=buffer_full", userID)
		}
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.countLocked()
}
