package ws

import (
	"context"
	"encoding/json"
	"sync"

	"jobboard/internal/domain/job"
	"jobboard/internal/logger"

	"go.uber.org/zap"
)

// Hub fans lifecycle events out to every connected websocket client.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger.Named(log, "ws"),
	}
}

// Run serves the hub until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug("client connected", zap.Int("total_clients", total))

		case client := <-h.unregister:
			h.drop(client)

		case message := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- message:
				default:
					// Slow reader; cut it loose rather than stall everyone.
					h.drop(client)
				}
			}
			h.logger.Debug("broadcast", zap.Int("clients", len(snapshot)))
		}
	}
}

func (h *Hub) drop(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	h.logger.Debug("client disconnected", zap.Int("total_clients", total))
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Broadcast queues message for every client. It never blocks; when the queue
// is full the message is dropped.
func (h *Hub) Broadcast(message []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("broadcast dropped", zap.String(logger.FieldReason, "buffer_full"))
	}
}

// Publish encodes evt and broadcasts it.
func (h *Hub) Publish(_ context.Context, evt job.Event) {
	if h == nil {
		return
	}
	b, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("encode event", zap.String("type", string(evt.Type)), zap.Error(err))
		return
	}
	h.Broadcast(b)
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
