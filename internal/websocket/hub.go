package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"whatsflow/internal/infrastructure"
)

// TypeConnection is the first message every client receives.
const TypeConnection = "connection"

// Hub tracks connected demo clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	total   int64

	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewHub creates a new Hub instance with dependency injection
func NewHub(metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "websocket.hub"),
	}
}

// Register adds a client and greets it.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.total++
	count := len(h.clients)
	h.mu.Unlock()

	ctx := client.context()
	h.metrics.RecordDemoSession(ctx, 1)
	h.logger.InfoContext(ctx, "Client registered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.String("remote_addr", client.remoteAddr))

	greeting, err := json.Marshal(map[string]interface{}{
		"type": TypeConnection,
		"data": map[string]interface{}{
			"status":    "connected",
			"client_id": client.id,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"trace_id":  client.traceID,
	})
	if err == nil {
		if err := client.Send(greeting); err != nil {
			h.logger.WarnContext(ctx, "Failed to send connection message",
				slog.String("client_id", client.id),
				slog.String("error", err.Error()))
		}
	}
}

// Unregister removes a client and closes its send queue. It is safe to call
// more than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	count := len(h.clients)
	h.mu.Unlock()

	client.close()
	if !ok {
		return
	}

	ctx := client.context()
	h.metrics.RecordDemoSession(ctx, -1)
	h.logger.InfoContext(ctx, "Client unregistered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.Duration("connection_duration", time.Since(client.connectedAt)))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConnections returns how many clients have ever registered.
func (h *Hub) TotalConnections() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total
}

// Shutdown closes every client connection.
func (h *Hub) Shutdown(ctx context.Context) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.Unregister(c)
		c.conn.Close()
	}
	h.logger.InfoContext(ctx, "Hub shut down", slog.Int("clients_closed", len(clients)))
}
