package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"whatsflow/internal/demo"
	apierrors "whatsflow/internal/errors"
	"whatsflow/internal/infrastructure"
)

// DemoHandler upgrades requests to websockets and plays the chat demo on them.
type DemoHandler struct {
	hub            *Hub
	player         *demo.Player
	script         demo.Script
	allowedOrigins []string
	upgrader       websocket.Upgrader
	logger         *slog.Logger
}

// NewDemoHandler creates the /ws/demo handler. Browsers from allowedOrigins
// or from the serving host may connect.
func NewDemoHandler(hub *Hub, player *demo.Player, script demo.Script, allowedOrigins []string, logger *slog.Logger) *DemoHandler {
	h := &DemoHandler{
		hub:            hub,
		player:         player,
		script:         script,
		allowedOrigins: allowedOrigins,
		logger:         infrastructure.WithComponent(logger, "websocket.demo"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *DemoHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if origin == allowed || allowed == "*" {
			return true
		}
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	h.logger.WarnContext(r.Context(), "WebSocket origin not allowed",
		slog.String("origin", origin),
		slog.Any("allowed_origins", h.allowedOrigins))
	return false
}

// ServeHTTP plays the demo until it finishes or the browser disconnects.
func (h *DemoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		apierrors.WriteError(w, apierrors.New(http.StatusUpgradeRequired, "UPGRADE_REQUIRED",
			"The demo is only available over a WebSocket connection"))
		return
	}

	ctx := infrastructure.EnsureTraceID(r.Context())
	traceID := infrastructure.GetTraceID(ctx)

	conn, err := h.upgrader.Upgrade(w, r.WithContext(ctx), nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.logger.WarnContext(ctx, "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("origin", r.Header.Get("Origin")))
		return
	}

	client := NewClient(h.hub, WrapConn(conn), traceID, h.logger)
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()

	h.Stream(ctx, client)
}

// Stream plays the script to client and closes it when done.
func (h *DemoHandler) Stream(ctx context.Context, client *Client) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-client.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	err := h.player.Play(ctx, h.script, func(_ context.Context, ev demo.Event) error {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		return client.Send(data)
	})
	if err != nil {
		h.logger.DebugContext(ctx, "Demo stream ended early",
			slog.String("client_id", client.id),
			slog.String("error", err.Error()))
	}

	h.hub.Unregister(client)
}
