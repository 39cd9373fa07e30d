package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"drive/internal/handler/sse"
	"drive/internal/notify"
)

// EventsHandler streams room change events over websocket or SSE
type EventsHandler struct {
	hub       *notify.Hub
	gate      *notify.RoomGate
	ws        *notify.WebSocketTransport
	sseConfig *sse.Config
	logger    *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *notify.Hub, gate *notify.RoomGate, ws *notify.WebSocketTransport, sseConfig *sse.Config, logger *slog.Logger) *EventsHandler {
	if sseConfig == nil || sseConfig.KeepAliveInterval <= 0 {
		sseConfig = sse.DefaultConfig()
	}
	return &EventsHandler{
		hub:       hub,
		gate:      gate,
		ws:        ws,
		sseConfig: sseConfig,
		logger:    logger,
	}
}

// subscribe authorizes the actor for the {room} path value and subscribes.
// On failure the error response has been written and nil is returned.
func (h *EventsHandler) subscribe(w http.ResponseWriter, r *http.Request) *notify.Subscription {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return nil
	}
	room := r.PathValue("room")
	if err := h.gate.Authorize(r.Context(), actor, room); err != nil {
		handleError(w, r, h.logger, err)
		return nil
	}
	return h.hub.Subscribe(room)
}

// WebSocket streams a room over a websocket connection
// GET /api/rooms/{room}/ws
func (h *EventsHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	sub := h.subscribe(w, r)
	if sub == nil {
		return
	}
	h.ws.Serve(w, r, sub)
}

// Stream streams a room as server-sent events
// GET /api/rooms/{room}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sub := h.subscribe(w, r)
	if sub == nil {
		return
	}
	defer sub.Close()

	writer, err := sse.NewWriter(w)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var mu sync.Mutex
	keepAlive := sse.NewTickerKeepAlive(h.sseConfig.KeepAliveInterval)
	stopped := keepAlive.Start(writer, &mu, h.logger)
	defer func() {
		keepAlive.Stop()
		<-stopped
	}()

	h.logger.Debug("sse stream opened", "room", sub.Room())
	for {
		select {
		case <-r.Context().Done():
			return
		case <-stopped:
			return
		case msg, ok := <-sub.C():
			if !ok {
				return
			}
			mu.Lock()
			err := writer.WriteEvent(msg.Event, msg)
			mu.Unlock()
			if err != nil {
				h.logger.Debug("sse write failed", "room", sub.Room(), "error", err)
				return
			}
		}
	}
}
