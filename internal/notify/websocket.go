package notify

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketConfig tunes the websocket transport
type WebSocketConfig struct {
	PingInterval time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// CheckOrigin is passed to the upgrader; nil allows every origin
	CheckOrigin func(r *http.Request) bool
}

// DefaultWebSocketConfig returns the default websocket settings
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		PingInterval: 30 * time.Second,
		ReadTimeout:  90 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// WebSocketTransport streams one room subscription over a websocket.
// The connection is server-to-client only; client frames are read and discarded.
type WebSocketTransport struct {
	cfg      WebSocketConfig
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketTransport creates a websocket transport
func NewWebSocketTransport(cfg WebSocketConfig, logger *slog.Logger) *WebSocketTransport {
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &WebSocketTransport{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// Serve upgrades the request and pumps sub until either side goes away.
// sub is closed on return.
func (t *WebSocketTransport) Serve(w http.ResponseWriter, r *http.Request, sub *Subscription) {
	defer sub.Close()

	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		t.logger.Debug("websocket upgrade failed", "room", sub.Room(), "error", err)
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go t.readLoop(conn, sub.Room(), done)

	ping := time.NewTicker(t.cfg.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case msg, ok := <-sub.C():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "room closed"),
					time.Now().Add(t.cfg.WriteTimeout))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(t.cfg.WriteTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				t.logger.Debug("websocket write failed", "room", sub.Room(), "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(t.cfg.WriteTimeout)); err != nil {
				t.logger.Debug("websocket ping failed", "room", sub.Room(), "error", err)
				return
			}
		}
	}
}

func (t *WebSocketTransport) readLoop(conn *websocket.Conn, room string, done chan<- struct{}) {
	defer close(done)

	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
		return nil
	})
	for {
		_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				t.logger.Debug("websocket read error", "room", room, "error", err)
			}
			return
		}
	}
}
