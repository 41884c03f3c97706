// Package ws streams a demo session's updates over WebSocket.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/metrics"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
	releaseTimeout = 5 * time.Second
)

// normalCloseCodes are WebSocket close codes that indicate an expected disconnect.
var normalCloseCodes = []int{
	websocket.CloseNormalClosure,
	websocket.CloseGoingAway,
	websocket.CloseNoStatusReceived,
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		host := r.Host
		return origin == "http://"+host || origin == "https://"+host
	},
}

// Handler upgrades session stream requests.
type Handler struct {
	sessions *session.Registry
	runner   session.Runner
	logger   *slog.Logger
}

// NewHandler creates the stream handler.
func NewHandler(sessions *session.Registry, runner session.Runner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{sessions: sessions, runner: runner, logger: logger}
}

// RegisterRoutes registers the stream endpoint on the provided ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/sessions/{id}/stream", h.Stream)
}

// Stream subscribes to a session and pushes every envelope to the client,
// starting with a snapshot of the page.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, session.ErrNotFound.Error(), http.StatusNotFound)
		return
	}

	var (
		hub      *session.Broadcaster
		sub      *session.Subscriber
		snapshot session.PageState
		getErr   error
	)
	callErr := h.runner.Call(r.Context(), func() {
		s, err := h.sessions.Get(id)
		if err != nil {
			getErr = err
			return
		}
		hub = s.Hub()
		sub = hub.Subscribe(sendBuffer)
		snapshot = s.Page()
	})
	if callErr != nil {
		// The subscribe task may still run after Call gave up; drop its
		// subscriber on the loop behind it.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), releaseTimeout)
		defer cancel()
		_ = h.runner.Call(releaseCtx, func() {
			if sub != nil {
				hub.Unsubscribe(sub)
			}
		})
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	if getErr != nil {
		http.Error(w, getErr.Error(), http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.Unsubscribe(sub)
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	metrics.ActiveWebSocketClients.Inc()
	defer metrics.ActiveWebSocketClients.Dec()
	logger := h.logger.With("session_id", id)
	logger.Info("stream client connected")

	c := &client{conn: conn, hub: hub, sub: sub, logger: logger}
	go c.readPump()
	c.writePump(session.Envelope{Type: session.EventSnapshot, Timestamp: time.Now().UTC(), Data: snapshot})
	logger.Info("stream client disconnected")
}

type client struct {
	conn   *websocket.Conn
	hub    *session.Broadcaster
	sub    *session.Subscriber
	logger *slog.Logger
}

// readPump discards client messages and unsubscribes when the peer goes
// away, which in turn ends writePump.
func (c *client) readPump() {
	defer c.hub.Unsubscribe(c.sub)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, normalCloseCodes...) {
				c.logger.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}

// writePump sends first, then every envelope until the subscription closes.
func (c *client) writePump(first session.Envelope) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	if err := c.write(first); err != nil {
		c.hub.Unsubscribe(c.sub)
		return
	}

	for {
		select {
		case env, ok := <-c.sub.C:
			if !ok {
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.write(env); err != nil {
				c.logger.Warn("websocket write error", "error", err)
				c.hub.Unsubscribe(c.sub)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("websocket ping failed", "error", err)
				c.hub.Unsubscribe(c.sub)
				return
			}
		}
	}
}

func (c *client) write(env session.Envelope) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(env)
}
