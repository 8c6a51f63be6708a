package worker

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// HandlerConfig controls per-connection limits for the WebSocket transport.
type HandlerConfig struct {
	ReadLimit    int64
	WriteTimeout time.Duration
}

// DefaultHandlerConfig returns conservative per-connection limits.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		ReadLimit:    32 << 20, // large fill histories are legitimate
		WriteTimeout: 10 * time.Second,
	}
}

func (c HandlerConfig) normalize() HandlerConfig {
	if c.ReadLimit <= 0 {
		c.ReadLimit = 32 << 20
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	return c
}

// Handler serves the worker protocol over a WebSocket so an out-of-process
// UI shell can run analyses without linking the engine. Each request frame
// gets exactly one response frame, in order.
type Handler struct {
	worker   *Worker
	cfg      HandlerConfig
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewHandler wraps a worker in a WebSocket endpoint.
func NewHandler(w *Worker, cfg HandlerConfig, log zerolog.Logger) *Handler {
	return &Handler{
		worker: w,
		cfg:    cfg.normalize(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		log: log.With().Str("component", "worker_ws").Logger(),
	}
}

// ServeHTTP upgrades the connection and serves requests until the peer
// disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(h.cfg.ReadLimit)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug().Err(err).Msg("connection dropped")
			}
			return
		}

		var req Request
		resp := Response{}
		if err := json.Unmarshal(payload, &req); err != nil {
			resp = Response{Status: StatusError, Message: "malformed request: " + err.Error()}
		} else {
			resp = h.worker.Handle(req)
		}

		_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
		if err := conn.WriteJSON(resp); err != nil {
			h.log.Debug().Err(err).Msg("write failed")
			return
		}
	}
}
