package featured

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"sumo-go/internal/logger"
	"sumo-go/internal/metrics"
)

const writeWait = 10 * time.Second

type Handler struct {
	rotator  *Rotator
	upgrader websocket.Upgrader
}

func NewHandler(rotator *Rotator, allowedOrigins []string) *Handler {
	return &Handler{
		rotator: rotator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker allows any origin when none are configured
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.Header.Get("Origin")]
		return ok
	}
}

func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.rotator.Current())
}

// Stream sends the current card, then every rotation, until the client goes away
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		logger.FromContext(r.Context()).Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, unsubscribe := h.rotator.Subscribe()
	defer unsubscribe()

	// reader notices the client closing the connection
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, h.rotator.Current()); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case card, ok := <-updates:
			if !ok {
				return
			}
			if err := h.write(conn, card); err != nil {
				return
			}
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, card Card) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(card)
}

func (h *Handler) Routes(router *httprouter.Router) {
	router.GET("/api/v1/featured", metrics.Instrument("/api/v1/featured", h.GetCurrent))
	// not instrumented, the wrapped writer would hide http.Hijacker from the upgrader
	router.GET("/api/v1/featured/stream", h.Stream)
}
