// Package stream streams assistant state changes to renderers over
// Server-Sent Events and WebSocket.
package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/events"
	chathandler "github.com/gcet-assistant/backend/internal/handler/chat"
	"github.com/gcet-assistant/backend/internal/model/chat"
	"github.com/gcet-assistant/backend/pkg/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	readLimit  = 64 << 10
)

// Source is the assistant state a stream follows.
type Source interface {
	Events() *events.Hub
	Transcript() []chat.Message
	Typing() bool
	Submit(ctx context.Context, text string) ([]chat.Message, error)
}

type Handler struct {
	source    Source
	upgrader  websocket.Upgrader
	keepAlive time.Duration
	logger    *zap.Logger
}

// New builds the handler. WebSocket upgrades are accepted from the given
// origins; "*" accepts any.
func New(source Source, allowedOrigins []string, logger *zap.Logger) *Handler {
	return &Handler{
		source: source,
		upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		keepAlive: 15 * time.Second,
		logger:    logger.Named("events-handler"),
	}
}

// RegisterRoutes mounts /stream (SSE) and /ws (WebSocket) on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream", h.handleStream)
	r.Get("/ws", h.handleWebSocket)
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

func (h *Handler) snapshot() events.Event {
	return events.SnapshotEvent(h.source.Transcript(), h.source.Typing())
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sub := h.source.Events().Subscribe()
	defer sub.Cancel()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	snap := h.snapshot()
	if !utils.SendSSEEvent(w, flusher, snap.Type, snap) {
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			if !utils.SendSSEEvent(w, flusher, ev.Type, ev) {
				return
			}
		case <-ticker.C:
			if !utils.SendSSEComment(w, flusher, "keep-alive") {
				return
			}
		}
	}
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func newErrorFrame(message string) errorFrame {
	return errorFrame{Type: "error", Error: message}
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sub := h.source.Events().Subscribe()
	defer sub.Cancel()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	out := make(chan any, 8)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer cancel()
		h.writeLoop(ctx, conn, h.snapshot(), sub.C, out)
	}()

	var turns sync.WaitGroup
	h.readLoop(ctx, conn, out, &turns)

	cancel()
	turns.Wait()
	<-writerDone
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- any, turns *sync.WaitGroup) {
	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		switch msg.Type {
		case "submit":
			turns.Add(1)
			go func(text string) {
				defer turns.Done()
				if _, err := h.source.Submit(ctx, text); err != nil {
					_, message := chathandler.TurnStatus(err)
					enqueue(ctx, out, newErrorFrame(message))
				}
			}(msg.Text)
		default:
			enqueue(ctx, out, newErrorFrame("unsupported message type: "+msg.Type))
		}
	}
}

func enqueue(ctx context.Context, out chan<- any, frame any) {
	select {
	case out <- frame:
	case <-ctx.Done():
	}
}

// writeLoop is the only writer on conn. It sends first, then hub events and
// queued frames until ctx ends or a write fails.
func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, first any, evs <-chan events.Event, out <-chan any) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	write := func(v any) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(v); err != nil {
			h.logger.Warn("websocket write failed", zap.Error(err))
			conn.Close()
			return false
		}
		return true
	}

	if !write(first) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case ev, ok := <-evs:
			if !ok {
				conn.Close()
				return
			}
			if !write(ev) {
				return
			}
		case frame := <-out:
			if !write(frame) {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				conn.Close()
				return
			}
		}
	}
}
