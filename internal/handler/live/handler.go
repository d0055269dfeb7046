package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	companionService "github.com/mpopa/stress-journal/backend/internal/service/companion"
	journalService "github.com/mpopa/stress-journal/backend/internal/service/journal"
)

// frameWriter is the write half of a websocket connection.
type frameWriter interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
}

// wsConn serializes writes to one connection. gorilla/websocket allows at
// most one concurrent writer; the ping loop and the reply path run in
// separate goroutines, so every write goes through this mutex.
type wsConn struct {
	mu   sync.Mutex
	conn frameWriter
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// Handler runs the live journaling channel over a websocket. Each inbound
// entry goes through the same pipeline as the REST surface; the connection
// just keeps the round trips cheap for clients that journal in bursts.
type Handler struct {
	journalSvc   *journalService.Service
	companionSvc *companionService.Service
	upgrader     websocket.Upgrader
}

// New creates the live handler.
func New(journalSvc *journalService.Service, companionSvc *companionService.Service) *Handler {
	return &Handler{
		journalSvc:   journalSvc,
		companionSvc: companionSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// EntryMessage is the payload of a "entry" frame.
type EntryMessage struct {
	Content string `json:"content"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	if _, err := h.journalSvc.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[live] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[live] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ws := &wsConn{conn: conn}
	go h.pingLoop(ctx, ws)

	h.sendInfo(ws, sessionID, map[string]any{"type": "connected"})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[live] read error: %v", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			if msg.SessionID != "" && msg.SessionID != sessionID {
				h.sendError(ws, "session mismatch")
				continue
			}

			h.handleMessage(ctx, ws, sessionID, &msg)
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, ws *wsConn, sessionID string, msg *inboundMessage) {
	switch msg.Type {
	case "entry":
		h.handleEntryMessage(ctx, ws, sessionID, msg.Data)
	case "ping":
		h.sendInfo(ws, sessionID, map[string]any{"type": "pong"})
	default:
		h.sendError(ws, "unsupported message type: "+msg.Type)
	}
}

func (h *Handler) handleEntryMessage(ctx context.Context, ws *wsConn, sessionID string, raw json.RawMessage) {
	var entry EntryMessage
	if err := json.Unmarshal(raw, &entry); err != nil {
		h.sendError(ws, "invalid entry payload")
		return
	}

	turn, err := h.companionSvc.ProcessEntry(ctx, sessionID, entry.Content)
	if err != nil {
		h.sendError(ws, err.Error())
		return
	}

	switch {
	case turn.Rejected():
		h.sendInfo(ws, sessionID, map[string]any{
			"type":     "rejected",
			"reason":   turn.Outcome.Validation.Reason,
			"guidance": turn.Outcome.Validation.Guidance,
		})

	case turn.Crisis():
		h.sendInfo(ws, sessionID, map[string]any{
			"type":     "crisis",
			"severity": turn.Outcome.Crisis.Severity,
			"reply":    turn.Reply,
		})

	default:
		h.sendInfo(ws, sessionID, map[string]any{
			"type":  "scored",
			"score": turn.Outcome.Score,
		})
		h.sendInfo(ws, sessionID, map[string]any{
			"type":    "reply",
			"text":    turn.Reply,
			"isFinal": true,
		})
	}
}

func (h *Handler) sendInfo(ws *wsConn, sessionID string, data map[string]any) {
	msg := outgoingMessage{
		Type:      "result",
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := ws.writeJSON(msg); err != nil {
		log.Printf("[live] write info failed: %v", err)
	}
}

func (h *Handler) sendError(ws *wsConn, message string) {
	msg := outgoingMessage{
		Type:      "error",
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().Unix(),
	}
	if err := ws.writeJSON(msg); err != nil {
		log.Printf("[live] write error failed: %v", err)
	}
}

func (h *Handler) pingLoop(ctx context.Context, ws *wsConn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ws.ping(); err != nil {
				return
			}
		}
	}
}
