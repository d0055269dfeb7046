package stream

import (
	"context"
	"fmt"
	"log"
	"net/http"

	companionService "github.com/mpopa/stress-journal/backend/internal/service/companion"
	"github.com/mpopa/stress-journal/backend/pkg/utils"
)

// Handler streams the processing of one journal entry over Server-Sent
// Events. Replies are generated in full and filtered before anything leaves
// the server, so the stream carries pipeline stages rather than raw model
// deltas: start, then a verdict event, then message, then end.
type Handler struct {
	companionSvc *companionService.Service
}

// New creates the stream handler.
func New(companionSvc *companionService.Service) *Handler {
	return &Handler{companionSvc: companionSvc}
}

// StreamEvent is one frame of the entry-processing stream.
type StreamEvent struct {
	Event     string `json:"event"`
	SessionID string `json:"sessionId,omitempty"`
	Content   string `json:"content,omitempty"`
	Data      any    `json:"data,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest processes one entry and emits the pipeline stages.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, entry string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	h.send(w, flusher, StreamEvent{Event: "start", SessionID: sessionID})

	turn, err := h.companionSvc.ProcessEntry(ctx, sessionID, entry)
	if err != nil {
		h.sendError(w, flusher, fmt.Sprintf("entry processing failed: %v", err))
		return err
	}

	switch {
	case turn.Rejected():
		h.send(w, flusher, StreamEvent{
			Event:     "rejected",
			SessionID: sessionID,
			Content:   turn.Outcome.Validation.Guidance,
			Data:      turn.Outcome.Validation,
		})

	case turn.Crisis():
		h.send(w, flusher, StreamEvent{
			Event:     "crisis",
			SessionID: sessionID,
			Data: map[string]any{
				"severity":   turn.Outcome.Crisis.Severity,
				"templateId": turn.Outcome.Crisis.TemplateID,
			},
		})
		h.send(w, flusher, StreamEvent{
			Event:     "message",
			SessionID: sessionID,
			Content:   turn.Reply,
		})

	default:
		h.send(w, flusher, StreamEvent{
			Event:     "emotion",
			SessionID: sessionID,
			Data:      turn.Outcome.Score,
		})
		h.send(w, flusher, StreamEvent{
			Event:     "message",
			SessionID: sessionID,
			Content:   turn.Reply,
		})
	}

	h.send(w, flusher, StreamEvent{Event: "end", SessionID: sessionID, Finished: true})

	log.Printf("[stream] completed entry for session=%s crisis=%t", sessionID, turn.Crisis())
	return nil
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, event StreamEvent) {
	utils.SendSSEEvent(w, flusher, event.Event, event)
}

func (h *Handler) sendError(w http.ResponseWriter, flusher http.Flusher, message string) {
	h.send(w, flusher, StreamEvent{Event: "error", Error: message})
}
