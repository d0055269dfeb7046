package journal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	profileModel "github.com/mpopa/stress-journal/backend/internal/model/profile"
	companionService "github.com/mpopa/stress-journal/backend/internal/service/companion"
	historyService "github.com/mpopa/stress-journal/backend/internal/service/history"
	journalService "github.com/mpopa/stress-journal/backend/internal/service/journal"
	safetyService "github.com/mpopa/stress-journal/backend/internal/service/safety"
	"github.com/mpopa/stress-journal/backend/pkg/utils"
)

// Handler serves the journaling REST surface.
type Handler struct {
	journalSvc   *journalService.Service
	companionSvc *companionService.Service
	safetySvc    *safetyService.Service
	profiles     profileModel.Store
	history      historyService.Store
	tenant       string
}

// New creates the journal handler.
func New(journalSvc *journalService.Service, companionSvc *companionService.Service, safetySvc *safetyService.Service, profiles profileModel.Store, history historyService.Store, tenant string) *Handler {
	return &Handler{
		journalSvc:   journalSvc,
		companionSvc: companionSvc,
		safetySvc:    safetySvc,
		profiles:     profiles,
		history:      history,
		tenant:       tenant,
	}
}

// RegisterRoutes mounts the journal routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/entries", h.handleSubmitEntry)
	r.Get("/session/{sessionID}/messages", h.handleTranscript)
	r.Get("/history", h.handleHistory)
	r.Post("/safety/check", h.handleSafetyCheck)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProfileID string `json:"profileId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.ProfileID == "" {
		utils.RespondError(w, http.StatusBadRequest, "profileId is required")
		return
	}
	if _, ok := h.profiles.FindByID(payload.ProfileID); !ok {
		utils.RespondError(w, http.StatusBadRequest, "profile not found")
		return
	}

	session, err := h.journalSvc.CreateSession(r.Context(), payload.ProfileID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

// entryResponse is the REST shape of one processed journal turn.
type entryResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"rejectionReason,omitempty"`
	Guidance string `json:"guidance,omitempty"`
	Crisis   bool   `json:"crisis,omitempty"`
	Severity string `json:"severity,omitempty"`
	Reply    string `json:"reply,omitempty"`
	Score    any    `json:"score,omitempty"`
	Message  any    `json:"message,omitempty"`
}

func (h *Handler) handleSubmitEntry(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Content   string `json:"content"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	turn, err := h.companionSvc.ProcessEntry(r.Context(), payload.SessionID, payload.Content)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, journalService.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	validation := turn.Outcome.Validation

	if turn.Rejected() {
		utils.RespondJSON(w, http.StatusUnprocessableEntity, entryResponse{
			Accepted: false,
			Reason:   string(validation.Reason),
			Guidance: validation.Guidance,
		})
		return
	}

	if turn.Crisis() {
		utils.RespondJSON(w, http.StatusOK, entryResponse{
			Accepted: false,
			Reason:   string(validation.Reason),
			Crisis:   true,
			Severity: string(turn.Outcome.Crisis.Severity),
			Reply:    turn.Reply,
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, entryResponse{
		Accepted: true,
		Reply:    turn.Reply,
		Score:    turn.Outcome.Score,
		Message:  turn.UserMessage,
	})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.journalSvc.LoadTranscript(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		utils.RespondJSON(w, http.StatusOK, []historyService.Entry{})
		return
	}

	entries, err := h.history.Recent(r.Context(), h.tenant, 20)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if entries == nil {
		entries = []historyService.Entry{}
	}
	utils.RespondJSON(w, http.StatusOK, entries)
}

// handleSafetyCheck exposes the guardrail verdict on its own, without
// touching any session state. Useful for client-side pre-checks and for
// driving the pipeline from other agents.
func (h *Handler) handleSafetyCheck(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	validation, assessment := h.safetySvc.ValidateAndClassify(payload.Text)

	response := map[string]any{
		"validation": validation,
		"crisis":     assessment,
	}
	if validation.Accepted {
		response["score"] = h.safetySvc.ScoreEmotion(r.Context(), payload.Text)
	}
	utils.RespondJSON(w, http.StatusOK, response)
}
