package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mpopa/stress-journal/backend/internal/analysis/patterns"
	"github.com/mpopa/stress-journal/backend/internal/guardrail"
	profileModel "github.com/mpopa/stress-journal/backend/internal/model/profile"
	companionService "github.com/mpopa/stress-journal/backend/internal/service/companion"
	emotionService "github.com/mpopa/stress-journal/backend/internal/service/emotion"
	historyService "github.com/mpopa/stress-journal/backend/internal/service/history"
	journalService "github.com/mpopa/stress-journal/backend/internal/service/journal"
	memoryService "github.com/mpopa/stress-journal/backend/internal/service/memory"
	safetyService "github.com/mpopa/stress-journal/backend/internal/service/safety"
)

func setupRouter(t *testing.T) (*chi.Mux, *journalService.Service) {
	t.Helper()
	ctx := context.Background()

	source := patterns.NewStaticSource(patterns.Default())
	validator := guardrail.NewInputValidator(2, 5000, source, nil)
	classifier := guardrail.NewCrisisClassifier(nil)
	filter := guardrail.NewOutputFilter(source)
	emotions, err := emotionService.NewService(ctx, nil, emotionService.Config{})
	if err != nil {
		t.Fatalf("emotion service err: %v", err)
	}
	safetySvc := safetyService.NewService(validator, classifier, filter, emotions)

	journalSvc := journalService.NewService()
	profiles := profileModel.NewMemoryStore(profileModel.Seed())
	history := historyService.NewMemoryStore()

	companionSvc := companionService.NewService(companionService.Config{
		Journal:  journalSvc,
		Profiles: profiles,
		Safety:   safetySvc,
		History:  history,
		Memories: memoryService.NewInMemory(),
		Tenant:   "default",
	})

	handler := New(journalSvc, companionSvc, safetySvc, profiles, history, "default")

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, journalSvc
}

func createSession(t *testing.T, r *chi.Mux) string {
	t.Helper()

	payload, _ := json.Marshal(map[string]string{"profileId": "gentle-listener"})
	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var session struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return session.ID
}

func submitEntry(t *testing.T, r *chi.Mux, sessionID, content string) *httptest.ResponseRecorder {
	t.Helper()

	payload, _ := json.Marshal(map[string]string{"sessionId": sessionID, "content": content})
	req := httptest.NewRequest(http.MethodPost, "/entries", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateSessionInvalidProfile(t *testing.T) {
	r, _ := setupRouter(t)

	payload, _ := json.Marshal(map[string]string{"profileId": "non-existent"})
	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSubmitEntryAccepted(t *testing.T) {
	r, _ := setupRouter(t)
	sessionID := createSession(t, r)

	resp := submitEntry(t, r, sessionID, "I'm feeling really anxious about my exam tomorrow")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Accepted bool   `json:"accepted"`
		Reply    string `json:"reply"`
		Score    *struct {
			StressLevel int  `json:"stressLevel"`
			Degraded    bool `json:"degraded"`
		} `json:"score"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Accepted {
		t.Fatal("benign entry should be accepted")
	}
	if body.Reply == "" {
		t.Fatal("accepted entry should get a reply")
	}
	if body.Score == nil || !body.Score.Degraded {
		t.Fatalf("score missing or not degraded without a model: %+v", body.Score)
	}
}

func TestSubmitEntryCrisis(t *testing.T) {
	r, _ := setupRouter(t)
	sessionID := createSession(t, r)

	resp := submitEntry(t, r, sessionID, "I want to kill myself")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Accepted bool   `json:"accepted"`
		Crisis   bool   `json:"crisis"`
		Severity string `json:"severity"`
		Reply    string `json:"reply"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Accepted {
		t.Fatal("crisis entry must not be accepted")
	}
	if !body.Crisis || body.Severity != "self_harm" {
		t.Fatalf("expected self_harm crisis, got %+v", body)
	}
	if !strings.Contains(body.Reply, "988") {
		t.Fatalf("crisis reply missing hotline: %q", body.Reply)
	}
}

func TestSubmitEntryTooShort(t *testing.T) {
	r, _ := setupRouter(t)
	sessionID := createSession(t, r)

	resp := submitEntry(t, r, sessionID, "a")
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}

	var body struct {
		Reason   string `json:"rejectionReason"`
		Guidance string `json:"guidance"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Reason != "length" {
		t.Fatalf("expected length rejection, got %q", body.Reason)
	}
	if body.Guidance == "" {
		t.Fatal("rejection must carry guidance")
	}
}

func TestSubmitEntryUnknownSession(t *testing.T) {
	r, _ := setupRouter(t)

	resp := submitEntry(t, r, "missing-session", "hello there, journal")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSafetyCheckEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	payload, _ := json.Marshal(map[string]string{"text": "I want to hurt my boss"})
	req := httptest.NewRequest(http.MethodPost, "/safety/check", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Validation struct {
			Accepted bool `json:"accepted"`
		} `json:"validation"`
		Crisis struct {
			Severity string `json:"severity"`
		} `json:"crisis"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Validation.Accepted {
		t.Fatal("harm content must be rejected")
	}
	if body.Crisis.Severity != "harm_to_others" {
		t.Fatalf("expected harm_to_others, got %q", body.Crisis.Severity)
	}
}

func TestSafetyCheckScoresAcceptedText(t *testing.T) {
	r, _ := setupRouter(t)

	payload, _ := json.Marshal(map[string]string{"text": "I'm feeling really anxious about my exam tomorrow"})
	req := httptest.NewRequest(http.MethodPost, "/safety/check", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Validation struct {
			Accepted bool `json:"accepted"`
		} `json:"validation"`
		Score *struct {
			Primary     string `json:"primaryEmotion"`
			StressLevel int    `json:"stressLevel"`
			Degraded    bool   `json:"degraded"`
		} `json:"score"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Validation.Accepted {
		t.Fatal("benign text must be accepted")
	}
	if body.Score == nil {
		t.Fatal("accepted text must carry an emotion score")
	}
	if body.Score.Primary == "" || !body.Score.Degraded {
		t.Fatalf("score incomplete without a model: %+v", body.Score)
	}

	// Flagged text must not be scored.
	payload, _ = json.Marshal(map[string]string{"text": "I want to kill myself"})
	req = httptest.NewRequest(http.MethodPost, "/safety/check", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()

	r.ServeHTTP(resp, req)
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Score != nil {
		t.Fatal("crisis text must not be emotion scored")
	}
}

func TestTranscriptAfterEntry(t *testing.T) {
	r, _ := setupRouter(t)
	sessionID := createSession(t, r)
	submitEntry(t, r, sessionID, "Today was better than yesterday, I felt calm")

	req := httptest.NewRequest(http.MethodGet, "/session/"+sessionID+"/messages", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var messages []struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &messages); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected user and agent turns, got %d", len(messages))
	}
}
