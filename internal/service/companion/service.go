package companion

import (
	"context"
	"fmt"
	"log"

	analysis "github.com/mpopa/stress-journal/backend/internal/analysis/emotion"
	"github.com/mpopa/stress-journal/backend/internal/guardrail"
	"github.com/mpopa/stress-journal/backend/internal/model/journal"
	"github.com/mpopa/stress-journal/backend/internal/model/profile"
	aiservice "github.com/mpopa/stress-journal/backend/internal/service/ai"
	historyservice "github.com/mpopa/stress-journal/backend/internal/service/history"
	journalservice "github.com/mpopa/stress-journal/backend/internal/service/journal"
	memoryservice "github.com/mpopa/stress-journal/backend/internal/service/memory"
	safetyservice "github.com/mpopa/stress-journal/backend/internal/service/safety"
)

// Service orchestrates one journaling turn end to end. Every transport (REST,
// SSE, websocket) goes through ProcessEntry so the pipeline order is fixed in
// exactly one place: validate, screen, score, generate, filter, persist.
type Service struct {
	journal  *journalservice.Service
	profiles profile.Store
	safety   *safetyservice.Service
	ai       *aiservice.Service
	history  historyservice.Store
	memories memoryservice.Store

	tenant      string
	memoryLimit int
}

// Config carries the orchestration collaborators. AI may be nil; the service
// then answers with a profile-toned fallback reply.
type Config struct {
	Journal     *journalservice.Service
	Profiles    profile.Store
	Safety      *safetyservice.Service
	AI          *aiservice.Service
	History     historyservice.Store
	Memories    memoryservice.Store
	Tenant      string
	MemoryLimit int
}

// NewService wires the orchestrator.
func NewService(cfg Config) *Service {
	tenant := cfg.Tenant
	if tenant == "" {
		tenant = "default"
	}
	limit := cfg.MemoryLimit
	if limit <= 0 {
		limit = 5
	}
	return &Service{
		journal:     cfg.Journal,
		profiles:    cfg.Profiles,
		safety:      cfg.Safety,
		ai:          cfg.AI,
		history:     cfg.History,
		memories:    cfg.Memories,
		tenant:      tenant,
		memoryLimit: limit,
	}
}

// Turn is the full result of processing one journal entry.
type Turn struct {
	Outcome safetyservice.Outcome `json:"outcome"`
	// Reply is the text shown to the user. For crisis entries it is the
	// filtered crisis template; for rejected entries it is empty and the
	// validation guidance applies instead.
	Reply        string                 `json:"reply,omitempty"`
	Filter       guardrail.FilterResult `json:"-"`
	UserMessage  *journal.Message       `json:"userMessage,omitempty"`
	AgentMessage *journal.Message       `json:"agentMessage,omitempty"`
}

// Rejected reports whether the entry was refused outright for shape or length.
func (t *Turn) Rejected() bool {
	return !t.Outcome.Validation.Accepted && t.Outcome.Crisis.Severity == guardrail.SeverityNone
}

// Crisis reports whether the entry triggered the crisis path.
func (t *Turn) Crisis() bool {
	return t.Outcome.Crisis.Severity != guardrail.SeverityNone
}

// ProcessEntry runs one user entry through the whole pipeline. The returned
// error covers infrastructure failures only; guardrail refusals come back as
// a populated Turn.
func (s *Service) ProcessEntry(ctx context.Context, sessionID, entry string) (*Turn, error) {
	session, err := s.journal.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	prof, ok := s.profiles.FindByID(session.ProfileID)
	if !ok {
		return nil, fmt.Errorf("profile %s not found", session.ProfileID)
	}

	outcome := s.safety.Process(ctx, entry)

	if !outcome.Validation.Accepted && outcome.Crisis.Severity == guardrail.SeverityNone {
		return &Turn{Outcome: outcome}, nil
	}

	if outcome.Crisis.Severity != guardrail.SeverityNone {
		return s.handleCrisisTurn(ctx, sessionID, entry, outcome)
	}

	return s.handleAcceptedTurn(ctx, sessionID, &prof, entry, outcome)
}

// handleCrisisTurn persists the exchange in the transcript but keeps it out
// of history and memory: the entry was not processed, only answered.
func (s *Service) handleCrisisTurn(ctx context.Context, sessionID, entry string, outcome safetyservice.Outcome) (*Turn, error) {
	filtered := s.safety.FilterOutput(outcome.Reply)

	userMsg, err := s.journal.SaveMessage(ctx, journal.Message{
		SessionID: sessionID,
		Role:      journal.RoleUser,
		Content:   entry,
	})
	if err != nil {
		return nil, err
	}
	agentMsg, err := s.journal.SaveMessage(ctx, journal.Message{
		SessionID: sessionID,
		Role:      journal.RoleAgent,
		Content:   filtered.Text,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[companion] crisis response issued session=%s severity=%s template=%s",
		sessionID, outcome.Crisis.Severity, outcome.Crisis.TemplateID)

	return &Turn{
		Outcome:      outcome,
		Reply:        filtered.Text,
		Filter:       filtered,
		UserMessage:  &userMsg,
		AgentMessage: &agentMsg,
	}, nil
}

func (s *Service) handleAcceptedTurn(ctx context.Context, sessionID string, prof *profile.Profile, entry string, outcome safetyservice.Outcome) (*Turn, error) {
	score := outcome.Score

	transcript, err := s.journal.LoadTranscript(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var recalled []memoryservice.Record
	if s.memories != nil {
		recalled, err = s.memories.Search(ctx, s.tenant, entry, s.memoryLimit)
		if err != nil {
			log.Printf("[companion] memory search failed, continuing without: %v", err)
			recalled = nil
		}
	}

	reply := s.generateReply(ctx, sessionID, prof, transcript, entry, score, recalled)
	filtered := s.safety.FilterOutput(reply)

	userMsg, err := s.journal.SaveMessage(ctx, journal.Message{
		SessionID:   sessionID,
		Role:        journal.RoleUser,
		Content:     entry,
		Emotion:     string(score.Primary),
		StressLevel: score.StressLevel,
	})
	if err != nil {
		return nil, err
	}
	agentMsg, err := s.journal.SaveMessage(ctx, journal.Message{
		SessionID: sessionID,
		Role:      journal.RoleAgent,
		Content:   filtered.Text,
	})
	if err != nil {
		return nil, err
	}

	if s.history != nil {
		histErr := s.history.Append(ctx, historyservice.Entry{
			Tenant:      s.tenant,
			SessionID:   sessionID,
			Content:     entry,
			Emotion:     string(score.Primary),
			StressLevel: score.StressLevel,
			Polarity:    score.Polarity,
		})
		if histErr != nil {
			log.Printf("[companion] history append failed: %v", histErr)
		}
	}
	if s.memories != nil {
		if _, memErr := s.memories.Save(ctx, s.tenant, entry); memErr != nil {
			log.Printf("[companion] memory save failed: %v", memErr)
		}
	}

	return &Turn{
		Outcome:      outcome,
		Reply:        filtered.Text,
		Filter:       filtered,
		UserMessage:  &userMsg,
		AgentMessage: &agentMsg,
	}, nil
}

// generateReply asks the language model for the companion response, falling
// back to a deterministic profile-toned reply when no model is available.
func (s *Service) generateReply(ctx context.Context, sessionID string, prof *profile.Profile, transcript []journal.Message, entry string, score *analysis.Score, recalled []memoryservice.Record) string {
	if s.ai != nil {
		response, err := s.ai.GenerateResponse(ctx, sessionID, prof, transcript, entry, score, recalled)
		if err == nil && response != nil && response.Content != "" {
			return response.Content
		}
		if err != nil {
			log.Printf("[companion] ai generation failed, using fallback reply: %v", err)
		}
	}
	return fallbackReply(prof, score)
}

// fallbackReply keeps the product usable without a model: acknowledge, name
// the feeling, point at the profile's own coping angle.
func fallbackReply(prof *profile.Profile, score *analysis.Score) string {
	feeling := "a lot"
	if score != nil {
		switch score.Display {
		case analysis.DisplayStress:
			feeling = "a real weight of stress"
		case analysis.DisplaySadness:
			feeling = "some heavy sadness"
		case analysis.DisplayAnger:
			feeling = "real frustration"
		case analysis.DisplayJoy:
			feeling = "something genuinely good"
		default:
			feeling = "a mix of things"
		}
	}

	hint := ""
	if prof != nil && prof.PromptHint != "" {
		hint = " " + prof.OpeningLine
	}

	return fmt.Sprintf("Thank you for writing this down. I'm hearing %s in what you shared, and it makes sense that you'd feel that way. Take a moment to notice what felt most intense as you wrote.%s", feeling, hint)
}
