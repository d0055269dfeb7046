package ai

import (
	"strings"
	"testing"

	analysis "github.com/mpopa/stress-journal/backend/internal/analysis/emotion"
	"github.com/mpopa/stress-journal/backend/internal/model/profile"
	"github.com/mpopa/stress-journal/backend/internal/service/memory"
)

func TestBuildProfilePromptUsesTemplate(t *testing.T) {
	manager := NewProfilePromptManager()
	profiles := profile.Seed()

	for _, prof := range profiles {
		prompt := manager.BuildProfilePrompt(&prof)
		if !strings.Contains(prompt, prof.Name) {
			t.Fatalf("prompt for %s missing profile name", prof.ID)
		}
		if !strings.Contains(prompt, "Conversation rules:") {
			t.Fatalf("profile %s should resolve to a builtin template", prof.ID)
		}
	}
}

func TestBuildProfilePromptFallsBack(t *testing.T) {
	prof := &profile.Profile{
		ID:         "custom",
		Name:       "Night Owl",
		Approach:   "late-night journaling",
		Tone:       "quiet",
		PromptHint: "Keep it short.",
	}

	prompt := NewProfilePromptManager().BuildProfilePrompt(prof)
	if !strings.Contains(prompt, "Night Owl") {
		t.Fatalf("fallback prompt missing profile name: %q", prompt)
	}
}

func TestBuildSystemPromptIncludesScoreAndMemories(t *testing.T) {
	prof := &profile.Profile{ID: "gentle-listener", Name: "Quiet Harbor"}
	score := &analysis.Score{
		Primary:     analysis.Fear,
		StressLevel: 72,
		Display:     analysis.DisplayStress,
		Degraded:    true,
	}
	memories := []memory.Record{
		{Text: "deadline stress at work"},
		{Text: "slept badly before the last exam"},
	}

	prompt := buildSystemPrompt(prof, score, memories)

	if !strings.Contains(prompt, "72/100") {
		t.Fatalf("prompt missing stress level: %q", prompt)
	}
	if !strings.Contains(prompt, "rough heuristic") {
		t.Fatal("degraded assessment should be flagged in the prompt")
	}
	if !strings.Contains(prompt, "deadline stress at work") {
		t.Fatal("prompt missing memory themes")
	}
	if !strings.Contains(prompt, "not a clinician") {
		t.Fatal("prompt missing the diagnosis hard limit")
	}
}

func TestBuildSystemPromptWithoutExtras(t *testing.T) {
	prof := &profile.Profile{ID: "practical-coach", Name: "Steady Compass"}

	prompt := buildSystemPrompt(prof, nil, nil)
	if strings.Contains(prompt, "Emotion assessment") {
		t.Fatal("no score given, assessment section must be absent")
	}
	if strings.Contains(prompt, "recent entries") {
		t.Fatal("no memories given, continuity section must be absent")
	}
}
