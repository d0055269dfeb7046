package emotion

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"

	analysis "github.com/mpopa/stress-journal/backend/internal/analysis/emotion"
)

func newStubService(t *testing.T, invoke func(ctx context.Context, input map[string]any) (*schema.Message, error)) *Service {
	t.Helper()
	return &Service{
		enabled: true,
		weights: analysis.DefaultWeights(),
		invoke:  invoke,
	}
}

func TestScoreDisabledIsDegradedAndDeterministic(t *testing.T) {
	svc, err := NewService(context.Background(), nil, Config{Enabled: true})
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	if svc.Enabled() {
		t.Fatal("service without a model should not report enabled")
	}

	text := "I feel hopeless and worthless, nothing matters"
	first := svc.Score(context.Background(), text)
	second := svc.Score(context.Background(), text)

	if !first.Degraded {
		t.Fatal("expected degraded score without a classifier")
	}
	if first != second {
		t.Fatalf("degraded scoring must be deterministic: %+v vs %+v", first, second)
	}
	if first.Primary != analysis.Sadness {
		t.Fatalf("strongly negative entry should lean sadness, got %s", first.Primary)
	}
}

func TestScoreUsesClassifierDistribution(t *testing.T) {
	svc := newStubService(t, func(ctx context.Context, input map[string]any) (*schema.Message, error) {
		return &schema.Message{Content: `{"fear":0.6,"sadness":0.2,"neutral":0.1,"anger":0.05,"disgust":0.025,"joy":0.0125,"surprise":0.0125}`}, nil
	})

	score := svc.Score(context.Background(), "I'm feeling really anxious about my exam tomorrow")

	if score.Degraded {
		t.Fatal("classifier path should not be degraded")
	}
	if score.Primary != analysis.Fear {
		t.Fatalf("expected primary fear, got %s", score.Primary)
	}
	if score.Display != analysis.DisplayStress {
		t.Fatalf("expected stress display, got %s", score.Display)
	}
	if score.StressLevel < 50 {
		t.Fatalf("fear-dominated entry should cross the display threshold, got %d", score.StressLevel)
	}
}

func TestScoreFallsBackOnInvokeError(t *testing.T) {
	svc := newStubService(t, func(ctx context.Context, input map[string]any) (*schema.Message, error) {
		return nil, fmt.Errorf("upstream unavailable")
	})

	score := svc.Score(context.Background(), "rough day at work")
	if !score.Degraded {
		t.Fatal("invoke failure must mark the score degraded")
	}
}

func TestScoreFallsBackOnMalformedOutput(t *testing.T) {
	outputs := []string{
		"I think the user feels sad.",
		`{"melancholy":1.0}`,
		`{"fear":-0.5,"joy":1.5}`,
		`{}`,
	}
	for _, output := range outputs {
		svc := newStubService(t, func(ctx context.Context, input map[string]any) (*schema.Message, error) {
			return &schema.Message{Content: output}, nil
		})

		score := svc.Score(context.Background(), "rough day at work")
		if !score.Degraded {
			t.Fatalf("output %q must degrade, got %+v", output, score)
		}
	}
}

func TestParseDistributionRenormalizes(t *testing.T) {
	dist, err := parseDistribution(`Here you go: {"joy":0.8,"neutral":0.8}`)
	if err != nil {
		t.Fatalf("parseDistribution err: %v", err)
	}
	if got := dist[analysis.Joy] + dist[analysis.Neutral]; got < 0.999 || got > 1.001 {
		t.Fatalf("expected renormalized mass 1, got %f", got)
	}
}
