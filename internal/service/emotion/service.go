package emotion

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	analysis "github.com/mpopa/stress-journal/backend/internal/analysis/emotion"
)

// Config controls the emotion scoring service.
type Config struct {
	Enabled bool
	Weights analysis.Weights
}

// Service produces the fused emotion Score for a journal entry. It runs a
// categorical LLM classifier when one is configured and falls back to the
// deterministic polarity heuristic otherwise, flagging those results as
// degraded.
type Service struct {
	enabled bool
	weights analysis.Weights
	invoke  func(ctx context.Context, input map[string]any) (*schema.Message, error)
}

// NewService creates the emotion scoring service. chatModel may reuse the
// instance that backs journal responses; pass nil to run degraded-only.
func NewService(ctx context.Context, chatModel model.ChatModel, cfg Config) (*Service, error) {
	weights := cfg.Weights
	if weights == (analysis.Weights{}) {
		weights = analysis.DefaultWeights()
	}

	svc := &Service{
		enabled: cfg.Enabled && chatModel != nil,
		weights: weights,
	}

	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(classifierSystemPrompt),
		schema.UserMessage(classifierUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile emotion classifier chain: %w", err)
	}

	svc.invoke = func(ctx context.Context, input map[string]any) (*schema.Message, error) {
		return runnable.Invoke(ctx, input)
	}
	return svc, nil
}

// Enabled reports whether the categorical classifier is available.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.invoke != nil
}

// Score analyzes one journal entry. It always returns a usable Score:
// classifier failures of any kind (unavailable model, invoke error, empty or
// unparsable output) switch to the polarity-only path and set Degraded.
func (s *Service) Score(ctx context.Context, text string) analysis.Score {
	polarity := analysis.Polarity(text)

	if !s.Enabled() {
		return s.degradedScore(polarity)
	}

	msg, err := s.invoke(ctx, map[string]any{"entry": strings.TrimSpace(text)})
	if err != nil {
		log.Printf("[emotion] classifier invoke failed, using polarity fallback: %v", err)
		return s.degradedScore(polarity)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		log.Printf("[emotion] classifier returned empty output, using polarity fallback")
		return s.degradedScore(polarity)
	}

	dist, err := parseDistribution(msg.Content)
	if err != nil {
		log.Printf("[emotion] classifier output parse failed, using polarity fallback: %v", err)
		return s.degradedScore(polarity)
	}

	return analysis.Aggregate(dist, polarity, s.weights)
}

func (s *Service) degradedScore(polarity float64) analysis.Score {
	score := analysis.Aggregate(analysis.FallbackDistribution(polarity), polarity, s.weights)
	score.Degraded = true
	return score
}

// parseDistribution extracts the JSON object from the model output and
// normalizes it into a probability distribution over the taxonomy. Labels
// outside the taxonomy are rejected rather than silently dropped so prompt
// drift shows up as a degraded result, not a skewed one.
func parseDistribution(content string) (analysis.Distribution, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	raw := map[string]float64{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty distribution")
	}

	dist := analysis.Distribution{}
	total := 0.0
	for label, prob := range raw {
		emotion, ok := analysis.Parse(strings.ToLower(strings.TrimSpace(label)))
		if !ok {
			return nil, fmt.Errorf("unknown emotion label %q", label)
		}
		if prob < 0 {
			return nil, fmt.Errorf("negative probability for %s", emotion)
		}
		dist[emotion] = prob
		total += prob
	}
	if total <= 0 {
		return nil, fmt.Errorf("distribution has no mass")
	}

	// Renormalize so slightly off model outputs still sum to one.
	for emotion, prob := range dist {
		dist[emotion] = prob / total
	}
	return dist, nil
}

const classifierSystemPrompt = "You are an emotion analyst for a private journaling product. " +
	"Read the journal entry and estimate a probability distribution over exactly these seven emotions: " +
	"anger, disgust, fear, joy, neutral, sadness, surprise. " +
	"Return only a JSON object whose keys are those seven labels and whose values are numbers in [0,1] summing to 1. " +
	"No prose, no markdown, no extra fields."

const classifierUserPrompt = "Journal entry:\n{entry}\n\nReturn the JSON distribution."
