package safety

import (
	"context"

	analysis "github.com/mpopa/stress-journal/backend/internal/analysis/emotion"
	"github.com/mpopa/stress-journal/backend/internal/guardrail"
	emotionsvc "github.com/mpopa/stress-journal/backend/internal/service/emotion"
)

// Service is the single entry point the rest of the backend uses for content
// safety and emotion scoring. Handlers never talk to the guardrail pieces
// directly; the pipeline fixes their order and keeps the invariants in one
// place.
type Service struct {
	validator  *guardrail.InputValidator
	classifier *guardrail.CrisisClassifier
	filter     *guardrail.OutputFilter
	emotions   *emotionsvc.Service
}

// NewService wires the pipeline. All collaborators are required.
func NewService(
	validator *guardrail.InputValidator,
	classifier *guardrail.CrisisClassifier,
	filter *guardrail.OutputFilter,
	emotions *emotionsvc.Service,
) *Service {
	return &Service{
		validator:  validator,
		classifier: classifier,
		filter:     filter,
		emotions:   emotions,
	}
}

// Outcome is the pipeline verdict for one journal entry.
type Outcome struct {
	Validation guardrail.ValidationResult `json:"validation"`
	Crisis     guardrail.CrisisAssessment `json:"crisis"`
	Score      *analysis.Score            `json:"score,omitempty"`
	// Forward reports whether normal journal processing may continue. When
	// false, Reply (if set) is the mandated crisis response that replaces it.
	Forward bool   `json:"forward"`
	Reply   string `json:"reply,omitempty"`
}

// Process runs one entry through the full intake pipeline: shape and length
// validation, crisis screening, then emotion scoring for accepted entries.
// A crisis match short-circuits scoring; the templated response is the only
// thing the user should see.
func (s *Service) Process(ctx context.Context, text string) Outcome {
	validation := s.validator.Validate(text)

	if validation.Reason == guardrail.ReasonContentFlagged {
		assessment := s.classifier.Classify(validation.MatchedCategories, validation.MatchedSpans)
		return Outcome{
			Validation: validation,
			Crisis:     assessment,
			Forward:    false,
			Reply:      assessment.Response,
		}
	}

	if !validation.Accepted {
		return Outcome{
			Validation: validation,
			Crisis:     guardrail.CrisisAssessment{Severity: guardrail.SeverityNone},
			Forward:    false,
		}
	}

	score := s.emotions.Score(ctx, text)
	return Outcome{
		Validation: validation,
		Crisis:     guardrail.CrisisAssessment{Severity: guardrail.SeverityNone},
		Score:      &score,
		Forward:    true,
	}
}

// ValidateAndClassify runs only the guardrail half of the pipeline. Used by
// the standalone safety-check endpoint and the model-facing tool.
func (s *Service) ValidateAndClassify(text string) (guardrail.ValidationResult, guardrail.CrisisAssessment) {
	validation := s.validator.Validate(text)
	if validation.Reason != guardrail.ReasonContentFlagged {
		return validation, guardrail.CrisisAssessment{Severity: guardrail.SeverityNone}
	}
	return validation, s.classifier.Classify(validation.MatchedCategories, validation.MatchedSpans)
}

// ScoreEmotion scores text without input validation. Callers that need the
// guardrails should use Process.
func (s *Service) ScoreEmotion(ctx context.Context, text string) analysis.Score {
	return s.emotions.Score(ctx, text)
}

// FilterOutput post-processes agent-authored text. Every reply must pass
// through here before leaving the service, including crisis templates.
func (s *Service) FilterOutput(text string) guardrail.FilterResult {
	return s.filter.Filter(text)
}
