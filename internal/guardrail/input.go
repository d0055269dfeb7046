package guardrail

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mpopa/stress-journal/backend/internal/analysis/patterns"
)

// RejectionReason enumerates why the input guardrail refused a message.
type RejectionReason string

const (
	ReasonNone           RejectionReason = ""
	ReasonEmpty          RejectionReason = "empty"
	ReasonLength         RejectionReason = "length"
	ReasonContentFlagged RejectionReason = "content_flagged"
)

// ValidationResult is the terminal outcome of validating one message.
type ValidationResult struct {
	Accepted          bool                `json:"accepted"`
	Reason            RejectionReason     `json:"rejectionReason,omitempty"`
	Guidance          string              `json:"guidance,omitempty"`
	MatchedCategories []patterns.Category `json:"matchedCategories,omitempty"`
	MatchedSpans      []patterns.Span     `json:"-"`
	// DiagnosisClaim marks a first-person diagnosis assertion. Flagged for
	// the audit trail but never blocks: users may discuss their own
	// diagnoses, the agent just must not affirm them.
	DiagnosisClaim bool `json:"diagnosisClaim,omitempty"`
}

// InputValidator screens raw user input before it can reach the language
// model. Pure function of the text and the active pattern set; the audit
// side effect is fire-and-forget.
type InputValidator struct {
	minChars int
	maxChars int
	source   *patterns.Source
	audit    *AuditSink
}

// NewInputValidator builds a validator with the given length bounds.
// Non-positive bounds fall back to the defaults of 2 and 5000 characters.
func NewInputValidator(minChars, maxChars int, source *patterns.Source, audit *AuditSink) *InputValidator {
	if minChars <= 0 {
		minChars = 2
	}
	if maxChars <= 0 {
		maxChars = 5000
	}
	return &InputValidator{
		minChars: minChars,
		maxChars: maxChars,
		source:   source,
		audit:    audit,
	}
}

// Validate checks shape and length, then screens against the crisis
// categories of the active pattern set. Any category match rejects with
// reason content_flagged and reports to the audit sink.
func (v *InputValidator) Validate(text string) ValidationResult {
	if strings.TrimSpace(text) == "" {
		return ValidationResult{
			Accepted: false,
			Reason:   ReasonEmpty,
			Guidance: "Your entry is empty. Write a few words about how you are feeling.",
		}
	}

	length := utf8.RuneCountInString(text)
	if length < v.minChars {
		return ValidationResult{
			Accepted: false,
			Reason:   ReasonLength,
			Guidance: fmt.Sprintf("Your entry is too short. Please write at least %d characters.", v.minChars),
		}
	}
	if length > v.maxChars {
		return ValidationResult{
			Accepted: false,
			Reason:   ReasonLength,
			Guidance: fmt.Sprintf("Your entry is too long. Please keep it under %d characters.", v.maxChars),
		}
	}

	set := v.source.Current()
	matched := set.Categories(text, patterns.CrisisCategories...)
	diagnosisClaim := len(set.Categories(text, patterns.DiagnosisAssertion)) > 0

	if len(matched) > 0 {
		spans := set.Match(text, matched...)
		v.report(matched)
		return ValidationResult{
			Accepted:          false,
			Reason:            ReasonContentFlagged,
			Guidance:          "This entry touches on content we handle with extra care.",
			MatchedCategories: matched,
			MatchedSpans:      spans,
			DiagnosisClaim:    diagnosisClaim,
		}
	}

	if diagnosisClaim {
		v.report([]patterns.Category{patterns.DiagnosisAssertion})
	}

	return ValidationResult{Accepted: true, DiagnosisClaim: diagnosisClaim}
}

// report sends the mandated audit event: critical for crisis categories,
// warning for everything else. Never blocks.
func (v *InputValidator) report(categories []patterns.Category) {
	if v.audit == nil {
		return
	}

	level := AuditWarning
	for _, c := range categories {
		if c.IsCrisis() {
			level = AuditCritical
			break
		}
	}
	v.audit.Report(AuditEvent{
		Level:      level,
		Categories: categories,
		Detail:     "input screening flagged content",
	})
}
