package guardrail

import (
	"github.com/mpopa/stress-journal/backend/internal/analysis/patterns"
)

// Placeholders substituted for each PII category. None of them re-match any
// pattern rule, which is what makes Filter idempotent.
var piiPlaceholders = map[patterns.Category]string{
	patterns.PIIEmail: "[REDACTED EMAIL]",
	patterns.PIIPhone: "[REDACTED PHONE]",
	patterns.PIISSN:   "[REDACTED ID]",
	patterns.PIIURL:   "[REDACTED LINK]",
}

// redactionOrder fixes the scan order so overlapping digit runs resolve the
// same way on every pass. Government IDs go before phone numbers.
var redactionOrder = []patterns.Category{
	patterns.PIIEmail,
	patterns.PIIURL,
	patterns.PIISSN,
	patterns.PIIPhone,
}

// Redaction records one applied replacement.
type Redaction struct {
	Category    patterns.Category `json:"category"`
	Placeholder string            `json:"placeholder"`
	Count       int               `json:"count"`
}

// FilterResult is the outcome of post-processing one piece of generated text.
type FilterResult struct {
	Text                string      `json:"text"`
	Redactions          []Redaction `json:"redactionsApplied,omitempty"`
	DiagnosisSuppressed bool        `json:"diagnosisClaimsSuppressed,omitempty"`
}

// OutputFilter post-processes agent-authored text before delivery: PII
// redaction plus diagnosis-assertion suppression. Idempotent by
// construction; filtering already-filtered text changes nothing.
type OutputFilter struct {
	source *patterns.Source
}

// NewOutputFilter builds the filter over the active pattern source.
func NewOutputFilter(source *patterns.Source) *OutputFilter {
	return &OutputFilter{source: source}
}

// Filter redacts PII and suppresses assertive diagnosis predicates. PII and
// diagnosis handling are independent passes; both outcomes are recorded.
func (f *OutputFilter) Filter(text string) FilterResult {
	set := f.source.Current()
	result := FilterResult{Text: text}

	for _, category := range redactionOrder {
		placeholder := piiPlaceholders[category]
		count := 0
		for _, re := range set.Rules(category) {
			matches := re.FindAllStringIndex(result.Text, -1)
			if len(matches) == 0 {
				continue
			}
			count += len(matches)
			result.Text = re.ReplaceAllString(result.Text, placeholder)
		}
		if count > 0 {
			result.Redactions = append(result.Redactions, Redaction{
				Category:    category,
				Placeholder: placeholder,
				Count:       count,
			})
		}
	}

	filtered, suppressed := suppressAgentDiagnosis(set, result.Text)
	result.Text = filtered
	result.DiagnosisSuppressed = suppressed

	return result
}
