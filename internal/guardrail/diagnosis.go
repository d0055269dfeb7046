package guardrail

import (
	"regexp"

	"github.com/mpopa/stress-journal/backend/internal/analysis/patterns"
)

// Second-person assertive diagnosis predicates. These only matter on the
// output side: the harm is the agent originating or reinforcing a diagnosis,
// so agent-authored text is checked against both the first-person rules from
// the pattern library and these agent-voice forms.
var agentDiagnosisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\byou\s+(?:clearly\s+|probably\s+|likely\s+|definitely\s+|may\s+|might\s+|must\s+)?(?:have|suffer\s+from|are\s+suffering\s+from)\s+(?:clinical\s+|severe\s+|chronic\s+)?(?:depression|anxiety(?:\s+disorder)?|adhd|ocd|ptsd|bipolar(?:\s+disorder)?|schizophrenia|autism|alzheimer'?s?|dementia|parkinson'?s?|an?\s+(?:anxiety|panic|eating|mood|personality)\s+disorder)\b`),
	regexp.MustCompile(`(?i)\b(?:this|that|it)\s+(?:sounds\s+like|is|looks\s+like)\s+(?:clinical\s+|severe\s+|textbook\s+)?(?:depression|an?\s+(?:anxiety|panic|eating|mood|personality)\s+disorder|adhd|ocd|ptsd|bipolar\s+disorder)\b`),
	regexp.MustCompile(`(?i)\bi\s+(?:would\s+)?diagnose\s+you\b`),
	regexp.MustCompile(`(?i)\byou\s+(?:should\s+be|are)\s+diagnosed\s+with\s+\w+`),
}

// diagnosisDisclaimer replaces a suppressed assertive span. Worded so that
// refiltering it never matches a diagnosis rule again.
const diagnosisDisclaimer = "I can't offer a medical assessment; a licensed clinician is the right person to explore that with you."

// DetectDiagnosisAssertion reports whether text contains an assertive
// first-person diagnosis claim. Reflective discourse about an existing
// diagnosis ("worried about my depression diagnosis") does not trigger.
func DetectDiagnosisAssertion(set *patterns.Set, text string) bool {
	return len(set.Categories(text, patterns.DiagnosisAssertion)) > 0
}

// suppressAgentDiagnosis rewrites assertive diagnosis predicates in
// agent-authored text, covering first-person and agent-voice forms. Returns
// the rewritten text and whether anything was suppressed.
func suppressAgentDiagnosis(set *patterns.Set, text string) (string, bool) {
	suppressed := false

	for _, re := range set.Rules(patterns.DiagnosisAssertion) {
		if re.MatchString(text) {
			text = re.ReplaceAllString(text, diagnosisDisclaimer)
			suppressed = true
		}
	}
	for _, re := range agentDiagnosisPatterns {
		if re.MatchString(text) {
			text = re.ReplaceAllString(text, diagnosisDisclaimer)
			suppressed = true
		}
	}

	return text, suppressed
}
