package guardrail

import (
	"fmt"
	"strings"

	"github.com/mpopa/stress-journal/backend/internal/analysis/patterns"
)

// Severity is the closed set of crisis tiers. Exactly one tier is assigned
// per message.
type Severity string

const (
	SeverityNone            Severity = "none"
	SeveritySelfHarm        Severity = "self_harm"
	SeverityHarmToOthers    Severity = "harm_to_others"
	SeverityEmotionalCrisis Severity = "emotional_crisis"
)

// severityPrecedence resolves simultaneous category matches. Self-harm
// outranks everything: a missed self-harm signal has the highest
// immediate-safety cost.
var severityPrecedence = []struct {
	category patterns.Category
	severity Severity
}{
	{patterns.SelfHarm, SeveritySelfHarm},
	{patterns.HarmToOthers, SeverityHarmToOthers},
	{patterns.EmotionalCrisis, SeverityEmotionalCrisis},
}

// CrisisAssessment selects the response that replaces normal message
// processing for a flagged entry.
type CrisisAssessment struct {
	Severity     Severity        `json:"severity"`
	MatchedSpans []patterns.Span `json:"-"`
	TemplateID   string          `json:"templateId,omitempty"`
	Response     string          `json:"response,omitempty"`
}

// ResponseTemplate holds the tier-specific crisis reply.
type ResponseTemplate struct {
	ID        string
	Preface   string
	Resources []string
	Hotline   string
}

// Render assembles the full crisis reply. The closing line makes explicit
// that this response replaces, not supplements, normal processing.
func (t ResponseTemplate) Render() string {
	var b strings.Builder
	b.WriteString(t.Preface)
	b.WriteString("\n\n")
	for _, resource := range t.Resources {
		b.WriteString("- ")
		b.WriteString(resource)
		b.WriteString("\n")
	}
	if t.Hotline != "" {
		fmt.Fprintf(&b, "\nIf you are in immediate danger, call %s now.\n", t.Hotline)
	}
	b.WriteString("\nThis reply takes the place of the usual journal response; your entry was not processed further.")
	return b.String()
}

// DefaultTemplates returns the builtin crisis templates keyed by severity.
// hotline overrides the crisis-line contact identifier when non-empty.
func DefaultTemplates(hotline string) map[Severity]ResponseTemplate {
	if hotline == "" {
		hotline = "988"
	}
	return map[Severity]ResponseTemplate{
		SeveritySelfHarm: {
			ID:      "crisis-self-harm",
			Preface: "I'm really concerned about your safety right now, and I'm glad you put this into words. You deserve immediate, human support.",
			Resources: []string{
				fmt.Sprintf("Call or text %s (Suicide & Crisis Lifeline), available 24/7.", hotline),
				"Text HELLO to 741741 to reach the Crisis Text Line.",
				"Outside the US, findahelpline.com lists local services.",
			},
			Hotline: hotline,
		},
		SeverityHarmToOthers: {
			ID:      "crisis-harm-to-others",
			Preface: "What you're describing sounds overwhelming, and it involves someone else's safety as well as yours. This needs support beyond a journal.",
			Resources: []string{
				"If anyone is in immediate danger, contact emergency services right away.",
				"An urgent psychiatric evaluation at the nearest emergency department can help you regain control.",
				fmt.Sprintf("The %s crisis line can also talk this through with you, day or night.", hotline),
			},
			Hotline: hotline,
		},
		SeverityEmotionalCrisis: {
			ID:      "crisis-emotional",
			Preface: "It sounds like you're carrying a very heavy emotional load right now. You don't have to face this alone.",
			Resources: []string{
				"A therapist can help; psychologytoday.com/therapists lets you search by location and specialty.",
				fmt.Sprintf("Trained counselors at %s listen 24/7, no crisis is too small.", hotline),
				"Reaching out to one trusted person today can make the load lighter.",
			},
			Hotline: hotline,
		},
	}
}

// CrisisClassifier maps screening results onto severity tiers and response
// templates.
type CrisisClassifier struct {
	templates map[Severity]ResponseTemplate
}

// NewCrisisClassifier builds a classifier. Missing templates fall back to
// the builtin ones so every tier always has exactly one response.
func NewCrisisClassifier(templates map[Severity]ResponseTemplate) *CrisisClassifier {
	merged := DefaultTemplates("")
	for severity, template := range templates {
		merged[severity] = template
	}
	return &CrisisClassifier{templates: merged}
}

// Classify assigns the severity tier for the matched categories. Never
// fails: an empty input yields SeverityNone and the message proceeds.
func (c *CrisisClassifier) Classify(matched []patterns.Category, spans []patterns.Span) CrisisAssessment {
	for _, entry := range severityPrecedence {
		for _, category := range matched {
			if category != entry.category {
				continue
			}
			template := c.templates[entry.severity]
			return CrisisAssessment{
				Severity:     entry.severity,
				MatchedSpans: spans,
				TemplateID:   template.ID,
				Response:     template.Render(),
			}
		}
	}
	return CrisisAssessment{Severity: SeverityNone}
}
