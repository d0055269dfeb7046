package guardrail

import (
	"strings"
	"testing"

	"github.com/mpopa/stress-journal/backend/internal/analysis/patterns"
)

func TestClassifySeverityPrecedence(t *testing.T) {
	c := NewCrisisClassifier(nil)

	// Self-harm wins regardless of position in the matched list.
	assessment := c.Classify([]patterns.Category{patterns.EmotionalCrisis, patterns.SelfHarm}, nil)
	if assessment.Severity != SeveritySelfHarm {
		t.Fatalf("expected self_harm severity, got %s", assessment.Severity)
	}

	assessment = c.Classify([]patterns.Category{patterns.EmotionalCrisis, patterns.HarmToOthers}, nil)
	if assessment.Severity != SeverityHarmToOthers {
		t.Fatalf("expected harm_to_others severity, got %s", assessment.Severity)
	}

	assessment = c.Classify([]patterns.Category{patterns.EmotionalCrisis}, nil)
	if assessment.Severity != SeverityEmotionalCrisis {
		t.Fatalf("expected emotional_crisis severity, got %s", assessment.Severity)
	}
}

func TestClassifyEmptyIsNone(t *testing.T) {
	c := NewCrisisClassifier(nil)
	assessment := c.Classify(nil, nil)
	if assessment.Severity != SeverityNone {
		t.Fatalf("expected none severity, got %s", assessment.Severity)
	}
	if assessment.Response != "" {
		t.Fatal("no response template expected for severity none")
	}
}

func TestEveryTierHasTemplate(t *testing.T) {
	c := NewCrisisClassifier(nil)
	for _, category := range patterns.CrisisCategories {
		assessment := c.Classify([]patterns.Category{category}, nil)
		if assessment.TemplateID == "" {
			t.Fatalf("severity %s has no template", assessment.Severity)
		}
		if assessment.Response == "" {
			t.Fatalf("severity %s has no rendered response", assessment.Severity)
		}
		if !strings.Contains(assessment.Response, "takes the place of the usual journal response") {
			t.Fatalf("severity %s response missing replacement notice", assessment.Severity)
		}
	}
}

func TestSelfHarmTemplateCarriesHotline(t *testing.T) {
	c := NewCrisisClassifier(DefaultTemplates("116 123"))
	assessment := c.Classify([]patterns.Category{patterns.SelfHarm}, nil)
	if !strings.Contains(assessment.Response, "116 123") {
		t.Fatalf("expected configured hotline in response:\n%s", assessment.Response)
	}
}
