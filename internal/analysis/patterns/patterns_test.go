package patterns

import (
	"os"
	"path/filepath"
	"testing"
)

func containsCategory(categories []Category, want Category) bool {
	for _, c := range categories {
		if c == want {
			return true
		}
	}
	return false
}

func TestSelfHarmVariants(t *testing.T) {
	set := Default()
	inputs := []string{
		"I want to cut my wrist",
		"thinking about ending it",
		"some days I just want to die",
		"I keep imagining how I could hurt myself tonight",
		"lately I feel suicidal",
	}
	for _, input := range inputs {
		if !containsCategory(set.Categories(input, CrisisCategories...), SelfHarm) {
			t.Fatalf("expected self_harm match for %q", input)
		}
	}
}

func TestHarmToOthersVariants(t *testing.T) {
	set := Default()
	inputs := []string{
		"I want to hurt someone at work",
		"thinking about hurting my boss",
	}
	for _, input := range inputs {
		if !containsCategory(set.Categories(input, CrisisCategories...), HarmToOthers) {
			t.Fatalf("expected harm_to_others match for %q", input)
		}
	}
}

func TestEmotionalCrisisMatch(t *testing.T) {
	set := Default()
	cats := set.Categories("I hate my life and want to give up", CrisisCategories...)
	if !containsCategory(cats, EmotionalCrisis) {
		t.Fatalf("expected emotional_crisis, got %v", cats)
	}
	if containsCategory(cats, SelfHarm) {
		t.Fatalf("did not expect self_harm for this input, got %v", cats)
	}
}

func TestBenignTextMatchesNothing(t *testing.T) {
	set := Default()
	inputs := []string{
		"I'm feeling really anxious about my exam tomorrow",
		"today was a pretty calm day, went for a walk",
	}
	for _, input := range inputs {
		if cats := set.Categories(input, CrisisCategories...); len(cats) != 0 {
			t.Fatalf("expected no crisis match for %q, got %v", input, cats)
		}
	}
}

func TestPIIMatches(t *testing.T) {
	set := Default()
	cases := map[string]Category{
		"reach me at jane@example.com":       PIIEmail,
		"call 555-867-5309 anytime":          PIIPhone,
		"my ssn is 123-45-6789":              PIISSN,
		"see https://example.com/help today": PIIURL,
	}
	for input, want := range cases {
		if !containsCategory(set.Categories(input, PIICategories...), want) {
			t.Fatalf("expected %s match for %q", want, input)
		}
	}
}

func TestMatchReturnsSpans(t *testing.T) {
	set := Default()
	spans := set.Match("I want to cut my wrist, honestly", SelfHarm)
	if len(spans) == 0 {
		t.Fatal("expected at least one span")
	}
	span := spans[0]
	if span.Category != SelfHarm {
		t.Fatalf("unexpected category: %s", span.Category)
	}
	if span.Text == "" || span.End <= span.Start {
		t.Fatalf("malformed span: %+v", span)
	}
}

func TestLoadFileMergesBuiltins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.json")
	payload := `{"version":"test-v1","categories":{"emotional_crisis":["totally\\s+defeated"]}}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write pattern file: %v", err)
	}

	set, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile err: %v", err)
	}
	if set.Version() != "test-v1" {
		t.Fatalf("unexpected version: %s", set.Version())
	}
	if !containsCategory(set.Categories("I feel totally defeated"), EmotionalCrisis) {
		t.Fatal("expected override rule to match")
	}
	// Builtin categories not named in the file must survive the merge.
	if !containsCategory(set.Categories("I want to cut my wrist"), SelfHarm) {
		t.Fatal("expected builtin self_harm rules to survive override")
	}
}

func TestCompileRejectsBadExpression(t *testing.T) {
	_, err := Compile("broken", map[Category][]string{SelfHarm: {"("}})
	if err == nil {
		t.Fatal("expected compile error")
	}
}
