package patterns

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
)

// Category names one purpose-disjoint group of match rules. Matched spans of
// different categories may still overlap in the text.
type Category string

const (
	SelfHarm           Category = "self_harm"
	HarmToOthers       Category = "harm_to_others"
	EmotionalCrisis    Category = "emotional_crisis"
	DiagnosisAssertion Category = "diagnosis_assertion"
	PIIEmail           Category = "pii_email"
	PIIPhone           Category = "pii_phone"
	PIISSN             Category = "pii_ssn"
	PIIURL             Category = "pii_url"
)

// CrisisCategories lists the categories screened by the input guardrail, in
// severity precedence order.
var CrisisCategories = []Category{SelfHarm, HarmToOthers, EmotionalCrisis}

// PIICategories lists the categories redacted by the output guardrail.
var PIICategories = []Category{PIIEmail, PIIPhone, PIISSN, PIIURL}

// IsCrisis reports whether the category carries immediate-safety weight.
func (c Category) IsCrisis() bool {
	return c == SelfHarm || c == HarmToOthers || c == EmotionalCrisis
}

// IsPII reports whether the category describes personal data to redact.
func (c Category) IsPII() bool {
	return c == PIIEmail || c == PIIPhone || c == PIISSN || c == PIIURL
}

// Span records a single rule hit inside the scanned text.
type Span struct {
	Category Category `json:"category"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Text     string   `json:"text"`
}

// Set is an immutable compiled pattern set. Safe for unsynchronized
// concurrent reads once built.
type Set struct {
	version string
	rules   map[Category][]*regexp.Regexp
}

// Version identifies which pattern corpus this set was compiled from.
func (s *Set) Version() string {
	return s.version
}

// Compile builds a Set from raw expressions. Every expression is compiled
// case-insensitively; any match within a category triggers the category, so
// rule order is irrelevant.
func Compile(version string, raw map[Category][]string) (*Set, error) {
	set := &Set{
		version: version,
		rules:   make(map[Category][]*regexp.Regexp, len(raw)),
	}
	for category, exprs := range raw {
		for _, expr := range exprs {
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				return nil, fmt.Errorf("pattern set %s: category %s: %w", version, category, err)
			}
			set.rules[category] = append(set.rules[category], re)
		}
	}
	return set, nil
}

// Match scans text against the requested categories and returns every hit.
// With no categories given, all compiled categories are scanned.
func (s *Set) Match(text string, categories ...Category) []Span {
	if len(categories) == 0 {
		categories = s.categoriesInOrder()
	}

	var spans []Span
	for _, category := range categories {
		for _, re := range s.rules[category] {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				spans = append(spans, Span{
					Category: category,
					Start:    loc[0],
					End:      loc[1],
					Text:     text[loc[0]:loc[1]],
				})
			}
		}
	}
	return spans
}

// Categories returns the distinct categories matched in text, preserving the
// order the categories were requested in.
func (s *Set) Categories(text string, categories ...Category) []Category {
	if len(categories) == 0 {
		categories = s.categoriesInOrder()
	}

	var matched []Category
	for _, category := range categories {
		for _, re := range s.rules[category] {
			if re.MatchString(text) {
				matched = append(matched, category)
				break
			}
		}
	}
	return matched
}

// Rules returns the compiled expressions for one category. The output filter
// uses these directly for replacement.
func (s *Set) Rules(category Category) []*regexp.Regexp {
	return s.rules[category]
}

func (s *Set) categoriesInOrder() []Category {
	out := make([]Category, 0, len(s.rules))
	for category := range s.rules {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// filePayload is the on-disk override format: a version string plus raw
// expressions per category.
type filePayload struct {
	Version    string                `json:"version"`
	Categories map[Category][]string `json:"categories"`
}

// LoadFile compiles a pattern set from a JSON override file. Categories
// missing from the file fall back to the builtin rules so an override never
// silently disables a screening layer.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}

	var payload filePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse pattern file %s: %w", path, err)
	}
	if payload.Version == "" {
		return nil, fmt.Errorf("pattern file %s: missing version", path)
	}

	merged := make(map[Category][]string, len(builtinRules))
	for category, exprs := range builtinRules {
		merged[category] = exprs
	}
	for category, exprs := range payload.Categories {
		merged[category] = exprs
	}

	return Compile(payload.Version, merged)
}
