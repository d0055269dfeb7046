package patterns

import "sync"

// BuiltinVersion tags the rule corpus shipped with the binary.
const BuiltinVersion = "builtin-2025.08"

// conditionNames covers the condition vocabulary recognized by the
// diagnosis-assertion rules.
const conditionNames = `(?:depression|anxiety(?:\s+disorder)?|adhd|ocd|ptsd|bipolar(?:\s+disorder)?|schizophrenia|autism|alzheimer'?s?|dementia|parkinson'?s?|an\s+eating\s+disorder|burnout)`

// builtinRules is the sub-phrase corpus. Crisis rules pair a harm verb with a
// first-person or third-person target so lexical variants are still caught;
// exact-phrase equality is never assumed.
var builtinRules = map[Category][]string{
	SelfHarm: {
		`(?:kill|kills|killing|hurt|hurts|hurting|harm|harms|harming|cut|cuts|cutting|stab|stabbing|poison|poisoning|overdose|hang|hanging)\s+(?:\w+['’]?\w*\s+){0,3}(?:myself|my\s+(?:body|wrist|wrists|arm|arms|leg|legs|head|skin))`,
		`\bkill\s+me\b`,
		`\bsuicid\w*`,
		`want(?:ed)?\s+to\s+die\b`,
		`end(?:ing)?\s+it\s+all\b`,
		`thinking\s+(?:about|of)\s+ending\s+it\b`,
		`don'?t\s+want\s+to\s+(?:live|be\s+alive|be\s+here\s+anymore)`,
		`\bself[\s\-]?harm\w*`,
		`take\s+my\s+(?:own\s+)?life`,
	},
	HarmToOthers: {
		`(?:kill|kills|killing|hurt|hurts|hurting|harm|harms|harming|attack|attacking|stab|stabbing|shoot|shooting|punch|punching|strangle|strangling)\s+(?:\w+['’]?\w*\s+){0,3}(?:someone|somebody|people|him|her|them|my\s+(?:boss|teacher|parent|parents|friend|family|partner|colleague|coworker|roommate|neighbor|sibling|brother|sister|mother|father|mom|dad))`,
		`want\s+to\s+(?:kill|hurt|harm|attack)\s+(?:someone|somebody|people|him|her|them)`,
		`thinking\s+(?:about|of)\s+(?:killing|hurting|harming|attacking)\s+(?:someone|somebody|people|him|her|them|my\s+\w+)`,
		`make\s+(?:him|her|them)\s+pay\s+with\s+(?:his|her|their)\s+(?:life|blood)`,
	},
	EmotionalCrisis: {
		`\bhopeless\b`,
		`\bworthless\b`,
		`hate\s+my\s+life`,
		`\bgive\s+up\b`,
		`\bgiving\s+up\s+on\s+everything`,
		`better\s+off\s+dead`,
		`no\s+(?:point|reason)\s+(?:in\s+)?(?:anything|living|going\s+on|trying)`,
		`nothing\s+matters\s*(?:anymore)?`,
		`can'?t\s+(?:go|carry)\s+on\b`,
		`(?:i'?m|i\s+am|feel\s+like)\s+a\s+burden`,
	},
	DiagnosisAssertion: {
		`\bi\s+(?:was|am|have\s+been|'?ve\s+(?:just\s+)?been|just\s+got|got|recently\s+got)\s+(?:just\s+|recently\s+)?diagnosed\s+with\s+\w+`,
		`\b(?:doctor|physician|psychiatrist|therapist)\s+(?:told|said|diagnosed)(?:\s+me)?[^.!?]{0,40}\b(?:with|have|has)\s+\w+`,
		`\bi\s+(?:have|'?ve\s+got|got)\s+(?:the\s+)?` + conditionNames + `\b`,
	},
	PIIEmail: {
		`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
	},
	PIIPhone: {
		`(?:\+\d{1,2}[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}\b`,
	},
	PIISSN: {
		`\b\d{3}-\d{2}-\d{4}\b`,
	},
	PIIURL: {
		`https?://[^\s<>()\[\]{}"']+`,
		`\bwww\.[^\s<>()\[\]{}"']+`,
	},
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Default returns the compiled builtin pattern set. The builtin corpus is
// vetted, so compilation failure is a programming error.
func Default() *Set {
	defaultOnce.Do(func() {
		set, err := Compile(BuiltinVersion, builtinRules)
		if err != nil {
			panic(err)
		}
		defaultSet = set
	})
	return defaultSet
}
