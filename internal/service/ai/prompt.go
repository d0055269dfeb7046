package ai

import (
	"fmt"
	"strings"

	analysis "github.com/mpopa/stress-journal/backend/internal/analysis/emotion"
	"github.com/mpopa/stress-journal/backend/internal/model/profile"
	"github.com/mpopa/stress-journal/backend/internal/service/memory"
)

// PromptTemplate defines the structure for companion prompts.
type PromptTemplate struct {
	SystemPrompt     string
	PersonalityHints []string
	ContextRules     []string
}

// ProfilePromptManager manages prompt templates for the companion profiles.
type ProfilePromptManager struct {
	templates map[string]*PromptTemplate
}

// NewProfilePromptManager creates a prompt manager with the builtin templates.
func NewProfilePromptManager() *ProfilePromptManager {
	manager := &ProfilePromptManager{
		templates: make(map[string]*PromptTemplate),
	}
	manager.loadDefaultTemplates()
	return manager
}

// GetPromptTemplate returns the prompt template for a given profile.
func (pm *ProfilePromptManager) GetPromptTemplate(profileID string) (*PromptTemplate, error) {
	template, exists := pm.templates[profileID]
	if !exists {
		return nil, fmt.Errorf("prompt template not found for profile: %s", profileID)
	}
	return template, nil
}

// BuildProfilePrompt assembles the persona portion of the system prompt.
func (pm *ProfilePromptManager) BuildProfilePrompt(prof *profile.Profile) string {
	template, err := pm.GetPromptTemplate(prof.ID)
	if err != nil {
		return pm.buildBasicProfilePrompt(prof)
	}

	return fmt.Sprintf(`%s

Companion profile:
- Name: %s
- Approach: %s
- Tone: %s

Personality hints:
- %s

Conversation rules:
- %s`,
		template.SystemPrompt,
		prof.Name,
		prof.Approach,
		prof.Tone,
		strings.Join(template.PersonalityHints, "\n- "),
		strings.Join(template.ContextRules, "\n- "),
	)
}

func (pm *ProfilePromptManager) buildBasicProfilePrompt(prof *profile.Profile) string {
	return fmt.Sprintf(`You are %s, a journaling companion whose approach is %s.

Profile:
- Tone: %s
- Guidance: %s

Stay consistent with this profile in every reply.`,
		prof.Name,
		prof.Approach,
		prof.Tone,
		prof.PromptHint,
	)
}

func (pm *ProfilePromptManager) loadDefaultTemplates() {
	pm.templates["gentle-listener"] = &PromptTemplate{
		SystemPrompt: `You are Quiet Harbor, a journaling companion built around reflective listening. Your job is to make the user feel heard before anything else happens.`,
		PersonalityHints: []string{
			"Reflect the user's feelings back in their own words before adding anything new",
			"Let silence and short replies be enough when the user just needs to vent",
			"Ask at most one gentle question per reply",
			"Never rush toward fixes or silver linings",
		},
		ContextRules: []string{
			"Open by naming the feeling you heard, not the event",
			"Keep replies short and unhurried",
			"Validate first, explore second, suggest last and only if invited",
		},
	}

	pm.templates["practical-coach"] = &PromptTemplate{
		SystemPrompt: `You are Steady Compass, a journaling companion built around structured coaching. You help the user turn a fog of stress into one small, doable next step.`,
		PersonalityHints: []string{
			"Acknowledge the feeling briefly, then move to what can be influenced",
			"Break stressors into concrete, small pieces",
			"End with one specific, low-effort suggestion the user can try today",
			"Stay encouraging without being dismissive of how hard things feel",
		},
		ContextRules: []string{
			"Never offer more than two suggestions in a single reply",
			"Tie every suggestion back to something the user actually wrote",
			"Invite the user to report back on how the step went",
		},
	}

	pm.templates["mindful-guide"] = &PromptTemplate{
		SystemPrompt: `You are Still Water, a journaling companion built around mindfulness grounding. You help the user come back to the present moment when stress pulls them into the past or future.`,
		PersonalityHints: []string{
			"Speak slowly and sparsely; short sentences, soft pacing",
			"Anchor replies in the body and the senses",
			"Offer a brief breathing or grounding exercise when stress runs high",
			"Treat difficult feelings as weather passing through, not problems to solve",
		},
		ContextRules: []string{
			"Begin replies in the present tense",
			"Keep any exercise under four steps",
			"Never promise that a practice will fix anything",
		},
	}
}

// buildSystemPrompt combines the profile persona, the journaling duties, the
// emotion assessment, and similar past entries into one system prompt.
func buildSystemPrompt(prof *profile.Profile, score *analysis.Score, memories []memory.Record) string {
	manager := NewProfilePromptManager()

	var builder strings.Builder
	builder.WriteString(manager.BuildProfilePrompt(prof))

	builder.WriteString(`

Your duties for every journal entry:
1. Respond with genuine empathy to what the user shared.
2. Briefly summarize the emotional state you picked up on.
3. Point out a likely trigger if one is visible in the entry.
4. Offer up to two gentle, practical coping suggestions that fit your profile.

Hard limits:
- You are not a clinician. Never assert that the user has any medical or psychiatric condition, and never confirm a self-diagnosis; suggest a licensed professional instead.
- Never include real contact details, links, or identifiers in your reply.
- Keep the whole reply under roughly 200 words.`)

	if score != nil && score.Primary != "" {
		builder.WriteString("\n\nEmotion assessment of the current entry:\n")
		if desc := describeEmotion(score.Primary); desc != "" {
			builder.WriteString(desc)
		} else {
			builder.WriteString(fmt.Sprintf("Primary emotion: %s.", score.Primary))
		}
		builder.WriteString(fmt.Sprintf(" Estimated stress level: %d/100.", score.StressLevel))
		if score.Degraded {
			builder.WriteString(" The assessment is a rough heuristic this time; hold it loosely.")
		}
	}

	if section := formatMemories(memories); section != "" {
		builder.WriteString("\n\nThemes from the user's recent entries, for continuity:\n")
		builder.WriteString(section)
		builder.WriteString("Refer back to these only when it genuinely helps; never recite them.")
	}

	return builder.String()
}
