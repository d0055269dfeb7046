package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	analysis "github.com/mpopa/stress-journal/backend/internal/analysis/emotion"
	"github.com/mpopa/stress-journal/backend/internal/config"
	"github.com/mpopa/stress-journal/backend/internal/model/journal"
	"github.com/mpopa/stress-journal/backend/internal/model/profile"
	"github.com/mpopa/stress-journal/backend/internal/service/memory"
)

// Service generates the companion's journal responses.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService builds the chat model and response chain from configuration.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{entry}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile response chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// GetChatModel returns the underlying chat model so other services can reuse
// the same instance.
func (s *Service) GetChatModel() model.ChatModel {
	return s.chatModel
}

// GenerateResponse produces the companion reply for one accepted journal
// entry. The caller is responsible for running the result through the output
// filter before delivery.
func (s *Service) GenerateResponse(ctx context.Context, sessionID string, prof *profile.Profile, messages []journal.Message, entry string, score *analysis.Score, memories []memory.Record) (*schema.Message, error) {
	input := s.buildChainInput(prof, messages, entry, score, memories)

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to run response chain: %w", err)
	}

	log.Printf("[ai] generated response for session=%s, profile=%s, length=%d", sessionID, prof.ID, len(response.Content))
	return response, nil
}

func (s *Service) buildChainInput(prof *profile.Profile, messages []journal.Message, entry string, score *analysis.Score, memories []memory.Record) map[string]any {
	return map[string]any{
		"system":  buildSystemPrompt(prof, score, memories),
		"history": buildHistoryMessages(messages),
		"entry":   entry,
	}
}

func buildHistoryMessages(messages []journal.Message) []*schema.Message {
	const historyLimit = 10

	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Role {
		case journal.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case journal.RoleAgent:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return history
}

func describeEmotion(primary analysis.Emotion) string {
	switch primary {
	case analysis.Joy:
		return "The user sounds upbeat. Celebrate the good moment with them and help them notice what made it possible."
	case analysis.Sadness:
		return "The user sounds low or hurt. Lead with warmth and validation before anything practical."
	case analysis.Anger:
		return "The user sounds frustrated or angry. Stay steady, acknowledge the feeling, and avoid taking sides."
	case analysis.Fear:
		return "The user sounds worried or anxious. Ground them gently and keep suggestions small and concrete."
	case analysis.Disgust:
		return "The user sounds repelled or resentful about something. Name the feeling without amplifying it."
	case analysis.Surprise:
		return "The user was caught off guard by something. Help them sort out what the event means to them."
	case analysis.Neutral:
		return "The user sounds settled. Keep a natural, curious tone and follow their lead."
	default:
		return ""
	}
}

func formatMemories(memories []memory.Record) string {
	if len(memories) == 0 {
		return ""
	}

	var builder strings.Builder
	for _, record := range memories {
		text := strings.TrimSpace(record.Text)
		if text == "" {
			continue
		}
		builder.WriteString("- ")
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String()
}
