package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/swibrow/recall/internal/config"
)

type Anthropic struct {
	client *anthropic.Client
	model  string
}

func NewAnthropic(cfg config.AnthropicConfig) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key not set (set ANTHROPIC_API_KEY or configure in ~/.config/recall/config.yaml)")
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))

	return &Anthropic{
		client: &client,
		model:  cfg.Model,
	}, nil
}

func (a *Anthropic) Complete(ctx context.Context, systemPrompt string, turns []Turn, query string) (string, error) {
	var messages []anthropic.MessageParam
	for _, t := range usableTurns(turns) {
		messages = append(messages,
			anthropic.NewUserMessage(anthropic.NewTextBlock(t.Query)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Response)),
		)
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(query)))

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}

	return strings.Join(parts, ""), nil
}
