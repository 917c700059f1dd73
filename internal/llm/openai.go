package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/swibrow/recall/internal/config"
)

type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(cfg config.OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key not set (set OPENAI_API_KEY or configure in ~/.config/recall/config.yaml)")
	}

	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))

	return &OpenAI{
		client: &client,
		model:  cfg.Model,
	}, nil
}

func (o *OpenAI) Complete(ctx context.Context, systemPrompt string, turns []Turn, query string) (string, error) {
	return chatComplete(ctx, o.client, "openai", o.model, systemPrompt, turns, query)
}

// chatMessages lays out the system prompt, earlier turns and the new query
// as a chat completion transcript.
func chatMessages(systemPrompt string, turns []Turn, query string) []openai.ChatCompletionMessageParamUnion {
	messages := []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(systemPrompt)}
	for _, t := range usableTurns(turns) {
		messages = append(messages, openai.UserMessage(t.Query), openai.AssistantMessage(t.Response))
	}
	return append(messages, openai.UserMessage(query))
}

func chatComplete(ctx context.Context, client *openai.Client, name, model, systemPrompt string, turns []Turn, query string) (string, error) {
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    model,
		Messages: chatMessages(systemPrompt, turns, query),
	})
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", name)
	}

	return resp.Choices[0].Message.Content, nil
}
