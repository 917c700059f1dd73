package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/swibrow/recall/internal/config"
)

// Ollama talks to a local Ollama server through its OpenAI-compatible API.
type Ollama struct {
	client *openai.Client
	model  string
}

func NewOllama(cfg config.OllamaConfig) (*Ollama, error) {
	client := openai.NewClient(
		option.WithBaseURL(cfg.URL),
		option.WithAPIKey("ollama"), // Ollama doesn't need a real key
	)

	return &Ollama{
		client: &client,
		model:  cfg.Model,
	}, nil
}

func (o *Ollama) Complete(ctx context.Context, systemPrompt string, turns []Turn, query string) (string, error) {
	return chatComplete(ctx, o.client, "ollama", o.model, systemPrompt, turns, query)
}
