package llm

import (
	"context"
	"fmt"

	"github.com/swibrow/recall/internal/config"
)

// Turn is an earlier exchange replayed to the model as context.
type Turn struct {
	Query    string
	Response string
}

// Provider defines the interface for LLM backends.
type Provider interface {
	Complete(ctx context.Context, systemPrompt string, turns []Turn, query string) (string, error)
}

// NewProvider creates a provider based on the config.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropic(cfg.Anthropic)
	case "openai":
		return NewOpenAI(cfg.OpenAI)
	case "ollama":
		return NewOllama(cfg.Ollama)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// usableTurns drops turns with an empty side; chat APIs reject empty messages.
func usableTurns(turns []Turn) []Turn {
	var out []Turn
	for _, t := range turns {
		if t.Query == "" || t.Response == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
