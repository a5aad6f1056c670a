package llm

import (
	"context"
	"log/slog"

	"glimpse/internal/config"
	"glimpse/internal/services"
)

// New builds the configured provider. Validation has already checked the
// provider name and credentials, so this only assembles clients.
func New(ctx context.Context, cfg config.LLM, logger *slog.Logger) (Client, error) {
	timeout := services.Seconds(cfg.TimeoutSeconds, defaultHTTPTimeout)
	switch cfg.Provider {
	case "deepseek", "siliconflow":
		return NewChatClient(
			cfg.Provider,
			cfg.APIKey,
			cfg.BaseURL,
			cfg.Model,
			cfg.SystemPrompt,
			WithHTTPTimeout(timeout),
		), nil
	case "ollama":
		return NewOllamaClient(ctx, logger, cfg.Ollama.BaseURL, cfg.Ollama.Port, cfg.Ollama.Model, cfg.SystemPrompt)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "llm", "new", "unknown provider "+cfg.Provider, nil)
	}
}
