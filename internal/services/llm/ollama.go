package llm

import (
	"context"
	"log/slog"
	"strings"

	"github.com/agent-api/core"
	"github.com/agent-api/core/agent"
	"github.com/agent-api/core/agent/bootstrap"
	"github.com/agent-api/ollama"
	"github.com/go-logr/logr"

	"glimpse/internal/services"
)

// asker is the slice of the agent API the client needs; the seam lets tests
// substitute a scripted agent.
type asker interface {
	Run(ctx context.Context, opts ...agent.RunOptionFunc) (*agent.AgentRunAggregator, error)
}

// OllamaClient runs questions through a local Ollama model via an agent.
type OllamaClient struct {
	agent asker
	model string
}

// NewOllamaClient connects to a local Ollama instance and binds the
// configured model. baseURL carries scheme and host only; the port is
// supplied separately the way the provider expects it.
func NewOllamaClient(ctx context.Context, logger *slog.Logger, baseURL string, port int, model, systemPrompt string) (*OllamaClient, error) {
	agentLogger := logr.FromSlogHandler(logger.Handler())

	provider := ollama.NewProvider(&ollama.ProviderOpts{
		BaseURL: baseURL,
		Port:    port,
		Logger:  &agentLogger,
	})
	if err := provider.UseModel(ctx, &core.Model{ID: model}); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ollama", "use model", model, err)
	}

	a, err := agent.NewAgent(
		bootstrap.WithProvider(provider),
		bootstrap.WithSystemPrompt(systemPrompt),
		bootstrap.WithLogger(&agentLogger),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ollama", "new agent", model, err)
	}
	return &OllamaClient{agent: a, model: model}, nil
}

func (c *OllamaClient) Name() string { return "ollama" }

func (c *OllamaClient) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", services.Wrap(services.ErrValidation, "ollama", "ask", "question required", nil)
	}

	agg, err := c.agent.Run(ctx, agent.WithInput(question))
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "ollama", "ask", "agent run", err)
	}
	if agg == nil || len(agg.Messages) == 0 {
		return "", services.Wrap(services.ErrTransient, "ollama", "ask", "no response messages", nil)
	}
	content := strings.TrimSpace(agg.Pop().Content)
	if content == "" {
		return "", services.Wrap(services.ErrTransient, "ollama", "ask", "empty content", nil)
	}
	return content, nil
}
