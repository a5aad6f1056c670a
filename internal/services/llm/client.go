package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"glimpse/internal/services"
)

const defaultHTTPTimeout = 20 * time.Second

// Client answers a single question. Implementations carry their own system
// prompt so callers only ever hand over the question text.
type Client interface {
	Ask(ctx context.Context, question string) (string, error)
	Name() string
}

// ChatClient talks to an OpenAI-compatible chat completions endpoint. Both
// DeepSeek and SiliconFlow speak this shape.
type ChatClient struct {
	name         string
	apiKey       string
	baseURL      string
	model        string
	systemPrompt string
	httpClient   *http.Client
}

// ChatOption customizes the chat client.
type ChatOption func(*ChatClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) ChatOption {
	return func(c *ChatClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithHTTPTimeout replaces the default request timeout.
func WithHTTPTimeout(timeout time.Duration) ChatOption {
	return func(c *ChatClient) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewChatClient constructs a chat-completions client. name labels the
// provider in errors and logs.
func NewChatClient(name, apiKey, baseURL, model, systemPrompt string, opts ...ChatOption) *ChatClient {
	client := &ChatClient{
		name:         name,
		apiKey:       strings.TrimSpace(apiKey),
		baseURL:      strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		model:        strings.TrimSpace(model),
		systemPrompt: systemPrompt,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *ChatClient) Name() string { return c.name }

// Ask sends the question with the configured system prompt and returns the
// first choice's content, trimmed.
func (c *ChatClient) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", services.Wrap(services.ErrValidation, c.name, "ask", "question required", nil)
	}
	if c.apiKey == "" {
		return "", services.Wrap(services.ErrConfiguration, c.name, "ask", "api key required", nil)
	}

	endpoint, err := url.JoinPath(c.baseURL, "/chat/completions")
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, c.name, "ask", "build url", err)
	}
	payload := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: question},
		},
		Temperature: 0.3,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, c.name, "ask", "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", services.Wrap(services.ErrValidation, c.name, "ask", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", services.Wrap(services.ErrTimeout, c.name, "ask", "request timed out", err)
		}
		return "", services.Wrap(services.ErrTransient, c.name, "ask", "request failed", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, c.name, "ask", "read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		detail := fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return "", services.Wrap(services.ErrTransient, c.name, "ask", detail, nil)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", services.Wrap(services.ErrTransient, c.name, "ask", "decode response", err)
	}
	if completion.Error != nil {
		detail := "api error: " + strings.TrimSpace(completion.Error.Message)
		return "", services.Wrap(services.ErrTransient, c.name, "ask", detail, nil)
	}
	if len(completion.Choices) == 0 {
		return "", services.Wrap(services.ErrTransient, c.name, "ask", "empty choices", nil)
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", services.Wrap(services.ErrTransient, c.name, "ask", "empty content", nil)
	}
	return content, nil
}

// HealthCheck issues a minimal completion to prove the endpoint is
// reachable and the key is accepted. Used by preflight, never by the
// pipeline itself.
func (c *ChatClient) HealthCheck(ctx context.Context) error {
	_, err := c.Ask(ctx, "Reply with the single word OK.")
	return err
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}
