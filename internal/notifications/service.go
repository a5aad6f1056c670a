package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"glimpse/internal/config"
)

const userAgent = "Glimpse-Go/0.1.0"

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	NotifySessionStarted(ctx context.Context, source string) error
	NotifyQuestionDetected(ctx context.Context, question string) error
	NotifyAnswerReady(ctx context.Context, question, answer string, cached bool) error
	NotifySessionEnded(ctx context.Context, frames int64, answered int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg config.Notifications) Service {
	topic := strings.TrimSpace(cfg.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint:  topic,
		client:    client,
		questions: cfg.Questions,
		answers:   cfg.Answers,
		errors:    cfg.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	questions bool
	answers   bool
	errors    bool
}

func (n *ntfyService) NotifySessionStarted(ctx context.Context, source string) error {
	source = strings.TrimSpace(source)
	if source == "" {
		source = "unknown"
	}
	data := payload{
		title:   "Glimpse - Session Started",
		message: fmt.Sprintf("Watching screen via %s", source),
		tags:    []string{"glimpse", "session", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyQuestionDetected(ctx context.Context, question string) error {
	if !n.questions {
		return nil
	}
	question = strings.TrimSpace(question)
	data := payload{
		title:   "Glimpse - Question",
		message: fmt.Sprintf("New question: %s", question),
		tags:    []string{"glimpse", "question", "detected"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAnswerReady(ctx context.Context, question, answer string, cached bool) error {
	if !n.answers {
		return nil
	}
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	message := fmt.Sprintf("Q: %s\nA: %s", question, answer)
	if cached {
		message += "\n(cached)"
	}
	data := payload{
		title:    "Glimpse - Answer",
		message:  message,
		tags:     []string{"glimpse", "answer", "ready"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySessionEnded(ctx context.Context, frames int64, answered int, duration time.Duration) error {
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}
	data := payload{
		title:   "Glimpse - Session Ended",
		message: fmt.Sprintf("Session ended: %d frames sampled, %d questions answered in %s", frames, answered, durationText),
		tags:    []string{"glimpse", "session", "ended"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Glimpse - Error",
		message:  builder.String(),
		tags:     []string{"glimpse", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Glimpse - Test",
		message:  "Notification system test",
		tags:     []string{"glimpse", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySessionStarted(context.Context, string) error                 { return nil }
func (noopService) NotifyQuestionDetected(context.Context, string) error               { return nil }
func (noopService) NotifyAnswerReady(context.Context, string, string, bool) error      { return nil }
func (noopService) NotifySessionEnded(context.Context, int64, int, time.Duration) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error                   { return nil }
func (noopService) TestNotification(context.Context) error                             { return nil }
