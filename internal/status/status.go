// Package status carries human-readable pipeline progress to whoever is
// watching: the console logger, notifications, or tests.
package status

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"glimpse/internal/logging"
)

// Kind classifies a status event so sinks can filter without parsing text.
type Kind string

const (
	KindInfo     Kind = "info"
	KindCapture  Kind = "capture"
	KindOCR      Kind = "ocr"
	KindQuestion Kind = "question"
	KindAnswer   Kind = "answer"
	KindError    Kind = "error"
)

// Event is a single progress update. Percent is -1 when the event has no
// meaningful completion figure.
type Event struct {
	Kind     Kind
	Message  string
	Question string
	Answer   string
	// Cached marks an answer event served from the session cache rather
	// than a fresh model call.
	Cached    bool
	Percent   float64
	Timestamp time.Time
}

// Sink receives pipeline status events. Implementations must tolerate
// concurrent calls; the pipeline does not serialize its reporters.
type Sink interface {
	Publish(ctx context.Context, event Event)
}

// LoggerSink writes events to the structured logger at a level matching the
// event kind.
type LoggerSink struct {
	logger *slog.Logger
}

func NewLoggerSink(logger *slog.Logger) *LoggerSink {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LoggerSink{logger: logger}
}

func (s *LoggerSink) Publish(ctx context.Context, event Event) {
	attrs := []logging.Attr{logging.String("kind", string(event.Kind))}
	if event.Percent >= 0 {
		attrs = append(attrs, logging.Float64("percent", event.Percent))
	}
	if event.Question != "" {
		attrs = append(attrs, logging.String("question", event.Question))
	}
	if event.Answer != "" {
		attrs = append(attrs, logging.String("answer", event.Answer))
	}
	attrs = append(attrs, logging.ContextFields(ctx)...)
	if event.Kind == KindError {
		s.logger.Error(event.Message, logging.Args(attrs...)...)
		return
	}
	s.logger.Info(event.Message, logging.Args(attrs...)...)
}

// Fanout forwards every event to each registered sink in order.
type Fanout struct {
	mu    sync.RWMutex
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	f := &Fanout{}
	for _, sink := range sinks {
		f.Add(sink)
	}
	return f
}

func (f *Fanout) Add(sink Sink) {
	if sink == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinks = append(f.sinks, sink)
}

func (f *Fanout) Publish(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	f.mu.RLock()
	sinks := make([]Sink, len(f.sinks))
	copy(sinks, f.sinks)
	f.mu.RUnlock()
	for _, sink := range sinks {
		sink.Publish(ctx, event)
	}
}

// Info is a convenience for plain progress text.
func Info(message string) Event {
	return Event{Kind: KindInfo, Message: message, Percent: -1, Timestamp: time.Now()}
}

// Error builds an error-kind event from an already-formed message.
func Error(message string) Event {
	return Event{Kind: KindError, Message: message, Percent: -1, Timestamp: time.Now()}
}
