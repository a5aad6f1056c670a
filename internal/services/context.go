package services

import "context"

type contextKey string

const (
	sessionIDKey  contextKey = "session_id"
	cycleKey      contextKey = "cycle"
	questionIDKey contextKey = "question_id"
	componentKey  contextKey = "component"
)

// WithSessionID annotates context with the capture session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the capture session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithCycle annotates context with the sampling cycle number.
func WithCycle(ctx context.Context, cycle int64) context.Context {
	return context.WithValue(ctx, cycleKey, cycle)
}

// CycleFromContext returns the sampling cycle number if present.
func CycleFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(cycleKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithQuestionID annotates context with a question correlation identifier.
func WithQuestionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, questionIDKey, id)
}

// QuestionIDFromContext extracts the question correlation identifier if present.
func QuestionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(questionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithComponent annotates context with the pipeline component name.
func WithComponent(ctx context.Context, component string) context.Context {
	if component == "" {
		return ctx
	}
	return context.WithValue(ctx, componentKey, component)
}

// ComponentFromContext returns the pipeline component name if present.
func ComponentFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(componentKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
