package services

import (
	"context"
	"time"
)

// Deadline derives a bounded context for an external call. A non-positive
// timeout leaves the parent context untouched so callers can compose
// per-step bounds uniformly without special-casing "no limit".
func Deadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// Seconds converts a configured integer second count into a duration,
// substituting the fallback when the value is not positive.
func Seconds(value int, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return time.Duration(value) * time.Second
}
