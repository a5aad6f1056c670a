package ocr

import (
	"context"
	"strings"
)

// Engine recognizes text in an encoded image. A clean run over a frame with
// no readable text returns an empty string and a nil error; errors are
// reserved for the engine itself failing.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
	Name() string
}

// Attempt is one recognition pass over a frame.
type Attempt struct {
	Profile string
	Text    string
	Err     error
}

// MergeAttempts picks the winning attempt: the longest non-empty text after
// trimming. Length is a crude but effective proxy for recognition quality
// when the same frame is read with different segmentation modes. Returns the
// empty string when every attempt failed or produced nothing.
func MergeAttempts(attempts []Attempt) string {
	var best string
	for _, attempt := range attempts {
		if attempt.Err != nil {
			continue
		}
		text := strings.TrimSpace(attempt.Text)
		if len(text) > len(best) {
			best = text
		}
	}
	return best
}
