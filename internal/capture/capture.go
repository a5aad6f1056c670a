package capture

import (
	"context"
	"errors"

	"glimpse/internal/frame"
)

// ErrEndOfStream signals that the source has no more frames. Live sources
// return it after the capture process exits cleanly; replay sources return
// it once the directory is exhausted.
var ErrEndOfStream = errors.New("capture: end of stream")

// Source yields frames one at a time. Next blocks until a frame is
// available, the context ends, or the stream is done. Implementations are
// not safe for concurrent Next calls; the scheduler is the only consumer.
type Source interface {
	Next(ctx context.Context) (frame.Frame, error)
	Close() error
}
