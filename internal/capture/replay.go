package capture

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"glimpse/internal/frame"
	"glimpse/internal/services"
)

// ReplaySource walks still images in a directory in lexical order, serving
// one per Next call. It exists for offline runs and pipeline tests.
type ReplaySource struct {
	paths []string
	pos   int
}

func NewReplaySource(dir string) (*ReplaySource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrCapture, "capture", "replay", "read replay directory", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return &ReplaySource{paths: paths}, nil
}

func (s *ReplaySource) Next(ctx context.Context) (frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return frame.Frame{}, err
	}
	if s.pos >= len(s.paths) {
		return frame.Frame{}, ErrEndOfStream
	}
	path := s.paths[s.pos]
	s.pos++

	data, err := os.ReadFile(path)
	if err != nil {
		return frame.Frame{}, services.Wrap(services.ErrCapture, "capture", "replay", "read frame file", err)
	}
	f := frame.Frame{Data: data, Index: int64(s.pos), Taken: time.Now()}
	if w, h, dimErr := frame.Dimensions(data); dimErr == nil {
		f.Width = w
		f.Height = h
	}
	return f, nil
}

func (s *ReplaySource) Close() error { return nil }

// Remaining reports how many frames have not been served yet.
func (s *ReplaySource) Remaining() int { return len(s.paths) - s.pos }
