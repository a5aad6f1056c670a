package capture

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"glimpse/internal/frame"
	"glimpse/internal/services"
)

// FFmpegConfig describes the capture command. Format and Input map straight
// onto ffmpeg's -f and -i flags, so any grab device ffmpeg supports works
// (x11grab, kmsgrab, avfoundation, gdigrab).
type FFmpegConfig struct {
	Binary  string
	Format  string
	Input   string
	FPS     int
	MaxEdge int
}

// FFmpegSource runs ffmpeg in image2pipe mode and splits the MJPEG byte
// stream coming out of its stdout into individual frames.
type FFmpegSource struct {
	cfg    FFmpegConfig
	cmd    *exec.Cmd
	cancel context.CancelFunc

	frames chan frame.Frame
	done   chan error

	index     int64
	closeOnce sync.Once
}

func NewFFmpegSource(cfg FFmpegConfig) *FFmpegSource {
	if cfg.Binary == "" {
		cfg.Binary = "ffmpeg"
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 1
	}
	return &FFmpegSource{
		cfg:    cfg,
		frames: make(chan frame.Frame, 1),
		done:   make(chan error, 1),
	}
}

// Start launches the capture process and begins splitting frames. It must be
// called before Next.
func (s *FFmpegSource) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	cmd := exec.CommandContext(runCtx, s.cfg.Binary, s.args()...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return services.Wrap(services.ErrCapture, "capture", "start", "stdout pipe", err)
	}
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		cancel()
		return services.Wrap(services.ErrCapture, "capture", "start", fmt.Sprintf("launch %s", s.cfg.Binary), err)
	}
	s.cmd = cmd

	go s.readLoop(runCtx, stdout)
	return nil
}

func (s *FFmpegSource) args() []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", s.cfg.Format,
		"-framerate", strconv.Itoa(s.cfg.FPS),
		"-i", s.cfg.Input,
	}
	if s.cfg.MaxEdge > 0 {
		// Cap the longer edge while keeping aspect; -2 keeps dimensions even.
		scale := fmt.Sprintf("scale='min(%d,iw)':-2", s.cfg.MaxEdge)
		args = append(args, "-vf", scale)
	}
	args = append(args,
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "5",
		"-",
	)
	return args
}

func (s *FFmpegSource) readLoop(ctx context.Context, stdout io.Reader) {
	reader := bufio.NewReaderSize(stdout, 1<<20)
	for {
		data, err := readJPEG(reader)
		if err != nil {
			waitErr := s.cmd.Wait()
			switch {
			case ctx.Err() != nil:
				s.done <- ctx.Err()
			case err == io.EOF && waitErr == nil:
				s.done <- ErrEndOfStream
			case waitErr != nil:
				s.done <- services.Wrap(services.ErrCapture, "capture", "stream", "capture process exited", waitErr)
			default:
				s.done <- services.Wrap(services.ErrCapture, "capture", "stream", "read frame", err)
			}
			close(s.frames)
			return
		}

		s.index++
		f := frame.Frame{Data: data, Index: s.index, Taken: time.Now()}
		if w, h, dimErr := frame.Dimensions(data); dimErr == nil {
			f.Width = w
			f.Height = h
		}

		select {
		case s.frames <- f:
		case <-ctx.Done():
			// Consumer gone; drain until the process dies.
		default:
			// Drop the stale buffered frame so Next always sees the most
			// recent capture.
			select {
			case <-s.frames:
			default:
			}
			s.frames <- f
		}
	}
}

// Next returns the most recent frame. Older frames are discarded rather than
// queued, matching a sampling pipeline that only ever wants "now".
func (s *FFmpegSource) Next(ctx context.Context) (frame.Frame, error) {
	select {
	case f, ok := <-s.frames:
		if !ok {
			return frame.Frame{}, s.streamError()
		}
		return f, nil
	case <-ctx.Done():
		return frame.Frame{}, ctx.Err()
	}
}

func (s *FFmpegSource) streamError() error {
	select {
	case err := <-s.done:
		if err == nil {
			return ErrEndOfStream
		}
		return err
	default:
		return ErrEndOfStream
	}
}

func (s *FFmpegSource) Close() error {
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
	return nil
}

// readJPEG scans for a JPEG start-of-image marker and copies bytes through
// the matching end-of-image marker. MJPEG streams are a plain concatenation
// of JPEG files, so marker scanning is sufficient framing.
func readJPEG(r *bufio.Reader) ([]byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b != 0xFF {
			continue
		}
		next, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if next == 0xD8 {
			break
		}
	}

	buf := make([]byte, 2, 64<<10)
	buf[0], buf[1] = 0xFF, 0xD8
	var prev byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		buf = append(buf, b)
		if prev == 0xFF && b == 0xD9 {
			return buf, nil
		}
		prev = b
	}
}

// Command returns the exact invocation, for diagnostics output.
func (s *FFmpegSource) Command() string {
	return s.cfg.Binary + " " + strings.Join(s.args(), " ")
}
