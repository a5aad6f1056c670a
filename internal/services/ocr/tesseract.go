package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"glimpse/internal/logging"
	"glimpse/internal/services"
)

// Profile is one tesseract invocation strategy. Different page segmentation
// modes read quiz overlays very differently, so several are tried per frame.
type Profile struct {
	Name   string
	PSM    int
	Config []string
}

// DefaultProfiles covers dense text blocks and sparse overlay text.
func DefaultProfiles() []Profile {
	return []Profile{
		{Name: "block", PSM: 6, Config: []string{"preserve_interword_spaces=1"}},
		{Name: "sparse", PSM: 3, Config: []string{"textord_heavy_nr=1"}},
	}
}

type commandRunner interface {
	Output(ctx context.Context, binary string, args []string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Output(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("%w: %s", err, detail)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// TesseractEngine runs the tesseract binary with every profile in parallel
// and keeps the best result. When all profiles come back empty it makes one
// simplified attempt with default settings before giving up.
type TesseractEngine struct {
	binary          string
	languages       string
	profiles        []Profile
	attemptTimeout  time.Duration
	fallbackTimeout time.Duration
	logger          *slog.Logger
	runner          commandRunner
}

// TesseractOption customizes the engine.
type TesseractOption func(*TesseractEngine)

func WithProfiles(profiles []Profile) TesseractOption {
	return func(e *TesseractEngine) {
		if len(profiles) > 0 {
			e.profiles = profiles
		}
	}
}

func WithTimeouts(attempt, fallback time.Duration) TesseractOption {
	return func(e *TesseractEngine) {
		if attempt > 0 {
			e.attemptTimeout = attempt
		}
		if fallback > 0 {
			e.fallbackTimeout = fallback
		}
	}
}

func withRunner(runner commandRunner) TesseractOption {
	return func(e *TesseractEngine) {
		if runner != nil {
			e.runner = runner
		}
	}
}

func NewTesseractEngine(binary, languages string, logger *slog.Logger, opts ...TesseractOption) *TesseractEngine {
	if binary == "" {
		binary = "tesseract"
	}
	if languages == "" {
		languages = "eng"
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	engine := &TesseractEngine{
		binary:          binary,
		languages:       languages,
		profiles:        DefaultProfiles(),
		attemptTimeout:  25 * time.Second,
		fallbackTimeout: 10 * time.Second,
		logger:          logger,
		runner:          execRunner{},
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

func (e *TesseractEngine) Name() string { return "tesseract" }

func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", services.Wrap(services.ErrValidation, "tesseract", "recognize", "empty image", nil)
	}

	path, cleanup, err := writeTempImage(image)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "tesseract", "recognize", "write temp image", err)
	}
	defer cleanup()

	attemptCtx, cancel := services.Deadline(ctx, e.attemptTimeout)
	defer cancel()

	attempts := make([]Attempt, len(e.profiles))
	var wg sync.WaitGroup
	for i, profile := range e.profiles {
		wg.Add(1)
		go func(slot int, p Profile) {
			defer wg.Done()
			text, runErr := e.runProfile(attemptCtx, path, p)
			attempts[slot] = Attempt{Profile: p.Name, Text: text, Err: runErr}
			if runErr != nil {
				e.logger.Debug("ocr attempt failed",
					logging.String("profile", p.Name),
					logging.Error(runErr))
			}
		}(i, profile)
	}
	wg.Wait()

	if merged := MergeAttempts(attempts); merged != "" {
		return merged, nil
	}

	// All profiles struck out; one plain invocation sometimes still reads
	// frames the tuned profiles mangle.
	fallbackCtx, cancelFallback := services.Deadline(ctx, e.fallbackTimeout)
	defer cancelFallback()
	text, fallbackErr := e.runProfile(fallbackCtx, path, Profile{Name: "fallback", PSM: -1})
	if fallbackErr != nil {
		e.logger.Debug("ocr fallback failed", logging.Error(fallbackErr))
		return "", nil
	}
	return strings.TrimSpace(text), nil
}

func (e *TesseractEngine) runProfile(ctx context.Context, imagePath string, profile Profile) (string, error) {
	args := []string{imagePath, "stdout", "-l", e.languages}
	if profile.PSM >= 0 {
		args = append(args, "--psm", strconv.Itoa(profile.PSM))
	}
	for _, option := range profile.Config {
		args = append(args, "-c", option)
	}

	output, err := e.runner.Output(ctx, e.binary, args)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", services.Wrap(services.ErrTimeout, "tesseract", profile.Name, "attempt timed out", err)
		}
		return "", services.Wrap(services.ErrExternalTool, "tesseract", profile.Name, "run tesseract", err)
	}
	return string(output), nil
}

func writeTempImage(image []byte) (string, func(), error) {
	file, err := os.CreateTemp("", "glimpse-frame-*.jpg")
	if err != nil {
		return "", nil, err
	}
	path := file.Name()
	cleanup := func() { _ = os.Remove(path) }
	if _, err := file.Write(image); err != nil {
		_ = file.Close()
		cleanup()
		return "", nil, err
	}
	if err := file.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
