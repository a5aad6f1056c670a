package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"glimpse/internal/answers"
	"glimpse/internal/capture"
	"glimpse/internal/config"
	"glimpse/internal/gate"
	"glimpse/internal/logging"
	"glimpse/internal/notifications"
	"glimpse/internal/preflight"
	"glimpse/internal/scheduler"
	"glimpse/internal/services"
	"glimpse/internal/services/llm"
	"glimpse/internal/services/ocr"
	"glimpse/internal/status"
	"glimpse/internal/textutil"
)

// Daemon owns one capture session end to end.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	lockPath string
	lock     *flock.Flock

	notifier  notifications.Service
	scheduler *scheduler.Scheduler
	source    capture.Source

	skipPreflight bool
}

// New constructs a daemon. Dependencies are assembled eagerly so
// configuration problems surface before the lock is taken.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	source, err := buildSource(cfg)
	if err != nil {
		return nil, err
	}
	engine, err := ocr.New(cfg.OCR, cfg.TesseractBinary(), logging.NewComponentLogger(logger, "ocr"))
	if err != nil {
		return nil, err
	}
	client, err := llm.New(ctx, cfg.LLM, logging.NewComponentLogger(logger, "llm"))
	if err != nil {
		return nil, err
	}

	normalizer := textutil.NewNormalizer(cfg.Normalizer.Corrections, cfg.Normalizer.QuestionKeywords)
	g := gate.New(gate.Config{
		ImageDiffThreshold:  cfg.Pipeline.ImageDiffThreshold,
		ForceRefreshCycles:  cfg.Pipeline.ForceRefreshCycles,
		SimilarityThreshold: cfg.Pipeline.SimilarityThreshold,
		Weights:             textutil.Weights{Edit: cfg.Pipeline.EditWeight, Word: cfg.Pipeline.WordWeight},
		MinTextLength:       cfg.Pipeline.MinTextLength,
	})

	notifier := notifications.NewService(cfg.Notifications)
	sink := status.NewFanout(
		status.NewLoggerSink(logger),
		notifications.NewSink(notifier),
	)

	sched := scheduler.New(
		scheduler.Config{
			MinInterval: time.Duration(cfg.Pipeline.MinIntervalMS) * time.Millisecond,
			Cooldown:    services.Seconds(cfg.Pipeline.CooldownSeconds, time.Second),
			OCRTimeout:  services.Seconds(cfg.Pipeline.OCRTimeoutSeconds, 15*time.Second),
			LLMTimeout:  services.Seconds(cfg.Pipeline.LLMTimeoutSeconds, 20*time.Second),
		},
		source,
		engine,
		client,
		normalizer,
		g,
		answers.NewCache(),
		sink,
		logging.NewComponentLogger(logger, "scheduler"),
	)

	lockPath := filepath.Join(cfg.Paths.LogDir, "glimpse.lock")
	return &Daemon{
		cfg:       cfg,
		logger:    logger,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
		notifier:  notifier,
		scheduler: sched,
		source:    source,
	}, nil
}

func buildSource(cfg *config.Config) (capture.Source, error) {
	switch cfg.Capture.Source {
	case "ffmpeg":
		return capture.NewFFmpegSource(capture.FFmpegConfig{
			Binary:  cfg.FFmpegBinary(),
			Format:  cfg.Capture.Format,
			Input:   cfg.Capture.Input,
			FPS:     cfg.Capture.FPS,
			MaxEdge: cfg.Capture.MaxEdge,
		}), nil
	case "replay":
		return capture.NewReplaySource(cfg.Capture.Input)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "daemon", "source", "unknown capture source "+cfg.Capture.Source, nil)
	}
}

// Run acquires the instance lock, runs preflight, and drives the scheduler
// until the context ends or the stream finishes.
func (d *Daemon) Run(ctx context.Context) error {
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another glimpse instance is already running")
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release instance lock", logging.Error(err))
		}
	}()

	if err := d.runPreflight(ctx); err != nil {
		return err
	}

	if starter, ok := d.source.(interface{ Start(context.Context) error }); ok {
		if err := starter.Start(ctx); err != nil {
			return err
		}
	}
	defer d.source.Close()

	_ = d.notifier.NotifySessionStarted(ctx, d.cfg.Capture.Source)
	started := time.Now()

	runErr := d.scheduler.Run(ctx)

	stats := d.scheduler.Stats()
	_ = d.notifier.NotifySessionEnded(context.WithoutCancel(ctx), stats.Frames, stats.Answered, time.Since(started))
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		_ = d.notifier.NotifyError(context.WithoutCancel(ctx), runErr, "session")
		return runErr
	}
	return nil
}

func (d *Daemon) runPreflight(ctx context.Context) error {
	if d.skipPreflight {
		return nil
	}
	for _, result := range preflight.RunAll(ctx, d.cfg) {
		if result.Passed {
			d.logger.Info("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		return fmt.Errorf("preflight check %q failed: %s", result.Name, result.Detail)
	}
	for _, dep := range preflight.CheckSystemDeps(d.cfg) {
		if !dep.Available && !dep.Optional {
			return fmt.Errorf("missing dependency %s: %s", dep.Name, dep.Detail)
		}
	}
	return nil
}

// Stats exposes the scheduler counters for status output.
func (d *Daemon) Stats() scheduler.Stats { return d.scheduler.Stats() }

// LockPath returns the instance lock file location.
func (d *Daemon) LockPath() string { return d.lockPath }
