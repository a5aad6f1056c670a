// Package scheduler runs the sampling loop: pull the latest frame, gate it,
// recognize it, and answer anything that turns out to be a new question.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"glimpse/internal/answers"
	"glimpse/internal/capture"
	"glimpse/internal/frame"
	"glimpse/internal/gate"
	"glimpse/internal/logging"
	"glimpse/internal/services"
	"glimpse/internal/services/llm"
	"glimpse/internal/services/ocr"
	"glimpse/internal/status"
	"glimpse/internal/textutil"
)

// Config carries the loop timing. Durations at zero disable the
// corresponding wait, which the tests rely on.
type Config struct {
	MinInterval time.Duration
	Cooldown    time.Duration
	OCRTimeout  time.Duration
	LLMTimeout  time.Duration
}

// Scheduler owns one capture session. Frames are processed strictly one at a
// time; the live capture source keeps sampling on its own goroutine and
// drops stale frames, so a slow OCR pass never builds a backlog.
type Scheduler struct {
	cfg        Config
	source     capture.Source
	engine     ocr.Engine
	client     llm.Client
	normalizer *textutil.Normalizer
	gate       *gate.Gate
	cache      *answers.Cache
	sink       status.Sink
	logger     *slog.Logger

	frameCount atomic.Int64
	questions  atomic.Int64
	processing atomic.Bool
}

func New(
	cfg Config,
	source capture.Source,
	engine ocr.Engine,
	client llm.Client,
	normalizer *textutil.Normalizer,
	g *gate.Gate,
	cache *answers.Cache,
	sink status.Sink,
	logger *slog.Logger,
) *Scheduler {
	if cache == nil {
		cache = answers.NewCache()
	}
	if sink == nil {
		sink = status.NewFanout()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scheduler{
		cfg:        cfg,
		source:     source,
		engine:     engine,
		client:     client,
		normalizer: normalizer,
		gate:       g,
		cache:      cache,
		sink:       sink,
		logger:     logger,
	}
}

// Run consumes frames until the context ends, the source is exhausted, or a
// capture-level failure occurs. Recognition and answering failures are
// reported and absorbed; only capture failures are terminal.
func (s *Scheduler) Run(ctx context.Context) error {
	ctx = services.WithSessionID(ctx, uuid.New().String())
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("capture session started")

	var nextAttempt time.Time
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		f, err := s.source.Next(ctx)
		if errors.Is(err, capture.ErrEndOfStream) {
			s.sink.Publish(ctx, status.Info("capture stream ended"))
			return nil
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			if services.IsFatal(err) {
				s.sink.Publish(ctx, status.Error(fmt.Sprintf("capture failed: %v", err)))
				return err
			}
			logger.Warn("frame read failed", logging.Error(err))
			continue
		}

		s.frameCount.Add(1)
		if !f.Valid() {
			logger.Debug("frame missing dimensions, skipped", logging.Int64("frame", f.Index))
			continue
		}
		if now := time.Now(); now.Before(nextAttempt) {
			continue
		}

		nextAttempt = time.Now().Add(s.cfg.MinInterval)
		if err := s.process(ctx, f); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			s.sink.Publish(ctx, status.Error(fmt.Sprintf("frame processing failed: %v", err)))
			if s.cfg.Cooldown > 0 {
				select {
				case <-time.After(s.cfg.Cooldown):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

func (s *Scheduler) process(ctx context.Context, f frame.Frame) error {
	s.processing.Store(true)
	defer s.processing.Store(false)

	ctx = services.WithCycle(ctx, f.Index)
	logger := logging.WithContext(ctx, s.logger)

	shouldRecognize, diff := s.gate.ShouldRecognize(f.Data)
	if !shouldRecognize {
		logger.Debug("frame visually unchanged, skipped", logging.Float64("diff", diff))
		s.sink.Publish(ctx, status.Event{Kind: status.KindCapture, Message: "frame unchanged", Percent: -1})
		return nil
	}

	s.sink.Publish(ctx, status.Event{Kind: status.KindOCR, Message: "recognizing frame", Percent: 0})
	ocrCtx, cancelOCR := services.Deadline(ctx, s.cfg.OCRTimeout)
	raw, err := s.engine.Recognize(ocrCtx, f.Data)
	cancelOCR()
	if err != nil {
		return err
	}
	s.sink.Publish(ctx, status.Event{Kind: status.KindOCR, Message: "frame recognized", Percent: 100})

	text := s.normalizer.Normalize(raw)
	decision, score := s.gate.Evaluate(text)
	switch decision {
	case gate.DecisionEmpty:
		logger.Debug("no text recognized")
		s.sink.Publish(ctx, status.Event{Kind: status.KindOCR, Message: "no text detected", Percent: -1})
		return nil
	case gate.DecisionTooShort:
		logger.Debug("recognized text below minimum length", logging.String("text", text))
		s.sink.Publish(ctx, status.Event{Kind: status.KindOCR, Message: "text too short", Percent: -1})
		return nil
	case gate.DecisionDuplicate:
		logger.Debug("question unchanged", logging.Float64("similarity", score))
		s.sink.Publish(ctx, status.Info("question unchanged"))
		return nil
	}

	ctx = services.WithQuestionID(ctx, uuid.New().String())
	logger = logging.WithContext(ctx, s.logger)
	s.questions.Add(1)
	s.sink.Publish(ctx, status.Event{
		Kind:     status.KindQuestion,
		Message:  "new question detected",
		Question: text,
		Percent:  -1,
	})

	if answer, ok := s.cache.Lookup(text); ok {
		logger.Info("answer served from cache")
		s.publishAnswer(ctx, text, answer, true)
		return nil
	}

	llmCtx, cancelLLM := services.Deadline(ctx, s.cfg.LLMTimeout)
	answer, err := s.client.Ask(llmCtx, text)
	cancelLLM()
	if err != nil {
		return err
	}

	s.cache.Store(text, answer)
	s.publishAnswer(ctx, text, answer, false)
	return nil
}

func (s *Scheduler) publishAnswer(ctx context.Context, question, answer string, cached bool) {
	s.sink.Publish(ctx, status.Event{
		Kind:     status.KindAnswer,
		Message:  "answer ready",
		Question: question,
		Answer:   answer,
		Cached:   cached,
		Percent:  -1,
	})
}

// Stats reports loop counters for diagnostics.
type Stats struct {
	Frames     int64
	Questions  int64
	Answered   int
	Processing bool
}

func (s *Scheduler) Stats() Stats {
	return Stats{
		Frames:     s.frameCount.Load(),
		Questions:  s.questions.Load(),
		Answered:   s.cache.Len(),
		Processing: s.processing.Load(),
	}
}
