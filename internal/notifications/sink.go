package notifications

import (
	"context"
	"errors"

	"glimpse/internal/status"
)

// Sink bridges pipeline status events onto the notification service so the
// scheduler does not need to know ntfy exists.
type Sink struct {
	service Service
}

func NewSink(service Service) *Sink {
	if service == nil {
		service = noopService{}
	}
	return &Sink{service: service}
}

func (s *Sink) Publish(ctx context.Context, event status.Event) {
	switch event.Kind {
	case status.KindQuestion:
		_ = s.service.NotifyQuestionDetected(ctx, event.Question)
	case status.KindAnswer:
		_ = s.service.NotifyAnswerReady(ctx, event.Question, event.Answer, event.Cached)
	case status.KindError:
		_ = s.service.NotifyError(ctx, errors.New(event.Message), "pipeline")
	}
}
