// Package worker consumes queued export requests.
package worker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/sleeplog/apiserver/internal/mq"
	"github.com/sleeplog/apiserver/internal/services"
)

// Subscriber is the consuming side of a message broker.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler mq.Handler) error
}

// Processor handles one export request payload.
type Processor interface {
	HandleMessage(ctx context.Context, data []byte) error
}

// ExportWorker feeds deliveries from channel to the export service one at
// a time.
type ExportWorker struct {
	subscriber Subscriber
	processor  Processor
	channel    string
	logger     *zap.Logger
}

func NewExportWorker(subscriber Subscriber, processor Processor, channel string, logger *zap.Logger) *ExportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportWorker{
		subscriber: subscriber,
		processor:  processor,
		channel:    channel,
		logger:     logger,
	}
}

// Run blocks until ctx is cancelled or the subscription fails.
func (w *ExportWorker) Run(ctx context.Context) error {
	w.logger.Info("export worker started", zap.String("channel", w.channel))
	err := w.subscriber.Subscribe(ctx, w.channel, w.handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	w.logger.Info("export worker stopped")
	return nil
}

// handle acks malformed messages so they are not redelivered forever.
// Any other failure is returned to the broker for a retry.
func (w *ExportWorker) handle(ctx context.Context, msg mq.Message) error {
	err := w.processor.HandleMessage(ctx, msg.Data)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrInvalidExportRequest):
		w.logger.Warn("dropping malformed export request", zap.String("message_id", msg.ID), zap.Error(err))
		return nil
	default:
		w.logger.Error("export failed", zap.String("message_id", msg.ID), zap.Error(err))
		return err
	}
}
