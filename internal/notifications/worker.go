package notifications

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"bonds/internal/observability"
)

// dequeueTimeout bounds each blocking pop so the worker notices cancellation.
const dequeueTimeout = 5 * time.Second

// Worker consumes like notification jobs and hands them to a Sender.
// Delivery failures are logged and counted, never retried; the like the job
// describes has long been committed.
type Worker struct {
	queue  *Queue
	sender Sender
	logger *slog.Logger
}

// NewWorker creates a Worker.
func NewWorker(queue *Queue, sender Sender, logger *slog.Logger) *Worker {
	return &Worker{queue: queue, sender: sender, logger: logger}
}

// Run processes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("notification worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notification worker stopped")
			return
		default:
		}

		ev, err := w.queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("notification worker stopped")
				return
			}
			w.logger.Error("dequeue failed", slog.String("error", err.Error()))
			// Back off briefly so a broken queue does not spin the loop.
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if ev == nil {
			continue
		}

		w.deliver(ctx, *ev)
	}
}

func (w *Worker) deliver(ctx context.Context, ev LikeEvent) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("panic delivering notification",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	w.logger.Info("sending like notification",
		slog.String("email", ev.Email),
		slog.String("post", ev.TitlePost))

	if err := w.sender.Send(ctx, ev); err != nil {
		observability.NotificationsDelivered.WithLabelValues("error").Inc()
		w.logger.Error("notification delivery failed",
			slog.String("email", ev.Email),
			slog.String("error", err.Error()))
		return
	}
	observability.NotificationsDelivered.WithLabelValues("ok").Inc()
}
