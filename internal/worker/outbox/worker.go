package outbox

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/ipublisher"
	"github.com/spf13/viper"
)

// Worker processes messages from the outbox table.
type Worker struct {
	outboxRepo    ioutboxrepo.IOutboxRepository
	publisher     ipublisher.IEventPublisher
	pollInterval  time.Duration
	batchSize     int
	retryInterval time.Duration
	now           func() time.Time
	stopCh        chan struct{}
}

// NewWorker creates a new outbox worker.
func NewWorker(
	outboxRepo ioutboxrepo.IOutboxRepository,
	publisher ipublisher.IEventPublisher,
) *Worker {
	pollIntervalSeconds := viper.GetInt("rabbitmq.outbox.poll_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 10
	}

	batchSize := viper.GetInt("rabbitmq.outbox.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}

	retryIntervalSeconds := viper.GetInt("rabbitmq.outbox.retry_interval_seconds")
	if retryIntervalSeconds == 0 {
		retryIntervalSeconds = 30
	}

	return &Worker{
		outboxRepo:    outboxRepo,
		publisher:     publisher,
		pollInterval:  time.Duration(pollIntervalSeconds) * time.Second,
		batchSize:     batchSize,
		retryInterval: time.Duration(retryIntervalSeconds) * time.Second,
		now:           time.Now,
		stopCh:        make(chan struct{}),
	}
}

// Start begins processing messages from the outbox.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Outbox worker stopped")

			return
		case <-ticker.C:
			w.ProcessPending(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// Backoff returns the delay before the given retry attempt: retryInterval * 2^attempt.
func (w *Worker) Backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * w.retryInterval
}

// ProcessPending publishes one batch of due messages and returns how many were delivered.
func (w *Worker) ProcessPending(ctx context.Context) int {
	messages, err := w.outboxRepo.GetPendingMessages(ctx, w.now(), w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending messages from outbox", "error", err)

		return 0
	}

	if len(messages) == 0 {
		return 0
	}

	slog.Info("Processing outbox messages", "count", len(messages))

	delivered := 0
	results := w.publisher.Publish(ctx, messages)
	for i, msg := range messages {
		if err := results[i]; err != nil {
			// Update retry count and schedule next retry with exponential backoff
			newRetryCount := msg.RetryCount + 1
			nextRetryAt := w.now().Add(w.Backoff(newRetryCount))

			slog.Warn("Failed to publish message from outbox, will retry",
				"outbox_id", msg.ID,
				"routing_key", msg.RoutingKey,
				"retry_count", newRetryCount,
				"next_retry", nextRetryAt,
				"error", err,
			)

			if err := w.outboxRepo.UpdateRetry(ctx, msg.ID, newRetryCount, err.Error(), nextRetryAt); err != nil {
				slog.Error("Failed to update retry information", "outbox_id", msg.ID, "error", err)
			}

			continue
		}

		if err := w.outboxRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete message from outbox after successful publish",
				"outbox_id", msg.ID,
				"error", err,
			)

			continue
		}

		delivered++
		slog.Debug("Message published and removed from outbox", "outbox_id", msg.ID)
	}

	return delivered
}
