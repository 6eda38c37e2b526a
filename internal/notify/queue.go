package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

type DrainerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// Drainer re-delivers queued notifications on a timer. Messages that
// exhaust their retry budget are dropped with a log line and a counter,
// never silently.
type Drainer struct {
	transport Transport
	queue     QueueRepository
	config    DrainerConfig
	logger    *zap.Logger
	now       func() time.Time

	wg             sync.WaitGroup
	shutdownSignal chan struct{}
	stopOnce       sync.Once
}

func NewDrainer(transport Transport, queue QueueRepository, config DrainerConfig, logger *zap.Logger) *Drainer {
	if config.BatchSize <= 0 {
		config.BatchSize = 20
	}
	return &Drainer{
		transport:      transport,
		queue:          queue,
		config:         config,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
		shutdownSignal: make(chan struct{}),
	}
}

func (d *Drainer) Run(ctx context.Context) {
	d.logger.Info("starting notification drainer")
	d.wg.Add(1)
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := d.DrainOnce(ctx); err != nil {
				d.logger.Error("notification drain cycle failed", zap.Error(err))
			}
		case <-d.shutdownSignal:
			return
		case <-ctx.Done():
			d.Shutdown()
			return
		}
	}
}

func (d *Drainer) Shutdown() {
	d.stopOnce.Do(func() {
		close(d.shutdownSignal)
		done := make(chan struct{})
		go func() {
			d.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			d.logger.Info("notification drainer stopped")
		case <-time.After(30 * time.Second):
			d.logger.Warn("notification drainer shutdown timed out")
		}
	})
}

// DrainOnce processes one batch of due messages and reports the first
// infrastructure error; per-message delivery failures only reschedule.
func (d *Drainer) DrainOnce(ctx context.Context) error {
	due, err := d.queue.GetDue(ctx, d.now(), d.config.BatchSize)
	if err != nil {
		return err
	}

	for _, msg := range due {
		d.redeliver(ctx, msg)
	}
	return nil
}

func (d *Drainer) redeliver(ctx context.Context, msg *repository.PendingNotification) {
	err := d.transport.Send(ctx, msg.Channel, msg.Message)
	if err == nil {
		metrics.NotificationsSentTotal.WithLabelValues(msg.Channel).Inc()
		if err := d.queue.Delete(ctx, msg.ID); err != nil {
			d.logger.Error("failed to remove delivered notification", zap.Error(err))
		}
		return
	}

	retryCount := msg.RetryCount + 1
	if retryCount >= msg.MaxRetries {
		metrics.NotificationsDroppedTotal.Inc()
		d.logger.Warn("dropping notification after exhausting retries",
			zap.String("id", msg.ID.String()),
			zap.String("channel", msg.Channel),
			zap.Int("retries", retryCount))
		if err := d.queue.Delete(ctx, msg.ID); err != nil {
			d.logger.Error("failed to remove dropped notification", zap.Error(err))
		}
		return
	}

	nextRetryAt := d.now().Add(retryDelay(retryCount))
	if err := d.queue.UpdateRetry(ctx, msg.ID, retryCount, nextRetryAt); err != nil {
		d.logger.Error("failed to reschedule notification", zap.Error(err))
	}
}
