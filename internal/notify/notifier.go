//go:generate mockgen -source ./notifier.go -destination=./mocks/notifier.go -package=mock_notify
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository"
)

const (
	ChannelRoutine   = "routine"
	ChannelEscalated = "escalated"
	ChannelCritical  = "critical"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	validationSuppression = time.Hour
	maxRetriesSuppression = 24 * time.Hour
)

// Transport delivers one formatted message to one logical channel. A failed
// send is absorbed by the internal queue, never surfaced to the caller.
type Transport interface {
	Send(ctx context.Context, channel, message string) error
}

type TrackerRepository interface {
	Get(ctx context.Context, tokenID, orderID string) (*repository.NotificationTracker, error)
	Upsert(ctx context.Context, tracker *repository.NotificationTracker) error
}

type QueueRepository interface {
	Create(ctx context.Context, msg *repository.PendingNotification) error
	GetDue(ctx context.Context, now time.Time, limit int) ([]*repository.PendingNotification, error)
	UpdateRetry(ctx context.Context, id uuid.UUID, retryCount int, nextRetryAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	transport  Transport
	trackers   TrackerRepository
	queue      QueueRepository
	maxRetries int
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(transport Transport, trackers TrackerRepository, queue QueueRepository, maxRetries int, logger *zap.Logger) *Service {
	return &Service{
		transport:  transport,
		trackers:   trackers,
		queue:      queue,
		maxRetries: maxRetries,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// NotifyValidationFailure alerts operators that an order is blocked on
// stock, at most once per order until the suppression window elapses.
func (s *Service) NotifyValidationFailure(ctx context.Context, op *repository.SyncOperation, summary string) {
	tracker := s.loadTracker(ctx, op)
	s.rearmIfElapsed(tracker)
	if tracker.ValidationFailureNotified || s.suppressed(tracker) {
		metrics.NotificationsSuppressedTotal.Inc()
		return
	}

	message := s.format(PriorityMedium, op.AccountName, op.OrderID,
		fmt.Sprintf("stock validation failed: %s", summary))
	s.deliver(ctx, ChannelEscalated, PriorityMedium, message)

	now := s.now()
	until := now.Add(validationSuppression)
	tracker.ValidationFailureNotified = true
	tracker.LastNotificationAt = &now
	tracker.NotificationCount++
	tracker.SuppressionUntil = &until
	s.saveTracker(ctx, tracker)
}

// NotifyMaxRetries alerts that an operation exhausted its technical retry
// budget and went to failed.
func (s *Service) NotifyMaxRetries(ctx context.Context, op *repository.SyncOperation) {
	tracker := s.loadTracker(ctx, op)
	s.rearmIfElapsed(tracker)
	if tracker.MaxRetriesNotified || s.suppressed(tracker) {
		metrics.NotificationsSuppressedTotal.Inc()
		return
	}

	message := s.format(PriorityHigh, op.AccountName, op.OrderID,
		fmt.Sprintf("sync abandoned after %d attempts: %s", op.RetryCount, op.ErrorMessage))
	s.deliver(ctx, ChannelCritical, PriorityHigh, message)

	now := s.now()
	until := now.Add(maxRetriesSuppression)
	tracker.MaxRetriesNotified = true
	tracker.LastNotificationAt = &now
	tracker.NotificationCount++
	tracker.SuppressionUntil = &until
	s.saveTracker(ctx, tracker)
}

// NotifyDiscrepancy reports a reconciliation mismatch that needs a human.
// Discrepancy alerts are not per-order suppressed; the reconciler already
// runs on a coarse interval.
func (s *Service) NotifyDiscrepancy(ctx context.Context, accountName, orderID, detail string) {
	message := s.format(PriorityLow, accountName, orderID,
		fmt.Sprintf("reconciliation discrepancy: %s", detail))
	s.deliver(ctx, ChannelRoutine, PriorityLow, message)
}

func (s *Service) format(priority, accountName, orderID, body string) string {
	return fmt.Sprintf("[%s] account=%s order=%s: %s", priority, accountName, orderID, body)
}

func (s *Service) deliver(ctx context.Context, channel, priority, message string) {
	if err := s.transport.Send(ctx, channel, message); err != nil {
		s.logger.Warn("notification transport failed, queueing for retry",
			zap.String("channel", channel),
			zap.Error(err))
		s.enqueue(ctx, channel, priority, message)
		return
	}
	metrics.NotificationsSentTotal.WithLabelValues(channel).Inc()
}

func (s *Service) enqueue(ctx context.Context, channel, priority, message string) {
	now := s.now()
	pending := &repository.PendingNotification{
		Message:     message,
		Channel:     channel,
		Priority:    priority,
		RetryCount:  0,
		NextRetryAt: now.Add(retryDelay(0)),
		MaxRetries:  s.maxRetries,
		CreatedAt:   now,
	}
	if err := s.queue.Create(ctx, pending); err != nil {
		s.logger.Error("failed to enqueue pending notification", zap.Error(err))
	}
}

func (s *Service) suppressed(tracker *repository.NotificationTracker) bool {
	return tracker.SuppressionUntil != nil && s.now().Before(*tracker.SuppressionUntil)
}

// rearmIfElapsed clears the per-condition flags once the suppression window
// is over, so a persisting failure alerts again. While the window is open,
// no notification of any kind goes out for the order.
func (s *Service) rearmIfElapsed(tracker *repository.NotificationTracker) {
	if tracker.SuppressionUntil == nil || s.now().Before(*tracker.SuppressionUntil) {
		return
	}
	tracker.ValidationFailureNotified = false
	tracker.MaxRetriesNotified = false
	tracker.SuppressionUntil = nil
}

func (s *Service) loadTracker(ctx context.Context, op *repository.SyncOperation) *repository.NotificationTracker {
	tracker, err := s.trackers.Get(ctx, op.TokenID, op.OrderID)
	if err != nil {
		if !errors.Is(err, repository.ErrObjectNotFound) {
			s.logger.Error("failed to load notification tracker", zap.Error(err))
		}
		return &repository.NotificationTracker{
			TokenID:     op.TokenID,
			OrderID:     op.OrderID,
			AccountName: op.AccountName,
		}
	}
	return tracker
}

func (s *Service) saveTracker(ctx context.Context, tracker *repository.NotificationTracker) {
	if err := s.trackers.Upsert(ctx, tracker); err != nil {
		s.logger.Error("failed to save notification tracker", zap.Error(err))
	}
}

// retryDelay follows min(2^retryCount minutes, 60 minutes).
func retryDelay(retryCount int) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}
	if retryCount > 6 {
		return time.Hour
	}
	delay := time.Duration(1<<uint(retryCount)) * time.Minute
	if delay > time.Hour {
		return time.Hour
	}
	return delay
}
