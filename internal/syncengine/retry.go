package syncengine

import (
	"math"
	"math/rand"
	"time"
)

// RetryPolicy schedules re-attempts for technical failures. Validation
// failures bypass the budget entirely and reschedule at RevalidateAfter,
// because stock may legitimately arrive at any point.
type RetryPolicy struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	ExponentialBase float64
	JitterEnabled   bool
	RevalidateAfter time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     5,
		InitialDelay:    30 * time.Second,
		MaxDelay:        time.Hour,
		ExponentialBase: 2.0,
		RevalidateAfter: 15 * time.Minute,
	}
}

// Delay computes the backoff for the given attempt number (1-based):
// min(initialDelay * base^(retryCount-1), maxDelay), optionally jittered by
// up to 10% while staying under the cap.
func (p RetryPolicy) Delay(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}

	delay := float64(p.InitialDelay) * math.Pow(p.ExponentialBase, float64(retryCount-1))
	if delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}

	d := time.Duration(delay)
	if p.JitterEnabled && d > 0 {
		jitter := time.Duration(rand.Int63n(int64(d)/10 + 1))
		if d+jitter <= p.MaxDelay {
			d += jitter
		}
	}
	return d
}

func (p RetryPolicy) Exhausted(retryCount int) bool {
	return retryCount >= p.MaxAttempts
}
