package syncengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_Delay(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{
		MaxAttempts:     5,
		InitialDelay:    30 * time.Second,
		MaxDelay:        time.Hour,
		ExponentialBase: 2.0,
	}

	tests := []struct {
		name       string
		retryCount int
		want       time.Duration
	}{
		{name: "first attempt uses initial delay", retryCount: 1, want: 30 * time.Second},
		{name: "second attempt doubles", retryCount: 2, want: time.Minute},
		{name: "third attempt doubles again", retryCount: 3, want: 2 * time.Minute},
		{name: "fifth attempt", retryCount: 5, want: 8 * time.Minute},
		{name: "large attempt clamps to max", retryCount: 20, want: time.Hour},
		{name: "zero is treated as first attempt", retryCount: 0, want: 30 * time.Second},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, policy.Delay(tt.retryCount))
		})
	}
}

func TestRetryPolicy_DelayMonotonic(t *testing.T) {
	t.Parallel()

	policy := DefaultRetryPolicy()
	prev := time.Duration(0)
	for attempt := 1; attempt <= 15; attempt++ {
		d := policy.Delay(attempt)
		assert.GreaterOrEqual(t, d, prev, "delay must never shrink between attempts")
		assert.LessOrEqual(t, d, policy.MaxDelay)
		prev = d
	}
}

func TestRetryPolicy_DelayWithJitterStaysUnderCap(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{
		MaxAttempts:     5,
		InitialDelay:    30 * time.Second,
		MaxDelay:        time.Hour,
		ExponentialBase: 2.0,
		JitterEnabled:   true,
	}

	for attempt := 1; attempt <= 30; attempt++ {
		base := time.Duration(float64(30*time.Second) * pow2(attempt-1))
		if base > policy.MaxDelay {
			base = policy.MaxDelay
		}
		d := policy.Delay(attempt)
		assert.GreaterOrEqual(t, d, base, "jitter must only add time")
		assert.LessOrEqual(t, d, policy.MaxDelay)
	}
}

func pow2(n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= 2
	}
	return result
}

func TestRetryPolicy_Exhausted(t *testing.T) {
	t.Parallel()

	policy := DefaultRetryPolicy()
	assert.False(t, policy.Exhausted(0))
	assert.False(t, policy.Exhausted(4))
	assert.True(t, policy.Exhausted(5))
	assert.True(t, policy.Exhausted(6))
}
