package queue

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldRetryExhaustedAttempts(t *testing.T) {
	rm := NewRetryManager(3, time.Second)
	task := &Task{ID: "t1", Type: TaskTypeExpireBooking, Attempts: 3, MaxRetries: 3}

	retry, _ := rm.ShouldRetry(task, errors.New("connection refused"))
	assert.False(t, retry)
}

func TestShouldRetryRetryableError(t *testing.T) {
	rm := NewRetryManager(3, time.Second)
	task := &Task{ID: "t1", Type: TaskTypeExpireBooking, Attempts: 1, MaxRetries: 3}

	retry, delay := rm.ShouldRetry(task, errors.New("connection refused"))
	assert.True(t, retry)
	assert.Greater(t, delay, time.Duration(0))
}

func TestShouldRetryNonRetryableErrors(t *testing.T) {
	rm := NewRetryManager(3, time.Second)

	tests := []struct {
		name string
		err  error
	}{
		{name: "not found", err: errors.New("booking not found")},
		{name: "invalid", err: errors.New("invalid booking_id in task data")},
		{name: "expired", err: errors.New("booking expired")},
		{name: "already cancelled", err: errors.New("booking already cancelled")},
		{name: "nil error", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{ID: "t1", Type: TaskTypeExpireBooking, Attempts: 1, MaxRetries: 3}
			retry, _ := rm.ShouldRetry(task, tt.err)
			assert.False(t, retry)
		})
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	rm := NewRetryManager(10, time.Second)

	// Jitter is ±25%, so compare against generous bounds.
	prev := time.Duration(0)
	for attempt := 1; attempt <= 4; attempt++ {
		delay := rm.calculateBackoff(attempt)
		assert.Greater(t, delay, prev/2)
		prev = delay
	}

	for attempt := 5; attempt <= 20; attempt++ {
		delay := rm.calculateBackoff(attempt)
		assert.LessOrEqual(t, delay, 16*time.Second)
	}
}
