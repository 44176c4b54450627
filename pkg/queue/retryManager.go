package queue

import (
	"math/rand"
	"strings"
	"time"
)

// RetryManager decides whether a failed task gets another attempt and
// how long to wait before it.
type RetryManager struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func NewRetryManager(maxRetries int, baseDelay time.Duration) *RetryManager {
	return &RetryManager{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   baseDelay * 16,
	}
}

// ShouldRetry reports whether the task should be retried and the delay
// before the next attempt.
func (r *RetryManager) ShouldRetry(task *Task, err error) (bool, time.Duration) {
	if task.Attempts >= task.MaxRetries {
		return false, 0
	}

	if !r.isRetryableError(err) {
		return false, 0
	}

	return true, r.calculateBackoff(task.Attempts)
}

// isRetryableError filters out errors that no amount of retrying will
// fix. Matching is by substring since errors arrive wrapped.
func (r *RetryManager) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	nonRetryable := []string{
		"invalid",
		"not found",
		"expired",
		"already cancelled",
		"permission denied",
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range nonRetryable {
		if strings.Contains(errStr, pattern) {
			return false
		}
	}

	return true
}

// calculateBackoff returns base * 2^(attempt-1) with ±25% jitter,
// capped at maxDelay.
func (r *RetryManager) calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return r.baseDelay
	}

	backoff := r.baseDelay * time.Duration(1<<(attempt-1))
	if backoff > r.maxDelay {
		backoff = r.maxDelay
	}

	jitter := time.Duration(rand.Int63n(int64(backoff / 2)))
	if rand.Intn(2) == 0 {
		backoff += jitter
	} else {
		backoff -= jitter
	}

	if backoff > r.maxDelay {
		backoff = r.maxDelay
	}

	return backoff
}
