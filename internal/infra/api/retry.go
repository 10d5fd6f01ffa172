package api

import (
	"context"
	"errors"
	"math"
	"time"
)

// RetryConfig defines retry behavior for idempotent reads.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// DefaultRetryConfig provides sensible defaults.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:     3,
	InitialDelay:    200 * time.Millisecond,
	MaxDelay:        2 * time.Second,
	BackoffMultiple: 2.0,
}

// ErrorAction determines how to handle an error.
type ErrorAction int

const (
	ActionRetry ErrorAction = iota
	ActionFatal
)

// ClassifyError determines the action for a given error. Client-side
// rejections (4xx other than 429) are fatal; rate limits, server errors
// and network failures are retried.
func ClassifyError(err error) ErrorAction {
	if err == nil {
		return ActionFatal
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == 429 {
			return ActionRetry
		}
		if apiErr.Status >= 500 {
			return ActionRetry
		}
		return ActionFatal
	}

	// Network errors, timeouts, decode failures on a dropped connection.
	return ActionRetry
}

// withRetry executes fn with exponential backoff.
func (c *Client) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	config := c.retry
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if ClassifyError(err) == ActionFatal {
			return err
		}
		if attempt == config.MaxAttempts-1 {
			break
		}

		delay := time.Duration(float64(config.InitialDelay) *
			math.Pow(config.BackoffMultiple, float64(attempt)))
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}

		c.log.Debug("Retrying request", "attempt", attempt+1, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}
