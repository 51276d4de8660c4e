package utils

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryConfig is the backoff schedule for a single upstream call.
// MaxRetries counts total attempts; the delay before attempt n is
// min(InitialDelay * 2^(n-1), MaxDelay).
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// Retry executes fn up to cfg.MaxRetries times with capped exponential
// backoff between attempts. The last error is returned once attempts
// are exhausted; nothing is swallowed. Context cancellation cuts the
// backoff sleep short and surfaces ctx.Err().
func Retry[T any](ctx context.Context, logger *logrus.Logger, cfg RetryConfig, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := cfg.InitialDelay << (attempt - 1)
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"operation": op,
					"attempt":   attempt + 1,
					"delay":     delay,
				}).WithError(lastErr).Warn("retrying after backoff")
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"operation": op,
			"attempts":  attempts,
		}).WithError(lastErr).Error("retries exhausted")
	}
	return zero, lastErr
}
