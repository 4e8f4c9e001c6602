// Package utils provides small shared helpers for the console.
package utils

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig defines the retry policy used for remote calls.
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// DefaultRetryConfig returns the standard policy for the chat endpoint.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// NewExponentialBackOff creates a backoff.ExponentialBackOff from RetryConfig.
func (rc RetryConfig) NewExponentialBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = rc.InitialDelay
	b.MaxInterval = rc.MaxDelay
	b.Multiplier = rc.Multiplier
	if !rc.Jitter {
		b.RandomizationFactor = 0
	}
	return b
}

// ExecuteWithRetry runs operation with exponential backoff until it succeeds
// or the policy's retry budget is exhausted.
func ExecuteWithRetry(operation func() error, config RetryConfig) error {
	backoffConfig := config.NewExponentialBackOff()

	// Cap total elapsed time with the sum of the expected delays so the
	// retry count stays bounded even with jitter.
	maxElapsedTime := time.Duration(0)
	currentDelay := config.InitialDelay
	for i := 0; i <= config.MaxRetries; i++ {
		maxElapsedTime += currentDelay
		currentDelay = time.Duration(float64(currentDelay) * config.Multiplier)
		if currentDelay > config.MaxDelay {
			currentDelay = config.MaxDelay
		}
	}
	backoffConfig.MaxElapsedTime = maxElapsedTime

	if err := backoff.Retry(operation, backoffConfig); err != nil {
		return fmt.Errorf("operation failed after retries: %w", err)
	}
	return nil
}

// IsRetryableStatus reports whether an HTTP status code is worth retrying
// (429 or any 5xx).
func IsRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || (statusCode >= 500 && statusCode <= 599)
}
