package query

import (
	"context"
	"errors"
	"time"
)

const maxRetryDelay = 30 * time.Second

// DefaultRetryDelay doubles from one second, capped at 30 seconds.
func DefaultRetryDelay(attempt int) time.Duration {
	if attempt > 5 {
		return maxRetryDelay
	}
	d := time.Second << attempt
	if d > maxRetryDelay {
		return maxRetryDelay
	}
	return d
}

// retryable reports whether a failed read should be attempted again.
// Errors may opt out by implementing Retryable() bool.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var r interface{ Retryable() bool }
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return true
}

// withRetry runs fn, repeating transient failures up to the configured retry count.
func (c *Client) withRetry(key Key, fn fetchFunc) (any, error) {
	for attempt := 0; ; attempt++ {
		val, err := fn(c.ctx)
		if err == nil {
			return val, nil
		}
		if attempt >= c.opts.Retry || !retryable(err) || c.ctx.Err() != nil {
			return nil, err
		}

		delay := c.opts.RetryDelay(attempt)
		c.log.Warn().
			Err(err).
			Stringer("key", key).
			Int("attempt", attempt+1).
			Int("max_retries", c.opts.Retry).
			Dur("delay", delay).
			Msg("Query failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-c.ctx.Done():
			timer.Stop()
			return nil, err
		}
	}
}
