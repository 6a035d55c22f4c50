package connector

import (
	"context"
	"time"

	"github.com/Konsultn-Engineering/chstmt/logging"
)

const defaultRetryDelay = time.Second

// nextDelay grows d by the backoff factor, capped at ceiling when ceiling is set.
func nextDelay(d time.Duration, factor float64, ceiling time.Duration) time.Duration {
	d = time.Duration(float64(d) * factor)
	if ceiling > 0 && d > ceiling {
		return ceiling
	}
	return d
}

// retryConnect calls connect up to MaxRetries times (at least once),
// sleeping with exponential backoff between failures. The last connect
// error is returned, or the context error if ctx ends while waiting.
func retryConnect(ctx context.Context, opts RetryConfig, connect func(context.Context) (Connection, error)) (Connection, error) {
	delay := opts.BaseDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	factor := opts.Backoff
	if factor < 1 {
		factor = 2
	}
	attempts := max(opts.MaxRetries, 1)

	var lastErr error
	for attempt := 1; ; attempt++ {
		conn, err := connect(ctx)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if attempt >= attempts {
			return nil, lastErr
		}
		logging.Warn("connect failed, retrying", "attempt", attempt, "of", attempts, "delay", delay, "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay = nextDelay(delay, factor, opts.MaxDelay)
	}
}
