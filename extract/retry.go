package extract

import (
	"context"
	"time"

	"github.com/fwojciec/orgdocs"
)

// FetchFunc is the signature for a README fetch attempt.
type FetchFunc func(ctx context.Context) (*orgdocs.Readme, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry attempts a fetch with exponential backoff.
// It retries up to 3 times (4 total attempts) with delays of 1s, 2s, 4s.
func FetchWithRetry(ctx context.Context, fetch FetchFunc) (*orgdocs.Readme, error) {
	return FetchWithRetryDelays(ctx, fetch, DefaultRetryDelays())
}

// FetchWithRetryDelays is like FetchWithRetry but allows configurable
// delays, useful for testing without waiting for real backoff.
//
// Only rate-limit errors are retried; permanent failures (missing
// README, unsupported encoding) and transport failures return
// immediately.
func FetchWithRetryDelays(ctx context.Context, fetch FetchFunc, delays []time.Duration) (*orgdocs.Readme, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		readme, err := fetch(ctx)
		if err == nil {
			return readme, nil
		}
		lastErr = err

		if orgdocs.ErrorCode(err) != orgdocs.ERATELIMIT {
			return nil, err
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
