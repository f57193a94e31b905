package guard

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// retryableStatuses are the HTTP statuses treated as transient server
// failures. Every other completed response, including 4xx and 500/501,
// is returned to the caller as-is.
//
//nolint:gochecknoglobals // Immutable lookup set used as a constant.
var retryableStatuses = map[int]struct{}{
	http.StatusBadGateway:         {},
	http.StatusServiceUnavailable: {},
	http.StatusGatewayTimeout:     {},
}

// retryExecutor performs the real transport call, classifying failures
// and retrying transient ones with exponential backoff.
type retryExecutor struct {
	// transport performs the actual HTTP exchange.
	transport Transport
	// enabled toggles retrying; when false, exactly one attempt is made.
	enabled bool
	// maxRetries is the number of additional attempts after the first one.
	maxRetries int
	// baseDelay is the backoff base: the wait before re-attempt k is baseDelay << k.
	baseDelay time.Duration
	// timeout is the per-attempt deadline; zero disables it.
	timeout time.Duration
	// retryOnNetworkError controls whether connectivity failures are retried.
	retryOnNetworkError bool
	// retryOnTimeout controls whether timed-out attempts are retried.
	retryOnTimeout bool
	// sleep waits for the backoff delay; overridable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// execute performs up to maxRetries+1 attempts and returns the final outcome.
// The last response or error is always surfaced, never swallowed.
func (e *retryExecutor) execute(ctx context.Context, request *Request) (*Response, error) {
	attempts := 1
	if e.enabled {
		attempts = e.maxRetries + 1
	}

	var (
		lastResponse *Response
		lastErr      error
	)

	for attempt := range attempts {
		if attempt > 0 {
			if err := e.sleep(ctx, e.backoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		response, err := e.perform(ctx, request)
		if err != nil {
			if !e.isRetryableError(err) {
				return nil, err
			}

			lastResponse, lastErr = nil, err

			continue
		}

		if _, retryable := retryableStatuses[response.Status]; retryable && attempt < attempts-1 {
			lastResponse, lastErr = response, nil

			continue
		}

		return response, nil
	}

	if lastResponse != nil {
		return lastResponse, nil
	}

	return nil, lastErr
}

// perform runs a single attempt under the per-attempt deadline.
func (e *retryExecutor) perform(ctx context.Context, request *Request) (*Response, error) {
	if e.timeout > 0 {
		attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		ctx = attemptCtx
	}

	return e.transport.Perform(ctx, request)
}

// backoff returns the exponential delay after failed attempt number
// attempt (0-indexed): baseDelay × 2^attempt.
func (e *retryExecutor) backoff(attempt int) time.Duration {
	return e.baseDelay << attempt
}

// isRetryableError reports whether a transport failure may be retried
// under the configured policy. Only structured transport errors are
// ever retryable; anything else is a programming error and propagates
// immediately.
func (e *retryExecutor) isRetryableError(err error) bool {
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		return false
	}

	switch transportErr.Kind {
	case ErrorKindNetwork:
		return e.retryOnNetworkError
	case ErrorKindTimeout:
		return e.retryOnTimeout
	case ErrorKindOther:
		return false
	default:
		return false
	}
}

// sleepContext waits for the given duration or until the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
