package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// RetryConfig controls the bounded retry loop: a fixed number of attempts
// with a fixed delay between them.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// HTTPClientConfig bundles the HTTP client and retry settings shared by
// both provider clients.
type HTTPClientConfig struct {
	Client *http.Client
	Retry  RetryConfig
}

var (
	// ErrNotConfigured marks a provider whose credential is absent. This
	// is a configuration state, not a failure.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrUpstreamCode marks an application-level error code carried in an
	// otherwise successful HTTP response. Not retryable.
	ErrUpstreamCode = errors.New("upstream error code")

	errUnexpectedStatus = errors.New("unexpected status code")
	errCircuitOpen      = errors.New("circuit breaker open")
	errNoHTTPClient     = errors.New("http client not configured")
	errInvalidRetry     = errors.New("invalid retry configuration")
)

// newBreaker builds the per-provider circuit breaker. The thresholds are
// high enough that a single run's retry budget can never trip it; it only
// matters when the clients are embedded in a long-lived process.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doRequestWithRetry executes the HTTP request up to cfg.Retry.MaxAttempts
// times, waiting cfg.Retry.Delay between attempts, with each attempt routed
// through the circuit breaker. Transport errors and non-2xx statuses are
// transient; after the final attempt the last error is propagated. The
// caller owns the returned response body.
func doRequestWithRetry(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Retry.MaxAttempts <= 0 || cfg.Retry.Delay < 0 {
		return nil, errInvalidRetry
	}

	var lastErr error

	for attempt := 0; attempt < cfg.Retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(cfg.Retry.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
			}
			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		// If the circuit is open, further attempts are pointless.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		lastErr = err
	}

	return nil, fmt.Errorf("exhausted %d attempts: %w", cfg.Retry.MaxAttempts, lastErr)
}
