package litmos_two

import (
	"net/http"
	"time"

	"github.com/sunkingbms/litmos-two/diag"
	"github.com/sunkingbms/litmos-two/logger"
	"github.com/sunkingbms/litmos-two/rate"
	"github.com/sunkingbms/litmos-two/retry"
)

type config struct {
	// transport specifies the HTTP transport mechanism
	// for making requests.
	// It's useful for mocking or if callers
	// want to add extra logging, headers, etc.
	// default: http.DefaultTransport
	transport http.RoundTripper

	// timeout sets the maximum duration for HTTP requests
	// before they are cancelled
	// default: 30 seconds
	timeout time.Duration

	// logger provides logging functionality for all internal
	// client operations
	// default: logger.Noop
	logger logger.Logger

	// limiter throttles outbound requests before they leave
	// the transport
	// default: rate.NoopLimiter
	limiter rate.Limiter

	// retry configures the backoff strategy applied to
	// retryable statuses and connection failures
	// default: retry.NewExponentialRetry()
	retry retry.Retry

	// maxAttempts caps the total attempts per logical request
	// default: 3
	maxAttempts int

	// actionURL overrides the endpoint for the row-level
	// activate/deactivate action
	// default: <baseURL>/users
	actionURL string

	// diag receives anomalous-response records
	// default: diag.Noop
	diag diag.Recorder
}

func defaultConfig() *config {
	return &config{
		transport:   http.DefaultTransport,
		timeout:     30 * time.Second,
		logger:      &logger.Noop{},
		limiter:     &rate.NoopLimiter{},
		maxAttempts: 3,
		diag:        &diag.Noop{},
	}
}

type ConfigOption func(c *config)

func WithTransport(transport http.RoundTripper) ConfigOption {
	return func(c *config) {
		c.transport = transport
	}
}

func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *config) {
		c.timeout = timeout
	}
}

func WithLogger(logger logger.Logger) ConfigOption {
	return func(c *config) {
		c.logger = logger
	}
}

func WithRateLimiter(limiter rate.Limiter) ConfigOption {
	return func(c *config) {
		c.limiter = limiter
	}
}

func WithRetry(retry retry.Retry) ConfigOption {
	return func(c *config) {
		c.retry = retry
	}
}

func WithMaxAttempts(attempts int) ConfigOption {
	return func(c *config) {
		c.maxAttempts = attempts
	}
}

func WithActionURL(url string) ConfigOption {
	return func(c *config) {
		c.actionURL = url
	}
}

func WithDiagRecorder(recorder diag.Recorder) ConfigOption {
	return func(c *config) {
		c.diag = recorder
	}
}
