package millennium

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout is used when no timeout, or a non-positive one, is given.
const DefaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	useTLS             bool
	timeout            time.Duration
	httpClient         *http.Client
	logger             zerolog.Logger
	userAgent          string
	insecureSkipVerify bool
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout:   DefaultTimeout,
		logger:    zerolog.Nop(),
		userAgent: "millennium-go",
	}
}

// WithTLS selects https instead of http for the base URL.
func WithTLS(useTLS bool) Option {
	return func(o *clientOptions) {
		o.useTLS = useTLS
	}
}

// WithTimeout sets the per-request timeout. Non-positive values keep
// DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request diagnostics. Credentials and
// session tokens are never logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithInsecureSkipVerify disables certificate verification.
// Use with caution and only for development/testing. It has no effect when
// WithHTTPClient is also given.
func WithInsecureSkipVerify() Option {
	return func(o *clientOptions) {
		o.insecureSkipVerify = true
	}
}
