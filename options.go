package renderscreenshot

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/renderscreenshot/client-go/internal/api"
)

// SDKVersion is reported in the default User-Agent.
const SDKVersion = "1.0.0"

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = api.DefaultBaseURL
	// DefaultTimeout bounds each request.
	DefaultTimeout = api.DefaultTimeout

	defaultUserAgent = "renderscreenshot-go/" + SDKVersion
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     *slog.Logger
	limiter    *rate.Limiter
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the API base URL.
// Default: https://api.renderscreenshot.com
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. Its Timeout takes precedence
// over WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout.
// Default: 30 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithLogger enables request logging. Credential-like query parameters are
// redacted. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithRateLimit throttles the client to rps requests per second with the
// given burst. A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *clientConfig) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// waitConfig holds configuration for waiting on batch jobs.
type waitConfig struct {
	timeout      time.Duration
	pollInterval time.Duration
	onProgress   func(*BatchResponse)
}

// WaitOption configures WaitForBatch.
type WaitOption func(*waitConfig)

// WithWaitTimeout bounds the whole wait.
// Default: 10 minutes
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}

// WithPollInterval sets the initial delay between status checks. The delay
// grows while the job makes no progress.
// Default: 2 seconds
func WithPollInterval(interval time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.pollInterval = interval
	}
}

// WithProgress registers fn to be called whenever the job's completed or
// failed count changes.
func WithProgress(fn func(*BatchResponse)) WaitOption {
	return func(c *waitConfig) {
		c.onProgress = fn
	}
}
