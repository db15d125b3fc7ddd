package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/renderscreenshot/client-go/internal/apierrors"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.renderscreenshot.com"
	// DefaultTimeout bounds every request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// ContentTypeJSON is sent with every JSON request body.
	ContentTypeJSON = "application/json; charset=utf-8"
	// HeaderRequestID carries a per-request UUID for support correlation.
	HeaderRequestID = "X-Request-Id"
)

// Config holds configuration for the API client.
type Config struct {
	// APIKey is sent as a bearer token. Required.
	APIKey string
	// BaseURL is the API root without a trailing slash. Required.
	BaseURL string
	// UserAgent identifies the client library. Required.
	UserAgent string
	// HTTPClient is used as-is, except that a logging transport is layered
	// on a copy when Logger is set. Default: a client with Timeout.
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil. Default: DefaultTimeout.
	Timeout time.Duration
	// Limiter, when set, throttles outgoing requests.
	Limiter *rate.Limiter
	// Logger receives request logs. Default: discard.
	Logger *slog.Logger
}

// Client is the HTTP API client.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures the API client.
type Option func(*Config)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithUserAgent sets the User-Agent header value.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithLimiter throttles requests through l.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Config) {
		c.Limiter = l
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// New creates an API client from functional options.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := Config{
		APIKey:    apiKey,
		BaseURL:   DefaultBaseURL,
		UserAgent: "renderscreenshot-go",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewClient(cfg)
}

// NewClient creates an API client from an explicit configuration.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apierrors.InvalidRequestWithCode("API key is required", apierrors.CodeMissingAPIKey)
	}
	if cfg.BaseURL == "" {
		return nil, apierrors.InvalidURL(cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var httpClient *http.Client
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		httpClient = &copied
	} else {
		httpClient = &http.Client{Timeout: timeout}
	}
	if cfg.Logger != nil {
		httpClient.Transport = newLoggingTransport(httpClient.Transport, logger)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
		limiter:    cfg.Limiter,
		logger:     logger,
	}, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a request with an optional JSON body and decodes a JSON response
// into result when result is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	data, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if len(data) == 0 {
		return apierrors.Internal("Empty response body")
	}
	if err := json.Unmarshal(data, result); err != nil {
		return apierrors.Internal("Failed to parse response: " + err.Error())
	}
	return nil
}

// DoBinary sends a request with an optional JSON body and returns the raw
// response body.
func (c *Client) DoBinary(ctx context.Context, method, path string, body any) ([]byte, error) {
	return c.roundTrip(ctx, method, path, body)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, apierrors.InvalidRequest("failed to marshal request body: " + err.Error())
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, apierrors.InvalidURL(c.baseURL + path)
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(HeaderRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", ContentTypeJSON)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, classifyTransportError(ctxErr)
			}
			return nil, apierrors.Timeout(err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseErrorResponse(resp)
		c.logger.LogAttrs(ctx, slog.LevelDebug, "api error",
			slog.String("request_id", requestID),
			slog.Int("status", apiErr.HTTPStatus),
			slog.String("code", string(apiErr.Code)),
			slog.Bool("retryable", apiErr.Retryable),
		)
		return nil, apiErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	return data, nil
}

// classifyTransportError maps a failure that produced no HTTP response.
func classifyTransportError(err error) *apierrors.Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apierrors.Timeout(err)
	}
	return apierrors.Network("Request failed: "+err.Error(), err)
}

// parseErrorResponse builds an error from a non-2xx response. A JSON body
// contributes message, error (which wins over message) and code; any other
// non-empty body becomes the message verbatim.
func parseErrorResponse(resp *http.Response) *apierrors.Error {
	body, _ := io.ReadAll(resp.Body)

	message := fmt.Sprintf("API request failed with status %d", resp.StatusCode)
	var code apierrors.Code

	if fields, ok := decodeErrorBody(body); ok {
		if fields.message != "" {
			message = fields.message
		}
		if fields.error != "" {
			message = fields.error
		}
		code = apierrors.Code(fields.code)
	} else if raw := strings.TrimSpace(string(body)); raw != "" {
		message = raw
	}

	return apierrors.FromResponse(resp.StatusCode, message, code, parseRetryAfter(resp.Header))
}

type errorFields struct {
	message string
	error   string
	code    string
}

func decodeErrorBody(body []byte) (errorFields, bool) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return errorFields{}, false
	}

	var fields errorFields
	for key, dst := range map[string]*string{
		"message": &fields.message,
		"error":   &fields.error,
		"code":    &fields.code,
	} {
		v, present := raw[key]
		if !present || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return errorFields{}, false
		}
		*dst = s
	}
	return fields, true
}

// parseRetryAfter reads Retry-After as whole seconds. Unparsable values are
// ignored.
func parseRetryAfter(h http.Header) *int {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return nil
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &secs
}
