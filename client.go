package renderscreenshot

import (
	"context"
	"strings"
	"time"

	"github.com/renderscreenshot/client-go/internal/api"
)

// Client talks to the RenderScreenshot API. It is safe for concurrent use.
type Client struct {
	apiClient *api.Client
	apiKey    string
	baseURL   string

	// Cache manages cached captures.
	Cache *CacheManager
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(apiKey string, cfg *clientConfig) (*api.Client, error) {
	return api.NewClient(api.Config{
		APIKey:     apiKey,
		BaseURL:    cfg.baseURL,
		UserAgent:  cfg.userAgent,
		HTTPClient: cfg.httpClient,
		Timeout:    cfg.timeout,
		Limiter:    cfg.limiter,
		Logger:     cfg.logger,
	})
}

// New creates a client. A blank apiKey yields an invalid_request *Error with
// code missing_api_key.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL:   DefaultBaseURL,
		timeout:   DefaultTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := buildAPIClient(apiKey, cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		apiClient: apiClient,
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(cfg.baseURL, "/"),
	}
	c.Cache = &CacheManager{apiClient: apiClient}
	return c, nil
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Take renders a capture and returns the encoded image or PDF.
func (c *Client) Take(ctx context.Context, opts TakeOptions) ([]byte, error) {
	return c.apiClient.TakeScreenshot(ctx, opts.ToParams())
}

// TakeJSON renders a capture and returns its metadata, including the CDN URL,
// instead of the binary.
func (c *Client) TakeJSON(ctx context.Context, opts TakeOptions) (*ScreenshotResponse, error) {
	return c.apiClient.TakeScreenshotJSON(ctx, opts.ToParams())
}

// GenerateURL returns a signed capture URL keyed with the client's API key.
// See [SignURL].
func (c *Client) GenerateURL(opts TakeOptions, expiresAt time.Time) string {
	return SignURL(opts, c.baseURL, c.apiKey, expiresAt)
}

// Presets lists the available presets.
func (c *Client) Presets(ctx context.Context) ([]Preset, error) {
	return c.apiClient.ListPresets(ctx)
}

// Preset fetches one preset by ID.
func (c *Client) Preset(ctx context.Context, id string) (*Preset, error) {
	return c.apiClient.GetPreset(ctx, id)
}

// Devices lists the device emulation profiles.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	return c.apiClient.ListDevices(ctx)
}
