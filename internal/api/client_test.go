package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/renderscreenshot/client-go/internal/apierrors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:   server.URL,
		APIKey:    "test-key",
		UserAgent: "renderscreenshot-go/test",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	for _, key := range []string{"", "   "} {
		_, err := NewClient(Config{BaseURL: "https://example.com", APIKey: key})
		var apiErr *apierrors.Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("NewClient(%q) error = %v, want *apierrors.Error", key, err)
		}
		if apiErr.Code != apierrors.CodeMissingAPIKey {
			t.Errorf("Code = %q, want %q", apiErr.Code, apierrors.CodeMissingAPIKey)
		}
		if !errors.Is(err, apierrors.ErrInvalidRequest) {
			t.Error("missing key should match ErrInvalidRequest")
		}
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "", APIKey: "test-key"})
	if err == nil {
		t.Error("expected error for empty base URL")
	}
}

func TestNewClient_DefaultValues(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "https://example.com/", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}
	if client.BaseURL() != "https://example.com" {
		t.Errorf("BaseURL() = %q, trailing slash should be trimmed", client.BaseURL())
	}
	if client.limiter != nil {
		t.Error("limiter should be nil by default")
	}
	if _, ok := client.httpClient.Transport.(*loggingTransport); ok {
		t.Error("logging transport should only be installed when a logger is given")
	}
}

func TestNewClient_CustomHTTPClientIsNotMutated(t *testing.T) {
	custom := &http.Client{Timeout: 60 * time.Second}

	client, err := NewClient(Config{
		BaseURL:    "https://example.com",
		APIKey:     "test-key",
		HTTPClient: custom,
		Logger:     slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if custom.Transport != nil {
		t.Error("caller's http.Client transport was modified")
	}
	if client.httpClient.Timeout != 60*time.Second {
		t.Errorf("timeout = %v, want 60s", client.httpClient.Timeout)
	}
	if _, ok := client.httpClient.Transport.(*loggingTransport); !ok {
		t.Errorf("transport = %T, want *loggingTransport", client.httpClient.Transport)
	}
}

func TestNew_WithOptions(t *testing.T) {
	limiter := rate.NewLimiter(rate.Limit(5), 1)
	client, err := New("test-key",
		WithBaseURL("https://custom.example.com"),
		WithUserAgent("custom-agent/1.0"),
		WithTimeout(60*time.Second),
		WithLimiter(limiter),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.baseURL != "https://custom.example.com" {
		t.Errorf("baseURL = %s, want https://custom.example.com", client.baseURL)
	}
	if client.userAgent != "custom-agent/1.0" {
		t.Errorf("userAgent = %s", client.userAgent)
	}
	if client.httpClient.Timeout != 60*time.Second {
		t.Errorf("timeout = %v, want 60s", client.httpClient.Timeout)
	}
	if client.limiter != limiter {
		t.Error("limiter not set")
	}
}

func TestNew_DefaultBaseURL(t *testing.T) {
	client, err := New("test-key")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if client.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), DefaultBaseURL)
	}
}

func TestClient_Do_Headers(t *testing.T) {
	ids := make(chan string, 2)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want Bearer test-key", got)
		}
		if got := r.Header.Get("User-Agent"); got != "renderscreenshot-go/test" {
			t.Errorf("User-Agent = %q", got)
		}
		if r.Method == http.MethodPost {
			if got := r.Header.Get("Content-Type"); got != ContentTypeJSON {
				t.Errorf("Content-Type = %q, want %q", got, ContentTypeJSON)
			}
		}
		ids <- r.Header.Get(HeaderRequestID)
		w.Write([]byte(`{}`))
	})

	for i := 0; i < 2; i++ {
		if err := client.Do(context.Background(), http.MethodPost, "/v1/x", map[string]any{"a": 1}, nil); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
	}

	first, second := <-ids, <-ids
	if first == "" || first == second {
		t.Errorf("request ids = %q, %q, want two distinct non-empty ids", first, second)
	}
}

func TestClient_Do_WithBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["url"] != "https://example.com" {
			t.Errorf("body url = %v", body["url"])
		}
		json.NewEncoder(w).Encode(map[string]any{"width": 1200, "cached": true})
	})

	var result ScreenshotResponse
	err := client.Do(context.Background(), http.MethodPost, "/v1/screenshot", map[string]any{"url": "https://example.com"}, &result)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if result.Width != 1200 || !result.Cached {
		t.Errorf("result = %+v", result)
	}
}

func TestClient_Do_UndecodableResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	var result ScreenshotResponse
	err := client.Do(context.Background(), http.MethodGet, "/v1/x", nil, &result)
	if !errors.Is(err, apierrors.ErrInternal) {
		t.Fatalf("Do() error = %v, want internal error", err)
	}
	if !strings.HasPrefix(err.(*apierrors.Error).Message, "Failed to parse response: ") {
		t.Errorf("Message = %q", err.(*apierrors.Error).Message)
	}
}

func TestClient_DoBinary(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	})

	data, err := client.DoBinary(context.Background(), http.MethodPost, "/v1/screenshot", map[string]any{"url": "https://example.com"})
	if err != nil {
		t.Fatalf("DoBinary() error = %v", err)
	}
	if !bytes.Equal(data, png) {
		t.Errorf("DoBinary() = %v, want %v", data, png)
	}
}

func TestClient_Do_ErrorResponse(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		retryAfter  string
		wantMessage string
		wantCode    apierrors.Code
		wantRetry   bool
		wantAfter   *int
	}{
		{
			name:        "json message and code",
			status:      400,
			body:        `{"message":"bad width","code":"invalid_request"}`,
			wantMessage: "bad width",
			wantCode:    "invalid_request",
		},
		{
			name:        "error field wins over message",
			status:      403,
			body:        `{"message":"m","error":"plan does not allow pdf"}`,
			wantMessage: "plan does not allow pdf",
		},
		{
			name:        "plain text body",
			status:      502,
			body:        "upstream exploded",
			wantMessage: "upstream exploded",
			wantRetry:   true,
		},
		{
			name:        "non-string field falls back to raw body",
			status:      500,
			body:        `{"message":42}`,
			wantMessage: `{"message":42}`,
			wantRetry:   true,
		},
		{
			name:        "empty body",
			status:      404,
			body:        "",
			wantMessage: "API request failed with status 404",
		},
		{
			name:        "rate limit with retry-after",
			status:      429,
			body:        `{"error":"slow down","code":"rate_limited"}`,
			retryAfter:  "30",
			wantMessage: "slow down",
			wantCode:    "rate_limited",
			wantRetry:   true,
			wantAfter:   intPtr(30),
		},
		{
			name:        "unparsable retry-after is ignored",
			status:      429,
			body:        "",
			retryAfter:  "Wed, 21 Oct 2015 07:28:00 GMT",
			wantMessage: "API request failed with status 429",
			wantRetry:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			err := client.Do(context.Background(), http.MethodGet, "/v1/x", nil, nil)

			var apiErr *apierrors.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("Do() error = %v, want *apierrors.Error", err)
			}
			if apiErr.HTTPStatus != tt.status {
				t.Errorf("HTTPStatus = %d, want %d", apiErr.HTTPStatus, tt.status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", apiErr.Code, tt.wantCode)
			}
			if apiErr.Retryable != tt.wantRetry {
				t.Errorf("Retryable = %v, want %v", apiErr.Retryable, tt.wantRetry)
			}
			secs, ok := apiErr.RetryAfterSeconds()
			switch {
			case tt.wantAfter == nil && ok:
				t.Errorf("RetryAfterSeconds() = %d, want none", secs)
			case tt.wantAfter != nil && (!ok || secs != *tt.wantAfter):
				t.Errorf("RetryAfterSeconds() = %d, %v, want %d", secs, ok, *tt.wantAfter)
			}
		})
	}
}

func TestClient_Do_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, err := NewClient(Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	err = client.Do(context.Background(), http.MethodGet, "/slow", nil, nil)
	if !errors.Is(err, apierrors.ErrTimeout) {
		t.Fatalf("Do() error = %v, want timeout", err)
	}
	if !apierrors.IsRetryable(err) {
		t.Error("timeouts should be retryable")
	}
}

func TestClient_Do_ContextDeadline(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.Do(ctx, http.MethodGet, "/slow", nil, nil)
	if !errors.Is(err, apierrors.ErrTimeout) {
		t.Errorf("Do() error = %v, want timeout", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("timeout error should unwrap to context.DeadlineExceeded")
	}
}

func TestClient_Do_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: baseURL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	err = client.Do(context.Background(), http.MethodGet, "/v1/x", nil, nil)
	if !errors.Is(err, apierrors.ErrNetwork) {
		t.Fatalf("Do() error = %v, want network error", err)
	}
	apiErr := err.(*apierrors.Error)
	if !strings.HasPrefix(apiErr.Message, "Request failed: ") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.HTTPStatus != 0 {
		t.Errorf("HTTPStatus = %d, want 0", apiErr.HTTPStatus)
	}
	if !apiErr.Retryable {
		t.Error("network errors should be retryable")
	}
}

func TestClient_Do_RateLimiterHonorsContext(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client, err := New("test-key",
		WithBaseURL(server.URL),
		WithLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := client.Do(context.Background(), http.MethodGet, "/a", nil, nil); err != nil {
		t.Fatalf("first Do() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = client.Do(ctx, http.MethodGet, "/b", nil, nil)
	if !errors.Is(err, apierrors.ErrTimeout) {
		t.Errorf("throttled Do() error = %v, want timeout", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server saw %d calls, want 1", n)
	}
}

func TestClassifyTransportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"deadline", context.DeadlineExceeded, apierrors.ErrTimeout},
		{"wrapped deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), apierrors.ErrTimeout},
		{"canceled", context.Canceled, apierrors.ErrNetwork},
		{"other", errors.New("connection reset by peer"), apierrors.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyTransportError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("classifyTransportError(%v) = %v, want match for %v", tt.err, got, tt.want)
			}
		})
	}
}

func intPtr(v int) *int {
	return &v
}

// ExampleNewClient demonstrates creating an API client with struct-based configuration.
func ExampleNewClient() {
	client, err := NewClient(Config{
		BaseURL: "https://api.renderscreenshot.com",
		APIKey:  "rs_live_xxx",
		Timeout: 30 * time.Second,
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Client created for: %s\n", client.BaseURL())
	// Output: Client created for: https://api.renderscreenshot.com
}

// ExampleNew demonstrates creating an API client with functional options.
func ExampleNew() {
	client, err := New("rs_live_xxx",
		WithBaseURL("https://staging.renderscreenshot.com"),
		WithTimeout(60*time.Second),
	)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Client created for: %s\n", client.BaseURL())
	// Output: Client created for: https://staging.renderscreenshot.com
}
