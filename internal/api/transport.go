package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// redactedParams are matched as substrings of lower-cased query keys.
var redactedParams = []string{
	"signature",
	"auth_bearer",
	"auth_basic",
	"password",
	"token",
	"secret",
	"key",
}

// loggingTransport logs each round trip with a sanitized URL.
type loggingTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func newLoggingTransport(base http.RoundTripper, logger *slog.Logger) *loggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &loggingTransport{base: base, logger: logger}
}

// RoundTrip implements http.RoundTripper.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)

	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("url", sanitizeURL(req.URL)),
		slog.String("request_id", req.Header.Get(HeaderRequestID)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		t.logger.LogAttrs(req.Context(), slog.LevelWarn, "http request failed", attrs...)
		return resp, err
	}

	level := slog.LevelDebug
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	attrs = append(attrs, slog.Int("status", resp.StatusCode))
	t.logger.LogAttrs(req.Context(), level, "http request", attrs...)
	return resp, nil
}

// sanitizeURL replaces the values of credential-like query parameters.
func sanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	if u.RawQuery == "" {
		return u.String()
	}

	q := u.Query()
	for param := range q {
		if isRedacted(param) {
			q.Set(param, "[REDACTED]")
		}
	}

	safe := *u
	safe.RawQuery = q.Encode()
	return safe.String()
}

func isRedacted(param string) bool {
	lower := strings.ToLower(param)
	for _, p := range redactedParams {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
