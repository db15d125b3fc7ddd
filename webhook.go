package renderscreenshot

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/renderscreenshot/client-go/internal/signing"
)

// Webhook request headers.
const (
	SignatureHeader = "X-RenderScreenshot-Signature"
	TimestampHeader = "X-RenderScreenshot-Timestamp"
)

// DefaultWebhookTolerance is the replay window used by VerifyWebhook.
const DefaultWebhookTolerance = 5 * time.Minute

// nowFunc is replaced in tests.
var nowFunc = time.Now

// WebhookEvent is a notification delivered by the service.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	// Data is the event-specific payload, left undecoded.
	Data json.RawMessage `json:"data"`
	// CreatedAt is an ISO-8601 timestamp. It may be empty.
	CreatedAt string `json:"created_at,omitempty"`
}

// DecodeData unmarshals the event payload into v.
func (e *WebhookEvent) DecodeData(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return InvalidRequest("Failed to parse webhook data: " + err.Error())
	}
	return nil
}

// VerifyWebhook reports whether signature authenticates payload for the
// given timestamp header value, using [DefaultWebhookTolerance].
func VerifyWebhook(payload []byte, signature, timestamp, secret string) bool {
	return VerifyWebhookWithTolerance(payload, signature, timestamp, secret, DefaultWebhookTolerance)
}

// VerifyWebhookWithTolerance is VerifyWebhook with a custom replay window.
// The window is symmetric, so timestamps too far in the future are rejected
// as well. It never returns an error: every failure is reported as false.
//
// payload must be the raw request body as received.
func VerifyWebhookWithTolerance(payload []byte, signature, timestamp, secret string, tolerance time.Duration) bool {
	if len(payload) == 0 || signature == "" || timestamp == "" || secret == "" {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}

	age := nowFunc().Unix() - ts
	if age < 0 {
		age = -age
	}
	if age > int64(tolerance/time.Second) {
		return false
	}

	signed := make([]byte, 0, len(timestamp)+1+len(payload))
	signed = append(signed, timestamp...)
	signed = append(signed, '.')
	signed = append(signed, payload...)

	return signing.Equal(signature, signing.Sign(signed, []byte(secret)))
}

// ExtractWebhookHeaders finds the signature and timestamp headers in an
// arbitrary header map, ignoring key case. Missing values are empty.
func ExtractWebhookHeaders(headers map[string]string) (signature, timestamp string) {
	for k, v := range headers {
		switch {
		case strings.EqualFold(k, SignatureHeader):
			signature = v
		case strings.EqualFold(k, TimestampHeader):
			timestamp = v
		}
	}
	return signature, timestamp
}

// ExtractWebhookHTTPHeaders is ExtractWebhookHeaders for net/http headers,
// including ones built by hand with non-canonical keys.
func ExtractWebhookHTTPHeaders(h http.Header) (signature, timestamp string) {
	for k, vs := range h {
		if len(vs) == 0 {
			continue
		}
		switch {
		case strings.EqualFold(k, SignatureHeader):
			signature = vs[0]
		case strings.EqualFold(k, TimestampHeader):
			timestamp = vs[0]
		}
	}
	return signature, timestamp
}

// ParseWebhook decodes a webhook body. Verify it first. Unknown fields are
// ignored; malformed JSON yields an invalid_request *Error.
func ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, InvalidRequest("Failed to parse webhook payload: " + err.Error())
	}
	return &event, nil
}
