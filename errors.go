package renderscreenshot

import (
	"errors"
	"time"

	"github.com/renderscreenshot/client-go/internal/apierrors"
)

// Error is the single error shape returned by this package. HTTPStatus is 0
// for failures that never reached the server. Use errors.As to inspect it.
type Error = apierrors.Error

// Code is a stable, machine-readable error discriminator.
type Code = apierrors.Code

// Error codes.
const (
	CodeInvalidURL     = apierrors.CodeInvalidURL
	CodeInvalidRequest = apierrors.CodeInvalidRequest
	CodeUnauthorized   = apierrors.CodeUnauthorized
	CodeForbidden      = apierrors.CodeForbidden
	CodeNotFound       = apierrors.CodeNotFound
	CodeRateLimited    = apierrors.CodeRateLimited
	CodeTimeout        = apierrors.CodeTimeout
	CodeNetworkError   = apierrors.CodeNetworkError
	CodeRenderFailed   = apierrors.CodeRenderFailed
	CodeInternalError  = apierrors.CodeInternalError
	CodeMissingAPIKey  = apierrors.CodeMissingAPIKey
)

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidRequest matches any 400 error, including a missing API key.
	ErrInvalidRequest = apierrors.ErrInvalidRequest

	// ErrUnauthorized is returned when the API key is invalid or missing.
	ErrUnauthorized = apierrors.ErrUnauthorized

	// ErrForbidden is returned when the key lacks access to a feature or resource.
	ErrForbidden = apierrors.ErrForbidden

	// ErrNotFound is returned for unknown presets, batches and similar.
	ErrNotFound = apierrors.ErrNotFound

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrTimeout is returned when a request exceeds its deadline.
	ErrTimeout = apierrors.ErrTimeout

	// ErrNetwork is returned for connection-level failures.
	ErrNetwork = apierrors.ErrNetwork

	// ErrRenderFailed is returned when the browser could not render the page.
	ErrRenderFailed = apierrors.ErrRenderFailed

	// ErrInternal is returned for server faults and undecodable responses.
	ErrInternal = apierrors.ErrInternal
)

// Error constructors, for callers and tests that need to produce the same
// error shape.
var (
	InvalidURL             = apierrors.InvalidURL
	InvalidRequest         = apierrors.InvalidRequest
	InvalidRequestWithCode = apierrors.InvalidRequestWithCode
	Unauthorized           = apierrors.Unauthorized
	Forbidden              = apierrors.Forbidden
	NotFound               = apierrors.NotFound
	RateLimited            = apierrors.RateLimited
	RateLimitedAfter       = apierrors.RateLimitedAfter
	Timeout                = apierrors.Timeout
	Network                = apierrors.Network
	RenderFailed           = apierrors.RenderFailed
	Internal               = apierrors.Internal
	FromResponse           = apierrors.FromResponse
)

// IsRetryable reports whether err is an *Error marked retryable: any 429 or
// 5xx response, a timeout or a network failure.
func IsRetryable(err error) bool {
	return apierrors.IsRetryable(err)
}

// RetryAfter returns the server's Retry-After hint carried by err.
func RetryAfter(err error) (time.Duration, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	secs, ok := e.RetryAfterSeconds()
	if !ok {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
