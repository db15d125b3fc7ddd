// Package apierrors provides the error type shared by the RenderScreenshot
// client and its HTTP transport.
package apierrors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error discriminator.
type Code string

const (
	CodeInvalidURL     Code = "invalid_url"
	CodeInvalidRequest Code = "invalid_request"
	CodeUnauthorized   Code = "unauthorized"
	CodeForbidden      Code = "forbidden"
	CodeNotFound       Code = "not_found"
	CodeRateLimited    Code = "rate_limited"
	CodeTimeout        Code = "timeout"
	CodeNetworkError   Code = "network_error"
	CodeRenderFailed   Code = "render_failed"
	CodeInternalError  Code = "internal_error"
	CodeMissingAPIKey  Code = "missing_api_key"
)

const defaultRenderFailedMessage = "Browser rendering failed"

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidRequest matches any 400 error.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthorized is returned when the API key is invalid or missing.
	ErrUnauthorized = errors.New("invalid or missing API key")

	// ErrForbidden matches 403 responses.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrTimeout matches transport timeouts.
	ErrTimeout = errors.New("request timed out")

	// ErrNetwork matches non-timeout transport failures.
	ErrNetwork = errors.New("network error")

	// ErrRenderFailed matches browser rendering failures.
	ErrRenderFailed = errors.New("render failed")

	// ErrInternal matches internal errors, including undecodable responses.
	ErrInternal = errors.New("internal error")
)

// Error is the single error shape reported by the client. HTTPStatus is 0
// for failures that never produced an HTTP response.
type Error struct {
	Message    string
	HTTPStatus int
	Code       Code
	Retryable  bool
	// RetryAfter is the server's wait hint in seconds, if one was given.
	RetryAfter *int
	// Err is the underlying transport cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.HTTPStatus != 0 && e.Code != "":
		return fmt.Sprintf("renderscreenshot: %s (status %d, code %s)", e.Message, e.HTTPStatus, e.Code)
	case e.HTTPStatus != 0:
		return fmt.Sprintf("renderscreenshot: %s (status %d)", e.Message, e.HTTPStatus)
	case e.Code != "":
		return fmt.Sprintf("renderscreenshot: %s (code %s)", e.Message, e.Code)
	}
	return "renderscreenshot: " + e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidRequest:
		return e.HTTPStatus == 400
	case ErrUnauthorized:
		return e.HTTPStatus == 401
	case ErrForbidden:
		return e.HTTPStatus == 403
	case ErrNotFound:
		return e.HTTPStatus == 404
	case ErrRateLimited:
		return e.HTTPStatus == 429
	case ErrTimeout:
		return e.Code == CodeTimeout
	case ErrNetwork:
		return e.Code == CodeNetworkError
	case ErrRenderFailed:
		return e.Code == CodeRenderFailed
	case ErrInternal:
		return e.Code == CodeInternalError
	}
	return false
}

// RetryAfterSeconds reports the wait hint and whether one was present.
func (e *Error) RetryAfterSeconds() (int, bool) {
	if e.RetryAfter == nil {
		return 0, false
	}
	return *e.RetryAfter, true
}

// InvalidURL reports a malformed capture target.
func InvalidURL(url string) *Error {
	return &Error{Message: "Invalid URL provided: " + url, HTTPStatus: 400, Code: CodeInvalidURL}
}

// InvalidRequest reports a request the server or client rejected as malformed.
func InvalidRequest(message string) *Error {
	return &Error{Message: message, HTTPStatus: 400, Code: CodeInvalidRequest}
}

// InvalidRequestWithCode is InvalidRequest with a caller-chosen code.
func InvalidRequestWithCode(message string, code Code) *Error {
	return &Error{Message: message, HTTPStatus: 400, Code: code}
}

// Unauthorized reports a missing or rejected API key.
func Unauthorized() *Error {
	return &Error{Message: "Invalid or missing API key", HTTPStatus: 401, Code: CodeUnauthorized}
}

func Forbidden(message string) *Error {
	return &Error{Message: message, HTTPStatus: 403, Code: CodeForbidden}
}

func NotFound(message string) *Error {
	return &Error{Message: message, HTTPStatus: 404, Code: CodeNotFound}
}

// RateLimited reports a 429 without a wait hint.
func RateLimited() *Error {
	return &Error{Message: "Rate limit exceeded", HTTPStatus: 429, Code: CodeRateLimited, Retryable: true}
}

// RateLimitedAfter reports a 429 with a wait hint in seconds.
func RateLimitedAfter(seconds int) *Error {
	return &Error{
		Message:    fmt.Sprintf("Rate limit exceeded. Retry after %d seconds", seconds),
		HTTPStatus: 429,
		Code:       CodeRateLimited,
		Retryable:  true,
		RetryAfter: &seconds,
	}
}

// Timeout wraps a transport timeout. cause may be nil.
func Timeout(cause error) *Error {
	return &Error{Message: "Request timed out", Code: CodeTimeout, Retryable: true, Err: cause}
}

// Network wraps a transport failure that is not a timeout.
func Network(message string, cause error) *Error {
	return &Error{Message: message, Code: CodeNetworkError, Retryable: true, Err: cause}
}

// RenderFailed reports a browser rendering failure. An empty message uses
// the default text.
func RenderFailed(message string) *Error {
	if message == "" {
		message = defaultRenderFailedMessage
	}
	return &Error{Message: message, HTTPStatus: 500, Code: CodeRenderFailed, Retryable: true}
}

func Internal(message string) *Error {
	return &Error{Message: message, HTTPStatus: 500, Code: CodeInternalError, Retryable: true}
}

// FromResponse classifies an arbitrary HTTP outcome. It is retryable if and
// only if status is 429 or at least 500.
func FromResponse(status int, message string, code Code, retryAfter *int) *Error {
	return &Error{
		Message:    message,
		HTTPStatus: status,
		Code:       code,
		Retryable:  status == 429 || status >= 500,
		RetryAfter: retryAfter,
	}
}

// IsRetryable reports whether err carries a retry hint. Errors that are not
// *Error are never retryable.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}
