// Package api provides the HTTP transport for the RenderScreenshot API. It
// handles authentication, JSON request encoding, error-response
// classification and optional client-side throttling.
//
// # Client Creation
//
// The package provides two ways to create a client:
//
//   - [NewClient]: Struct-based configuration for explicit, type-safe setup.
//   - [New]: Functional options pattern for flexible configuration.
//
// Both require an API key, which is sent as a bearer token on every request
// together with a fresh X-Request-Id.
//
// # Error Handling
//
// Every failure is an [apierrors.Error]. Non-2xx responses are classified by
// status. The body's message, error and code fields are used when the body
// is a JSON object, otherwise the raw body text becomes the message.
// Transport timeouts map to a timeout error and other transport failures to
// a network error. Both are marked retryable.
//
// The transport never retries on its own. Callers decide, using the
// Retryable flag and the RetryAfter hint.
//
// # Logging
//
// When a logger is configured, each round trip is logged at debug level
// (warn for 4xx/5xx and transport failures) with credential-like query
// parameters redacted.
package api
