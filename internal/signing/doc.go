// Package signing implements the keyed message authentication used by
// RenderScreenshot signed URLs and webhook notifications.
//
// # Algorithm
//
// Every signature is HMAC-SHA256 over a canonical string, rendered as
// lowercase hexadecimal (64 characters, two digits per byte). The canonical
// string depends on the caller:
//
//   - Signed URLs sign everything up to and including "&expires=<unix>".
//   - Webhooks sign "<timestamp>.<raw payload>".
//
// # Comparison
//
// [Equal] compares signatures in time that depends only on their lengths.
// Strings of different length are rejected immediately; hex-encoded MACs
// have a fixed length, so only malformed input takes that path.
package signing
