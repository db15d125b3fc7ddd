// Package renderscreenshot provides a Go client for the RenderScreenshot API,
// a hosted service that renders web pages and HTML to images and PDFs.
//
// Basic usage:
//
//	client, err := renderscreenshot.New("rs_live_xxx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	opts := renderscreenshot.URL("https://example.com").
//	    Width(1200).
//	    Height(630).
//	    Format(renderscreenshot.FormatPNG)
//
//	png, err := client.Take(ctx, opts)
//
// TakeOptions values are immutable. Every setter returns a new value, so a
// base configuration can be shared and specialised without copying.
//
// # Signed URLs
//
// [SignURL] and [Client.GenerateURL] build capture URLs that can be embedded
// in pages without exposing the API key. They expire at a chosen instant.
//
// # Webhooks
//
// [VerifyWebhook] checks the HMAC signature and timestamp of an incoming
// notification and [ParseWebhook] decodes it:
//
//	sig, ts := renderscreenshot.ExtractWebhookHTTPHeaders(r.Header)
//	if !renderscreenshot.VerifyWebhook(body, sig, ts, secret) {
//	    http.Error(w, "invalid signature", http.StatusUnauthorized)
//	    return
//	}
//	event, err := renderscreenshot.ParseWebhook(body)
//
// # Batches
//
// [Client.Batch] submits many captures at once. [Client.WaitForBatch] polls
// the job with adaptive backoff until it completes.
//
// # Errors
//
// Every failure is an [*Error] carrying the HTTP status (0 for transport
// failures), a machine-readable [Code] and a retry hint. The client never
// retries on its own; see [RetryPolicy].
//
//	var rsErr *renderscreenshot.Error
//	if errors.As(err, &rsErr) && rsErr.Retryable {
//	    // back off and try again
//	}
package renderscreenshot
