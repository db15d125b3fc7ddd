package renderscreenshot

import "context"

// BatchRequest is one entry of an advanced batch. Options may be the zero
// value.
type BatchRequest struct {
	URL     string
	Options TakeOptions
}

// Batch captures every URL with the same options. Pass the zero TakeOptions
// for service defaults.
func (c *Client) Batch(ctx context.Context, urls []string, opts TakeOptions) (*BatchResponse, error) {
	params := opts.ToParams()
	if len(params) == 0 {
		params = nil
	}
	return c.apiClient.CreateBatch(ctx, urls, params)
}

// BatchAdvanced captures URLs with per-URL options. Each request body starts
// from the URL and is then overlaid with the request's options.
func (c *Client) BatchAdvanced(ctx context.Context, requests []BatchRequest) (*BatchResponse, error) {
	bodies := make([]map[string]any, 0, len(requests))
	for _, r := range requests {
		body := map[string]any{"url": r.URL}
		for k, v := range r.Options.ToParams() {
			body[k] = v
		}
		bodies = append(bodies, body)
	}
	return c.apiClient.CreateAdvancedBatch(ctx, bodies)
}

// GetBatch fetches the current state of a batch job.
func (c *Client) GetBatch(ctx context.Context, id string) (*BatchResponse, error) {
	return c.apiClient.GetBatch(ctx, id)
}
