package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/renderscreenshot/client-go/internal/apierrors"
)

const (
	pathScreenshot = "/v1/screenshot"
	pathBatch      = "/v1/batch"
	pathPresets    = "/v1/presets"
	pathDevices    = "/v1/devices"
	pathCache      = "/v1/cache"
)

// TakeScreenshot posts a capture request and returns the encoded image or
// document.
func (c *Client) TakeScreenshot(ctx context.Context, params map[string]any) ([]byte, error) {
	return c.DoBinary(ctx, http.MethodPost, pathScreenshot, params)
}

// TakeScreenshotJSON posts a capture request that asks for JSON metadata
// instead of the binary.
func (c *Client) TakeScreenshotJSON(ctx context.Context, params map[string]any) (*ScreenshotResponse, error) {
	body := make(map[string]any, len(params)+1)
	for k, v := range params {
		body[k] = v
	}
	body["response_type"] = "json"

	var result ScreenshotResponse
	if err := c.Do(ctx, http.MethodPost, pathScreenshot, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateBatch submits the same options for many URLs. options may be nil.
func (c *Client) CreateBatch(ctx context.Context, urls []string, options map[string]any) (*BatchResponse, error) {
	if urls == nil {
		urls = []string{}
	}
	var result BatchResponse
	if err := c.Do(ctx, http.MethodPost, pathBatch, batchRequest{URLs: urls, Options: options}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateAdvancedBatch submits per-URL request bodies.
func (c *Client) CreateAdvancedBatch(ctx context.Context, requests []map[string]any) (*BatchResponse, error) {
	if requests == nil {
		requests = []map[string]any{}
	}
	var result BatchResponse
	if err := c.Do(ctx, http.MethodPost, pathBatch, advancedBatchRequest{Requests: requests}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBatch fetches the status of a batch job.
func (c *Client) GetBatch(ctx context.Context, id string) (*BatchResponse, error) {
	var result BatchResponse
	if err := c.Do(ctx, http.MethodGet, pathBatch+"/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPresets returns every preset visible to the API key.
func (c *Client) ListPresets(ctx context.Context) ([]Preset, error) {
	var result []Preset
	if err := c.Do(ctx, http.MethodGet, pathPresets, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetPreset returns a single preset.
func (c *Client) GetPreset(ctx context.Context, id string) (*Preset, error) {
	var result Preset
	if err := c.Do(ctx, http.MethodGet, pathPresets+"/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListDevices returns every device emulation profile.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	var result []Device
	if err := c.Do(ctx, http.MethodGet, pathDevices, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetCached returns the cached capture for key, or nil if there is none.
func (c *Client) GetCached(ctx context.Context, key string) ([]byte, error) {
	data, err := c.DoBinary(ctx, http.MethodGet, pathCache+"/"+url.PathEscape(key), nil)
	if errors.Is(err, apierrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// DeleteCached removes a cache entry. It reports false if the key was not
// present.
func (c *Client) DeleteCached(ctx context.Context, key string) (bool, error) {
	err := c.Do(ctx, http.MethodDelete, pathCache+"/"+url.PathEscape(key), nil, nil)
	if errors.Is(err, apierrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PurgeCache removes entries selected by body. Exactly one of keys, url,
// before or pattern is expected.
func (c *Client) PurgeCache(ctx context.Context, body map[string]any) (*PurgeResponse, error) {
	var result PurgeResponse
	if err := c.Do(ctx, http.MethodPost, pathCache+"/purge", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
