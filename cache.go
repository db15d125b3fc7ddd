package renderscreenshot

import (
	"context"
	"time"

	"github.com/renderscreenshot/client-go/internal/api"
)

// CacheManager manages captures cached by the service. Obtain it from
// [Client.Cache].
type CacheManager struct {
	apiClient *api.Client
}

// Get returns the cached capture for key. A missing entry is not an error:
// it returns nil, nil.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	return m.apiClient.GetCached(ctx, key)
}

// Delete removes one entry and reports whether it existed.
func (m *CacheManager) Delete(ctx context.Context, key string) (bool, error) {
	return m.apiClient.DeleteCached(ctx, key)
}

// Purge removes the given keys.
func (m *CacheManager) Purge(ctx context.Context, keys []string) (*PurgeResponse, error) {
	if keys == nil {
		keys = []string{}
	}
	return m.apiClient.PurgeCache(ctx, map[string]any{"keys": keys})
}

// PurgeURL removes entries whose source URL matches pattern. Wildcards are
// allowed.
func (m *CacheManager) PurgeURL(ctx context.Context, pattern string) (*PurgeResponse, error) {
	return m.apiClient.PurgeCache(ctx, map[string]any{"url": pattern})
}

// PurgeBefore removes entries created before t.
func (m *CacheManager) PurgeBefore(ctx context.Context, t time.Time) (*PurgeResponse, error) {
	return m.apiClient.PurgeCache(ctx, map[string]any{"before": t.UTC().Format(time.RFC3339)})
}

// PurgePattern removes entries whose storage path matches a glob.
func (m *CacheManager) PurgePattern(ctx context.Context, glob string) (*PurgeResponse, error) {
	return m.apiClient.PurgeCache(ctx, map[string]any{"pattern": glob})
}
