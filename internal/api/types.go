package api

// ScreenshotResponse is the JSON form of a capture.
type ScreenshotResponse struct {
	URL         string `json:"url"`
	CacheURL    string `json:"cache_url,omitempty"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      string `json:"format"`
	Size        int64  `json:"size"`
	CacheKey    string `json:"cache_key,omitempty"`
	StoragePath string `json:"storage_path,omitempty"`
	TTL         int    `json:"ttl,omitempty"`
	Cached      bool   `json:"cached"`
}

// Batch job states reported by the service.
const (
	BatchStatusPending    = "pending"
	BatchStatusProcessing = "processing"
	BatchStatusCompleted  = "completed"
	BatchStatusFailed     = "failed"
)

// BatchResponse describes a batch job and whatever results are ready.
type BatchResponse struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	Total     int           `json:"total"`
	Completed int           `json:"completed"`
	Failed    int           `json:"failed"`
	Results   []BatchResult `json:"results,omitempty"`
}

// IsComplete reports whether the job has reached a terminal state.
func (b *BatchResponse) IsComplete() bool {
	return b.Status == BatchStatusCompleted || b.Status == BatchStatusFailed
}

// BatchResult is the outcome for one URL of a batch.
type BatchResult struct {
	URL      string              `json:"url"`
	Success  bool                `json:"success"`
	Response *ScreenshotResponse `json:"response,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// Preset is a named, server-side option bundle. Optional fields are nil
// when the preset leaves them to the account defaults.
type Preset struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Width         int      `json:"width,omitempty"`
	Height        int      `json:"height,omitempty"`
	Scale         *float64 `json:"scale,omitempty"`
	Format        string   `json:"format,omitempty"`
	Quality       *int     `json:"quality,omitempty"`
	FullPage      *bool    `json:"full_page,omitempty"`
	BlockAds      *bool    `json:"block_ads,omitempty"`
	BlockTrackers *bool    `json:"block_trackers,omitempty"`
}

// Device is an emulation profile usable with the device option.
type Device struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Scale     float64 `json:"scale"`
	Mobile    bool    `json:"mobile"`
	UserAgent string  `json:"user_agent,omitempty"`
}

// PurgeResponse reports the outcome of a cache purge.
type PurgeResponse struct {
	Purged int      `json:"purged"`
	Keys   []string `json:"keys,omitempty"`
}

type batchRequest struct {
	URLs    []string       `json:"urls"`
	Options map[string]any `json:"options,omitempty"`
}

type advancedBatchRequest struct {
	Requests []map[string]any `json:"requests"`
}
