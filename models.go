package renderscreenshot

import "github.com/renderscreenshot/client-go/internal/api"

// ScreenshotResponse is the metadata returned by TakeJSON.
type ScreenshotResponse = api.ScreenshotResponse

// BatchResponse is the state of a batch job. IsComplete reports whether it
// has finished, successfully or not.
type BatchResponse = api.BatchResponse

// BatchResult is the outcome for one URL of a batch.
type BatchResult = api.BatchResult

// Preset is a named, server-side option bundle.
type Preset = api.Preset

// Device is an emulation profile usable with [TakeOptions.Device].
type Device = api.Device

// PurgeResponse reports how many cache entries a purge removed.
type PurgeResponse = api.PurgeResponse

// Batch job states.
const (
	BatchStatusPending    = api.BatchStatusPending
	BatchStatusProcessing = api.BatchStatusProcessing
	BatchStatusCompleted  = api.BatchStatusCompleted
	BatchStatusFailed     = api.BatchStatusFailed
)
