package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rs "github.com/renderscreenshot/client-go"
)

func TestCaptureFlags_Apply(t *testing.T) {
	f := newCaptureFlags()
	require.NoError(t, f.fs.Parse([]string{
		"--width", "1280",
		"--full-page",
		"--format", "jpeg",
		"--quality", "0",
		"--block-urls", "*.ads.com,*.tracker.io",
		"--geolocation", "37.7749,-122.4194",
		"--header", "X-Test=1",
		"--pdf-landscape",
		"--storage-path", "shots/{date}",
	}))

	opts, err := f.apply(rs.URL("https://example.com"))
	require.NoError(t, err)

	cfg := opts.ToConfig()
	assert.Equal(t, "https://example.com", cfg["url"])
	assert.Equal(t, 1280, cfg["width"])
	assert.Equal(t, true, cfg["full_page"])
	assert.Equal(t, "jpeg", cfg["format"])
	assert.Equal(t, 0, cfg["quality"], "explicitly set zero values are kept")
	assert.Equal(t, []string{"*.ads.com", "*.tracker.io"}, cfg["block_urls"])
	assert.Equal(t, map[string]float64{"latitude": 37.7749, "longitude": -122.4194}, cfg["geolocation"])
	assert.Equal(t, map[string]string{"X-Test": "1"}, cfg["headers"])
	assert.Equal(t, true, cfg["pdf_landscape"])
	assert.Equal(t, true, cfg["storage_enabled"])
	assert.Equal(t, "shots/{date}", cfg["storage_path"])

	for _, unset := range []string{"height", "scale", "mobile", "delay", "cache_ttl", "dark_mode"} {
		assert.NotContains(t, cfg, unset)
	}
}

func TestCaptureFlags_Geolocation(t *testing.T) {
	f := newCaptureFlags()
	require.NoError(t, f.fs.Parse([]string{"--geolocation", "1,2,3"}))
	opts, err := f.apply(rs.TakeOptions{})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"latitude": 1, "longitude": 2, "accuracy": 3}, opts.ToConfig()["geolocation"])

	f = newCaptureFlags()
	require.NoError(t, f.fs.Parse([]string{"--geolocation", "1"}))
	_, err = f.apply(rs.TakeOptions{})
	assert.ErrorContains(t, err, "--geolocation")
}

func TestCaptureFlags_TargetOptions(t *testing.T) {
	htmlPath := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte("<h1>Hi</h1>"), 0o600))

	t.Run("url", func(t *testing.T) {
		opts, err := newCaptureFlags().targetOptions("https://example.com")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", opts.ToConfig()["url"])
	})

	t.Run("html file", func(t *testing.T) {
		f := newCaptureFlags()
		require.NoError(t, f.fs.Parse([]string{"--html-file", htmlPath}))
		opts, err := f.targetOptions("")
		require.NoError(t, err)
		assert.Equal(t, "<h1>Hi</h1>", opts.ToConfig()["html"])
	})

	t.Run("both", func(t *testing.T) {
		f := newCaptureFlags()
		require.NoError(t, f.fs.Parse([]string{"--html-file", htmlPath}))
		_, err := f.targetOptions("https://example.com")
		assert.Error(t, err)
	})

	t.Run("neither", func(t *testing.T) {
		_, err := newCaptureFlags().targetOptions("")
		assert.Error(t, err)
	})
}
