package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	rs "github.com/renderscreenshot/client-go"
)

// captureFlags holds the capture options shared by take, sign-url and
// batch create.
type captureFlags struct {
	fs *pflag.FlagSet

	htmlFile        string
	width           int
	height          int
	scale           float64
	mobile          bool
	fullPage        bool
	element         string
	format          string
	quality         int
	waitFor         string
	delay           int
	waitForSelector string
	waitForTimeout  int
	preset          string
	device          string
	blockAds        bool
	blockTrackers   bool
	blockCookies    bool
	blockChat       bool
	blockURLs       []string
	blockResources  []string
	hide            []string
	remove          []string
	click           string
	injectScript    string
	injectStyle     string
	darkMode        bool
	reducedMotion   bool
	mediaType       string
	userAgent       string
	timezone        string
	locale          string
	geolocation     []float64
	headers         map[string]string
	authBearer      string
	bypassCSP       bool
	cacheTTL        int
	cacheRefresh    bool
	pdfPaperSize    string
	pdfLandscape    bool
	pdfMargin       string
	pdfBackground   bool
	pdfPageRanges   string
	pdfFitOnePage   bool
	storagePath     string
}

func newCaptureFlags() *captureFlags {
	f := &captureFlags{fs: pflag.NewFlagSet("capture", pflag.ContinueOnError)}
	fs := f.fs

	fs.StringVar(&f.htmlFile, "html-file", "", "Render the HTML in this file instead of a URL")

	fs.IntVar(&f.width, "width", 0, "Viewport width in pixels")
	fs.IntVar(&f.height, "height", 0, "Viewport height in pixels")
	fs.Float64Var(&f.scale, "scale", 0, "Device scale factor")
	fs.BoolVar(&f.mobile, "mobile", false, "Emulate a mobile device")

	fs.BoolVar(&f.fullPage, "full-page", false, "Capture the full scrollable page")
	fs.StringVar(&f.element, "element", "", "Capture only the element matching this CSS selector")
	fs.StringVar(&f.format, "format", "", "Output format: png, jpeg, webp or pdf")
	fs.IntVar(&f.quality, "quality", 0, "Image quality for jpeg and webp (1-100)")

	fs.StringVar(&f.waitFor, "wait-for", "", "Wait strategy: load, networkidle or domcontentloaded")
	fs.IntVar(&f.delay, "delay", 0, "Extra delay before capture in milliseconds")
	fs.StringVar(&f.waitForSelector, "wait-for-selector", "", "Wait until this selector appears")
	fs.IntVar(&f.waitForTimeout, "wait-for-timeout", 0, "Wait timeout in milliseconds")

	fs.StringVar(&f.preset, "preset", "", "Apply a named preset")
	fs.StringVar(&f.device, "device", "", "Emulate a named device")

	fs.BoolVar(&f.blockAds, "block-ads", false, "Block ads")
	fs.BoolVar(&f.blockTrackers, "block-trackers", false, "Block trackers")
	fs.BoolVar(&f.blockCookies, "block-cookie-banners", false, "Hide cookie banners")
	fs.BoolVar(&f.blockChat, "block-chat-widgets", false, "Hide chat widgets")
	fs.StringSliceVar(&f.blockURLs, "block-urls", nil, "URL patterns to block")
	fs.StringSliceVar(&f.blockResources, "block-resources", nil, "Resource types to block")

	fs.StringSliceVar(&f.hide, "hide", nil, "Selectors to hide")
	fs.StringSliceVar(&f.remove, "remove", nil, "Selectors to remove")
	fs.StringVar(&f.click, "click", "", "Click this selector before capture")
	fs.StringVar(&f.injectScript, "inject-script", "", "JavaScript to run before capture")
	fs.StringVar(&f.injectStyle, "inject-style", "", "CSS to inject before capture")

	fs.BoolVar(&f.darkMode, "dark-mode", false, "Emulate prefers-color-scheme: dark")
	fs.BoolVar(&f.reducedMotion, "reduced-motion", false, "Emulate prefers-reduced-motion")
	fs.StringVar(&f.mediaType, "media-type", "", "Emulated media type: screen or print")
	fs.StringVar(&f.userAgent, "user-agent", "", "Browser user agent")
	fs.StringVar(&f.timezone, "timezone", "", "IANA timezone")
	fs.StringVar(&f.locale, "locale", "", "Browser locale")
	fs.Float64SliceVar(&f.geolocation, "geolocation", nil, "latitude,longitude[,accuracy]")

	fs.StringToStringVar(&f.headers, "header", nil, "Extra request headers as name=value")
	fs.StringVar(&f.authBearer, "auth-bearer", "", "Bearer token for the target page")
	fs.BoolVar(&f.bypassCSP, "bypass-csp", false, "Bypass the page's Content-Security-Policy")

	fs.IntVar(&f.cacheTTL, "cache-ttl", 0, "Cache lifetime in seconds")
	fs.BoolVar(&f.cacheRefresh, "cache-refresh", false, "Bypass and refresh the cache")

	fs.StringVar(&f.pdfPaperSize, "pdf-paper-size", "", "PDF paper size, e.g. a4 or letter")
	fs.BoolVar(&f.pdfLandscape, "pdf-landscape", false, "Landscape PDF")
	fs.StringVar(&f.pdfMargin, "pdf-margin", "", "PDF margin on all sides, e.g. 1cm")
	fs.BoolVar(&f.pdfBackground, "pdf-print-background", false, "Print background graphics")
	fs.StringVar(&f.pdfPageRanges, "pdf-page-ranges", "", "PDF page ranges, e.g. 1-3")
	fs.BoolVar(&f.pdfFitOnePage, "pdf-fit-one-page", false, "Fit the PDF on one page")

	fs.StringVar(&f.storagePath, "storage-path", "", "Store the result at this path in your bucket")

	return f
}

// targetOptions builds options for a single capture target: the HTML file
// when --html-file is set, otherwise url.
func (f *captureFlags) targetOptions(url string) (rs.TakeOptions, error) {
	if f.htmlFile != "" {
		if url != "" {
			return rs.TakeOptions{}, fmt.Errorf("pass either a URL or --html-file, not both")
		}
		data, err := os.ReadFile(f.htmlFile)
		if err != nil {
			return rs.TakeOptions{}, fmt.Errorf("failed to read HTML: %w", err)
		}
		return f.apply(rs.HTML(string(data)))
	}
	if strings.TrimSpace(url) == "" {
		return rs.TakeOptions{}, fmt.Errorf("a URL or --html-file is required")
	}
	return f.apply(rs.URL(url))
}

// apply layers every flag the user set onto o. Unset flags leave o as is.
func (f *captureFlags) apply(o rs.TakeOptions) (rs.TakeOptions, error) {
	set := f.fs.Changed

	if set("width") {
		o = o.Width(f.width)
	}
	if set("height") {
		o = o.Height(f.height)
	}
	if set("scale") {
		o = o.Scale(f.scale)
	}
	if f.mobile {
		o = o.Mobile()
	}
	if f.fullPage {
		o = o.FullPage()
	}
	if f.element != "" {
		o = o.Element(f.element)
	}
	if f.format != "" {
		o = o.Format(f.format)
	}
	if set("quality") {
		o = o.Quality(f.quality)
	}
	if f.waitFor != "" {
		o = o.WaitFor(f.waitFor)
	}
	if set("delay") {
		o = o.Delay(f.delay)
	}
	if f.waitForSelector != "" {
		o = o.WaitForSelector(f.waitForSelector)
	}
	if set("wait-for-timeout") {
		o = o.WaitForTimeout(f.waitForTimeout)
	}
	if f.preset != "" {
		o = o.Preset(f.preset)
	}
	if f.device != "" {
		o = o.Device(f.device)
	}

	if f.blockAds {
		o = o.BlockAds()
	}
	if f.blockTrackers {
		o = o.BlockTrackers()
	}
	if f.blockCookies {
		o = o.BlockCookieBanners()
	}
	if f.blockChat {
		o = o.BlockChatWidgets()
	}
	if len(f.blockURLs) > 0 {
		o = o.BlockURLs(f.blockURLs)
	}
	if len(f.blockResources) > 0 {
		o = o.BlockResources(f.blockResources)
	}
	if len(f.hide) > 0 {
		o = o.Hide(f.hide)
	}
	if len(f.remove) > 0 {
		o = o.Remove(f.remove)
	}
	if f.click != "" {
		o = o.Click(f.click)
	}
	if f.injectScript != "" {
		o = o.InjectScript(f.injectScript)
	}
	if f.injectStyle != "" {
		o = o.InjectStyle(f.injectStyle)
	}

	if f.darkMode {
		o = o.DarkMode()
	}
	if f.reducedMotion {
		o = o.ReducedMotion()
	}
	if f.mediaType != "" {
		o = o.MediaType(f.mediaType)
	}
	if f.userAgent != "" {
		o = o.UserAgent(f.userAgent)
	}
	if f.timezone != "" {
		o = o.Timezone(f.timezone)
	}
	if f.locale != "" {
		o = o.Locale(f.locale)
	}
	switch len(f.geolocation) {
	case 0:
	case 2:
		o = o.Geolocation(f.geolocation[0], f.geolocation[1])
	case 3:
		o = o.GeolocationWithAccuracy(f.geolocation[0], f.geolocation[1], f.geolocation[2])
	default:
		return rs.TakeOptions{}, fmt.Errorf("--geolocation takes latitude,longitude[,accuracy], got %d values", len(f.geolocation))
	}

	if len(f.headers) > 0 {
		o = o.Headers(f.headers)
	}
	if f.authBearer != "" {
		o = o.AuthBearer(f.authBearer)
	}
	if f.bypassCSP {
		o = o.BypassCSP()
	}

	if set("cache-ttl") {
		o = o.CacheTTL(f.cacheTTL)
	}
	if f.cacheRefresh {
		o = o.CacheRefresh()
	}

	if f.pdfPaperSize != "" {
		o = o.PDFPaperSize(f.pdfPaperSize)
	}
	if f.pdfLandscape {
		o = o.PDFLandscape()
	}
	if f.pdfMargin != "" {
		o = o.PDFMargin(f.pdfMargin)
	}
	if f.pdfBackground {
		o = o.PDFPrintBackground()
	}
	if f.pdfPageRanges != "" {
		o = o.PDFPageRanges(f.pdfPageRanges)
	}
	if f.pdfFitOnePage {
		o = o.PDFFitOnePage()
	}

	if f.storagePath != "" {
		o = o.StorageEnabled().StoragePath(f.storagePath)
	}

	return o, nil
}
