package renderscreenshot

import (
	"encoding/json"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Output formats accepted by [TakeOptions.Format].
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatWebP = "webp"
	FormatPDF  = "pdf"
)

// Request body groups.
const (
	groupViewport = "viewport"
	groupPDF      = "pdf"
	groupStorage  = "storage"

	prefixPDF     = "pdf_"
	prefixStorage = "storage_"
)

var viewportKeys = map[string]bool{
	"width":  true,
	"height": true,
	"scale":  true,
	"mobile": true,
}

// Cookie is a cookie set in the browser before the page loads.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain,omitempty"`
	Path     string `json:"path,omitempty"`
	Expires  int64  `json:"expires,omitempty"`
	HTTPOnly bool   `json:"http_only,omitempty"`
	Secure   bool   `json:"secure,omitempty"`
	SameSite string `json:"same_site,omitempty"`
}

// TakeOptions describes a single capture. It is immutable: every setter
// returns a new value and leaves the receiver untouched, so one TakeOptions
// may be shared and branched from freely.
//
// Exactly one of url or html is expected to be set. This is not validated.
type TakeOptions struct {
	config map[string]any
}

// URL starts a capture of the page at u.
func URL(u string) TakeOptions {
	return TakeOptions{}.with("url", u)
}

// HTML starts a capture of an inline HTML document.
func HTML(html string) TakeOptions {
	return TakeOptions{}.with("html", html)
}

// with returns a copy of o with key set to value. Values are limited to the
// shapes the setters below produce.
func (o TakeOptions) with(key string, value any) TakeOptions {
	next := make(map[string]any, len(o.config)+1)
	maps.Copy(next, o.config)
	next[key] = value
	return TakeOptions{config: next}
}

// Viewport

func (o TakeOptions) Width(px int) TakeOptions { return o.with("width", px) }
func (o TakeOptions) Height(px int) TakeOptions { return o.with("height", px) }
func (o TakeOptions) Scale(f float64) TakeOptions { return o.with("scale", f) }
func (o TakeOptions) Mobile() TakeOptions { return o.with("mobile", true) }

// Capture

func (o TakeOptions) FullPage() TakeOptions { return o.with("full_page", true) }
func (o TakeOptions) Element(selector string) TakeOptions { return o.with("element", selector) }
func (o TakeOptions) Format(format string) TakeOptions { return o.with("format", format) }

// Quality sets the JPEG/WebP quality, 1 to 100.
func (o TakeOptions) Quality(q int) TakeOptions { return o.with("quality", q) }

// Wait

// WaitFor sets the load strategy, such as "load" or "networkidle".
func (o TakeOptions) WaitFor(strategy string) TakeOptions { return o.with("wait_for", strategy) }
func (o TakeOptions) Delay(ms int) TakeOptions { return o.with("delay", ms) }
func (o TakeOptions) WaitForSelector(selector string) TakeOptions { return o.with("wait_for_selector", selector) }
func (o TakeOptions) WaitForTimeout(ms int) TakeOptions { return o.with("wait_for_timeout", ms) }

// Presets

func (o TakeOptions) Preset(id string) TakeOptions { return o.with("preset", id) }
func (o TakeOptions) Device(id string) TakeOptions { return o.with("device", id) }

// Blocking

func (o TakeOptions) BlockAds() TakeOptions { return o.with("block_ads", true) }
func (o TakeOptions) BlockTrackers() TakeOptions { return o.with("block_trackers", true) }
func (o TakeOptions) BlockCookieBanners() TakeOptions { return o.with("block_cookie_banners", true) }
func (o TakeOptions) BlockChatWidgets() TakeOptions { return o.with("block_chat_widgets", true) }

// BlockURLs blocks requests matching any of the given URL patterns.
func (o TakeOptions) BlockURLs(patterns []string) TakeOptions {
	return o.with("block_urls", slices.Clone(patterns))
}

// BlockResources blocks resource types such as "font" or "media".
func (o TakeOptions) BlockResources(types []string) TakeOptions {
	return o.with("block_resources", slices.Clone(types))
}

// Page manipulation

func (o TakeOptions) InjectScript(script string) TakeOptions { return o.with("inject_script", script) }
func (o TakeOptions) InjectStyle(css string) TakeOptions { return o.with("inject_style", css) }
func (o TakeOptions) Click(selector string) TakeOptions { return o.with("click", selector) }

func (o TakeOptions) Hide(selectors []string) TakeOptions {
	return o.with("hide", slices.Clone(selectors))
}

func (o TakeOptions) Remove(selectors []string) TakeOptions {
	return o.with("remove", slices.Clone(selectors))
}

// Browser emulation

func (o TakeOptions) DarkMode() TakeOptions { return o.with("dark_mode", true) }
func (o TakeOptions) ReducedMotion() TakeOptions { return o.with("reduced_motion", true) }
func (o TakeOptions) MediaType(media string) TakeOptions { return o.with("media_type", media) }
func (o TakeOptions) UserAgent(ua string) TakeOptions { return o.with("user_agent", ua) }
func (o TakeOptions) Timezone(tz string) TakeOptions { return o.with("timezone", tz) }
func (o TakeOptions) Locale(locale string) TakeOptions { return o.with("locale", locale) }

// Geolocation overrides the browser position.
func (o TakeOptions) Geolocation(latitude, longitude float64) TakeOptions {
	return o.with("geolocation", map[string]float64{
		"latitude":  latitude,
		"longitude": longitude,
	})
}

// GeolocationWithAccuracy is Geolocation with an accuracy radius in meters.
func (o TakeOptions) GeolocationWithAccuracy(latitude, longitude, accuracy float64) TakeOptions {
	return o.with("geolocation", map[string]float64{
		"latitude":  latitude,
		"longitude": longitude,
		"accuracy":  accuracy,
	})
}

// Network

// Headers sets extra request headers sent by the browser.
func (o TakeOptions) Headers(headers map[string]string) TakeOptions {
	return o.with("headers", maps.Clone(headers))
}

func (o TakeOptions) Cookies(cookies []Cookie) TakeOptions {
	return o.with("cookies", slices.Clone(cookies))
}

func (o TakeOptions) AuthBasic(username, password string) TakeOptions {
	return o.with("auth_basic", map[string]string{
		"username": username,
		"password": password,
	})
}

func (o TakeOptions) AuthBearer(token string) TakeOptions { return o.with("auth_bearer", token) }
func (o TakeOptions) BypassCSP() TakeOptions { return o.with("bypass_csp", true) }

// Cache

func (o TakeOptions) CacheTTL(seconds int) TakeOptions { return o.with("cache_ttl", seconds) }
func (o TakeOptions) CacheRefresh() TakeOptions { return o.with("cache_refresh", true) }

// PDF

func (o TakeOptions) PDFPaperSize(size string) TakeOptions { return o.with("pdf_paper_size", size) }
func (o TakeOptions) PDFWidth(width string) TakeOptions { return o.with("pdf_width", width) }
func (o TakeOptions) PDFHeight(height string) TakeOptions { return o.with("pdf_height", height) }
func (o TakeOptions) PDFLandscape() TakeOptions { return o.with("pdf_landscape", true) }
func (o TakeOptions) PDFMargin(margin string) TakeOptions { return o.with("pdf_margin", margin) }
func (o TakeOptions) PDFMarginTop(margin string) TakeOptions { return o.with("pdf_margin_top", margin) }
func (o TakeOptions) PDFMarginRight(margin string) TakeOptions { return o.with("pdf_margin_right", margin) }
func (o TakeOptions) PDFMarginBottom(margin string) TakeOptions { return o.with("pdf_margin_bottom", margin) }
func (o TakeOptions) PDFMarginLeft(margin string) TakeOptions { return o.with("pdf_margin_left", margin) }
func (o TakeOptions) PDFScale(scale float64) TakeOptions { return o.with("pdf_scale", scale) }
func (o TakeOptions) PDFPrintBackground() TakeOptions { return o.with("pdf_print_background", true) }

// PDFPageRanges limits output to pages such as "1-3, 5".
func (o TakeOptions) PDFPageRanges(ranges string) TakeOptions { return o.with("pdf_page_ranges", ranges) }
func (o TakeOptions) PDFHeader(html string) TakeOptions { return o.with("pdf_header", html) }
func (o TakeOptions) PDFFooter(html string) TakeOptions { return o.with("pdf_footer", html) }
func (o TakeOptions) PDFFitOnePage() TakeOptions { return o.with("pdf_fit_one_page", true) }
func (o TakeOptions) PDFPreferCSSPageSize() TakeOptions { return o.with("pdf_prefer_css_page_size", true) }

// Storage

func (o TakeOptions) StorageEnabled() TakeOptions { return o.with("storage_enabled", true) }
func (o TakeOptions) StoragePath(path string) TakeOptions { return o.with("storage_path", path) }
func (o TakeOptions) StorageACL(acl string) TakeOptions { return o.with("storage_acl", acl) }

// ResponseType selects "binary" (the default) or "json".
func (o TakeOptions) ResponseType(kind string) TakeOptions { return o.with("response_type", kind) }

// ToConfig returns an independent copy of the flat configuration.
func (o TakeOptions) ToConfig() map[string]any {
	out := make(map[string]any, len(o.config))
	for k, v := range o.config {
		out[k] = cloneValue(v)
	}
	return out
}

// ToParams returns the request body: viewport keys are nested under
// "viewport", pdf_* keys under "pdf" and storage_* keys under "storage"
// with their prefixes stripped. Groups appear only when non-empty.
func (o TakeOptions) ToParams() map[string]any {
	params := make(map[string]any, len(o.config))
	viewport := map[string]any{}
	pdf := map[string]any{}
	storage := map[string]any{}

	for key, value := range o.config {
		value = cloneValue(value)
		switch {
		case viewportKeys[key]:
			viewport[key] = value
		case strings.HasPrefix(key, prefixPDF):
			pdf[strings.TrimPrefix(key, prefixPDF)] = value
		case strings.HasPrefix(key, prefixStorage):
			storage[strings.TrimPrefix(key, prefixStorage)] = value
		default:
			params[key] = value
		}
	}

	if len(viewport) > 0 {
		params[groupViewport] = viewport
	}
	if len(pdf) > 0 {
		params[groupPDF] = pdf
	}
	if len(storage) > 0 {
		params[groupStorage] = storage
	}
	return params
}

// ToQueryString returns the flat, form-encoded view used by signed URLs.
// Keys are emitted in sorted order and nothing is nested: maps become
// outer_inner=v, lists become repeated outer[]=v and false booleans are
// omitted.
func (o TakeOptions) ToQueryString() string {
	var pairs []string
	add := func(key, value string) {
		pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}

	for _, key := range slices.Sorted(maps.Keys(o.config)) {
		switch v := o.config[key].(type) {
		case bool:
			if v {
				add(key, "true")
			}
		case []string:
			for _, item := range v {
				add(key+"[]", item)
			}
		case []Cookie:
			for _, c := range v {
				data, _ := json.Marshal(c)
				add(key+"[]", string(data))
			}
		case map[string]string:
			for _, inner := range slices.Sorted(maps.Keys(v)) {
				add(key+"_"+inner, v[inner])
			}
		case map[string]float64:
			for _, inner := range slices.Sorted(maps.Keys(v)) {
				add(key+"_"+inner, formatFloat(v[inner]))
			}
		default:
			add(key, formatScalar(v))
		}
	}
	return strings.Join(pairs, "&")
}

func formatScalar(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return formatFloat(v)
	}
	return ""
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case []string:
		return slices.Clone(v)
	case []Cookie:
		return slices.Clone(v)
	case map[string]string:
		return maps.Clone(v)
	case map[string]float64:
		return maps.Clone(v)
	}
	return v
}
