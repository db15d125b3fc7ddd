package renderscreenshot

import (
	"encoding/json"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestTakeOptions_Constructors(t *testing.T) {
	if got := URL("https://example.com").ToConfig(); !reflect.DeepEqual(got, map[string]any{"url": "https://example.com"}) {
		t.Errorf("URL().ToConfig() = %v", got)
	}
	if got := HTML("<h1>hi</h1>").ToConfig(); !reflect.DeepEqual(got, map[string]any{"html": "<h1>hi</h1>"}) {
		t.Errorf("HTML().ToConfig() = %v", got)
	}
	if got := (TakeOptions{}).ToConfig(); len(got) != 0 {
		t.Errorf("zero TakeOptions config = %v, want empty", got)
	}
}

func TestTakeOptions_Immutable(t *testing.T) {
	base := URL("https://example.com")
	wide := base.Width(1200)
	tall := base.Height(2000)

	if _, ok := base.ToConfig()["width"]; ok {
		t.Error("Width() modified the receiver")
	}
	if _, ok := wide.ToConfig()["height"]; ok {
		t.Error("sibling builders share state")
	}
	if tall.ToConfig()["height"] != 2000 {
		t.Errorf("tall height = %v", tall.ToConfig()["height"])
	}
}

func TestTakeOptions_SnapshotsAreIndependent(t *testing.T) {
	urls := []string{"https://a.com"}
	headers := map[string]string{"X-Test": "1"}
	opts := URL("https://example.com").BlockURLs(urls).Headers(headers)

	urls[0] = "mutated"
	headers["X-Test"] = "mutated"

	cfg := opts.ToConfig()
	if got := cfg["block_urls"].([]string)[0]; got != "https://a.com" {
		t.Errorf("block_urls aliased the caller's slice: %q", got)
	}
	if got := cfg["headers"].(map[string]string)["X-Test"]; got != "1" {
		t.Errorf("headers aliased the caller's map: %q", got)
	}

	cfg["block_urls"].([]string)[0] = "changed via snapshot"
	cfg["url"] = "changed"
	again := opts.ToConfig()
	if again["url"] != "https://example.com" || again["block_urls"].([]string)[0] != "https://a.com" {
		t.Errorf("ToConfig() snapshot was not independent: %v", again)
	}

	params := opts.ToParams()
	params["headers"].(map[string]string)["X-Test"] = "changed via params"
	if got := opts.ToConfig()["headers"].(map[string]string)["X-Test"]; got != "1" {
		t.Errorf("ToParams() aliased internal state: %q", got)
	}
}

func TestTakeOptions_ConcurrentBranching(t *testing.T) {
	base := URL("https://example.com").Format(FormatPNG)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			derived := base.Width(i).Quality(i)
			if derived.ToConfig()["width"] != i {
				t.Errorf("derived width = %v, want %d", derived.ToConfig()["width"], i)
			}
		}(i)
	}
	wg.Wait()

	if len(base.ToConfig()) != 2 {
		t.Errorf("base config changed: %v", base.ToConfig())
	}
}

func TestTakeOptions_SetterKeys(t *testing.T) {
	opts := URL("u").
		FullPage().Element("#main").Format(FormatJPEG).Quality(80).
		WaitFor("networkidle").Delay(500).WaitForSelector(".ready").WaitForTimeout(10000).
		Preset("og_card").Device("iphone_14").
		BlockAds().BlockTrackers().BlockCookieBanners().BlockChatWidgets().
		BlockResources([]string{"font"}).
		InjectScript("x()").InjectStyle("body{}").Click(".accept").
		Hide([]string{".ad"}).Remove([]string{".popup"}).
		DarkMode().ReducedMotion().MediaType("print").UserAgent("bot").
		Timezone("Europe/Paris").Locale("fr-FR").
		AuthBearer("tok").BypassCSP().CacheTTL(3600).CacheRefresh().
		ResponseType("json")

	want := []string{
		"url", "full_page", "element", "format", "quality",
		"wait_for", "delay", "wait_for_selector", "wait_for_timeout",
		"preset", "device",
		"block_ads", "block_trackers", "block_cookie_banners", "block_chat_widgets",
		"block_resources", "inject_script", "inject_style", "click", "hide", "remove",
		"dark_mode", "reduced_motion", "media_type", "user_agent", "timezone", "locale",
		"auth_bearer", "bypass_csp", "cache_ttl", "cache_refresh", "response_type",
	}
	cfg := opts.ToConfig()
	for _, key := range want {
		if _, ok := cfg[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if len(cfg) != len(want) {
		t.Errorf("config has %d keys, want %d", len(cfg), len(want))
	}
}

func TestTakeOptions_ToParams_Viewport(t *testing.T) {
	params := URL("https://example.com").Width(1200).Height(630).Scale(2).Mobile().Format("png").ToParams()

	want := map[string]any{
		"url":    "https://example.com",
		"format": "png",
		"viewport": map[string]any{
			"width":  1200,
			"height": 630,
			"scale":  2.0,
			"mobile": true,
		},
	}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("ToParams() = %v, want %v", params, want)
	}
}

func TestTakeOptions_ToParams_EmptyGroupsOmitted(t *testing.T) {
	params := URL("https://example.com").FullPage().ToParams()
	for _, group := range []string{"viewport", "pdf", "storage"} {
		if _, ok := params[group]; ok {
			t.Errorf("empty group %q should be omitted", group)
		}
	}
}

func TestTakeOptions_ToParams_PrefixGroups(t *testing.T) {
	params := URL("https://example.com").
		PDFPaperSize("a4").PDFLandscape().PDFMarginTop("1cm").PDFScale(0.8).
		PDFPrintBackground().PDFPageRanges("1-3").PDFHeader("<b>h</b>").PDFFooter("f").
		PDFFitOnePage().PDFPreferCSSPageSize().PDFWidth("8in").PDFHeight("11in").
		PDFMargin("2cm").PDFMarginRight("1").PDFMarginBottom("2").PDFMarginLeft("3").
		StorageEnabled().StoragePath("shots/{date}.png").StorageACL("public-read").
		ToParams()

	pdf, ok := params["pdf"].(map[string]any)
	if !ok {
		t.Fatalf("pdf group = %T", params["pdf"])
	}
	wantPDF := map[string]any{
		"paper_size": "a4", "landscape": true, "margin_top": "1cm", "scale": 0.8,
		"print_background": true, "page_ranges": "1-3", "header": "<b>h</b>", "footer": "f",
		"fit_one_page": true, "prefer_css_page_size": true, "width": "8in", "height": "11in",
		"margin": "2cm", "margin_right": "1", "margin_bottom": "2", "margin_left": "3",
	}
	if !reflect.DeepEqual(pdf, wantPDF) {
		t.Errorf("pdf = %v, want %v", pdf, wantPDF)
	}

	wantStorage := map[string]any{"enabled": true, "path": "shots/{date}.png", "acl": "public-read"}
	if !reflect.DeepEqual(params["storage"], wantStorage) {
		t.Errorf("storage = %v, want %v", params["storage"], wantStorage)
	}

	if _, ok := params["viewport"]; ok {
		t.Error("pdf width/height must not be treated as viewport keys")
	}
	for key := range params {
		if strings.HasPrefix(key, "pdf_") || strings.HasPrefix(key, "storage_") {
			t.Errorf("prefixed key %q left at top level", key)
		}
	}
}

func TestTakeOptions_ToParams_MarshalsToNestedJSON(t *testing.T) {
	data, err := json.Marshal(URL("https://example.com").PDFPaperSize("a4").ToParams())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"pdf":{"paper_size":"a4"},"url":"https://example.com"}` {
		t.Errorf("json = %s", data)
	}
}

func TestTakeOptions_ToQueryString_Flat(t *testing.T) {
	qs := URL("https://example.com").Width(1200).Height(630).Format("png").ToQueryString()

	for _, want := range []string{"url=https%3A%2F%2Fexample.com", "width=1200", "height=630", "format=png"} {
		if !containsPair(qs, want) {
			t.Errorf("ToQueryString() = %q, missing %q", qs, want)
		}
	}
	if strings.Contains(qs, "viewport") {
		t.Errorf("query string must not nest viewport: %q", qs)
	}
}

func TestTakeOptions_ToQueryString_Lists(t *testing.T) {
	qs := URL("u").BlockURLs([]string{"https://a.com", "https://b.com"}).ToQueryString()

	want := "block_urls%5B%5D=https%3A%2F%2Fa.com&block_urls%5B%5D=https%3A%2F%2Fb.com&url=u"
	if qs != want {
		t.Errorf("ToQueryString() = %q, want %q", qs, want)
	}
	if n := strings.Count(qs, "block_urls%5B%5D="); n != 2 {
		t.Errorf("block_urls pairs = %d, want 2", n)
	}
}

func TestTakeOptions_ToQueryString_Booleans(t *testing.T) {
	qs := URL("u").FullPage().with("dark_mode", false).ToQueryString()

	if !containsPair(qs, "full_page=true") {
		t.Errorf("ToQueryString() = %q, missing full_page=true", qs)
	}
	if strings.Contains(qs, "dark_mode") || strings.Contains(qs, "false") {
		t.Errorf("false flags must be omitted: %q", qs)
	}
}

func TestTakeOptions_ToQueryString_NestedMaps(t *testing.T) {
	qs := URL("u").
		GeolocationWithAccuracy(37.7749, -122.4194, 100).
		AuthBasic("user", "p@ss word").
		ToQueryString()

	for _, want := range []string{
		"geolocation_latitude=37.7749",
		"geolocation_longitude=-122.4194",
		"geolocation_accuracy=100",
		"auth_basic_username=user",
		"auth_basic_password=p%40ss+word",
	} {
		if !containsPair(qs, want) {
			t.Errorf("ToQueryString() = %q, missing %q", qs, want)
		}
	}
}

func TestTakeOptions_ToQueryString_Cookies(t *testing.T) {
	qs := URL("u").Cookies([]Cookie{{Name: "session", Value: "abc"}}).ToQueryString()

	values, err := url.ParseQuery(qs)
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}
	got := values["cookies[]"]
	if len(got) != 1 || got[0] != `{"name":"session","value":"abc"}` {
		t.Errorf("cookies[] = %v", got)
	}
}

func TestTakeOptions_ToQueryString_OrderIndependent(t *testing.T) {
	a := URL("u").Width(100).Format("png").BlockAds().Delay(5)
	b := URL("u").Delay(5).BlockAds().Format("png").Width(100)

	if a.ToQueryString() != b.ToQueryString() {
		t.Errorf("query strings differ:\n%s\n%s", a.ToQueryString(), b.ToQueryString())
	}
	if !reflect.DeepEqual(a.ToParams(), b.ToParams()) {
		t.Error("request bodies differ")
	}
}

func TestTakeOptions_ToQueryString_Numbers(t *testing.T) {
	qs := URL("u").Scale(2).PDFScale(0.75).Quality(90).ToQueryString()
	for _, want := range []string{"scale=2", "pdf_scale=0.75", "quality=90"} {
		if !containsPair(qs, want) {
			t.Errorf("ToQueryString() = %q, missing %q", qs, want)
		}
	}
}

func containsPair(qs, pair string) bool {
	for _, p := range strings.Split(qs, "&") {
		if p == pair {
			return true
		}
	}
	return false
}
