package renderscreenshot

import (
	"strconv"
	"strings"
	"time"

	"github.com/renderscreenshot/client-go/internal/signing"
)

const screenshotPath = "/v1/screenshot"

// SignURL builds a self-contained capture URL that expires at expiresAt:
//
//	{baseURL}/v1/screenshot?{query}&expires={unix}&signature={hex}
//
// The signature is the HMAC-SHA256 of everything before "&signature=",
// keyed with secret. No request is made.
func SignURL(opts TakeOptions, baseURL, secret string, expiresAt time.Time) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(baseURL, "/"))
	b.WriteString(screenshotPath)
	b.WriteByte('?')
	b.WriteString(opts.ToQueryString())
	b.WriteString("&expires=")
	b.WriteString(strconv.FormatInt(expiresAt.Unix(), 10))

	unsigned := b.String()
	return unsigned + "&signature=" + signing.SignString(unsigned, secret)
}

// Sign returns the lowercase hex HMAC-SHA256 of data keyed with secret.
func Sign(data, secret []byte) string {
	return signing.Sign(data, secret)
}

// ConstantTimeEquals compares two signatures without leaking where they
// differ. Strings of different length compare unequal immediately.
func ConstantTimeEquals(a, b string) bool {
	return signing.Equal(a, b)
}
