package fetcher

import (
	"bytes"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts a raw file body to UTF-8. The charset comes from a
// byte order mark or the Content-Type parameter when present; otherwise
// valid UTF-8 is kept and anything else is read as windows-1252.
func DecodeText(body []byte, contentType string) string {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" {
		return string(bytes.TrimPrefix(body, utf8BOM))
	}

	// BOMOverride consumes a UTF-16 byte order mark instead of emitting U+FEFF.
	decoded, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
