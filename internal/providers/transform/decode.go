package transform

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// Decode converts an origin body to UTF-8 text.
//
// Order of trust: byte order mark or Content-Type charset, then valid UTF-8,
// then statistical detection, then the HTML5 default.
func Decode(body []byte, contentType string) string {
	if len(body) == 0 {
		return ""
	}

	if _, name, certain := charset.DetermineEncoding(body, contentType); certain {
		if text, ok := decodeLabel(name, body); ok {
			return text
		}
	}

	if utf8.Valid(body) {
		return string(body)
	}

	if result, err := chardet.NewTextDetector().DetectBest(body); err == nil && result != nil {
		if text, ok := decodeLabel(result.Charset, body); ok {
			return text
		}
	}

	// Meta prescan, falling back to windows-1252.
	_, name, _ := charset.DetermineEncoding(body, "")
	if text, ok := decodeLabel(name, body); ok {
		return text
	}
	return string(body)
}

func decodeLabel(label string, body []byte) (string, bool) {
	r, err := charset.NewReaderLabel(label, bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", false
	}
	return string(out), true
}
