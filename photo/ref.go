// Package photo resolves employee photo references into fixed-size bitmaps
// ready for embedding: fetch, decode, cover-crop to the target box, encode.
package photo

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"strings"

	hrdocs "github.com/lvillar/hrdocs"
)

// Ref locates a photo. Exactly one of Data and URL is set on a valid ref.
type Ref struct {
	Data []byte // inline bytes
	URL  string // http(s):// or s3:// locator
}

// IsZero reports whether r points nowhere.
func (r Ref) IsZero() bool {
	return len(r.Data) == 0 && r.URL == ""
}

// Key identifies the ref within one render call.
func (r Ref) Key() string {
	if r.URL != "" {
		return r.URL
	}
	sum := sha256.Sum256(r.Data)
	return "inline:" + hex.EncodeToString(sum[:8])
}

// String is the ref as it may appear in logs and errors: remote locators
// lose their credentials, query and fragment.
func (r Ref) String() string {
	if r.URL != "" {
		return redactURL(r.URL)
	}
	return r.Key()
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[unparseable locator]"
	}
	u.User = nil
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// ParseRef interprets a row value as a photo reference. Byte slices and
// data: URIs are inline; http, https and s3 URLs are remote. Anything else
// is not a photo.
func ParseRef(v any) (Ref, bool) {
	switch v := v.(type) {
	case []byte:
		if len(v) == 0 {
			return Ref{}, false
		}
		return Ref{Data: v}, true
	case string:
		return parseString(strings.TrimSpace(v))
	}
	return Ref{}, false
}

// FromRow reads the ref stored under key.
func FromRow(row hrdocs.Row, key string) (Ref, bool) {
	return ParseRef(row[key])
}

func parseString(s string) (Ref, bool) {
	if s == "" {
		return Ref{}, false
	}
	if strings.HasPrefix(strings.ToLower(s), "data:") {
		data, ok := decodeDataURI(s)
		if !ok {
			return Ref{}, false
		}
		return Ref{Data: data}, true
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return Ref{}, false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "s3":
		return Ref{URL: s}, true
	}
	return Ref{}, false
}

func decodeDataURI(s string) ([]byte, bool) {
	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return nil, false
	}
	meta, payload := s[len("data:"):comma], s[comma+1:]
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(payload)
		}
		if err != nil || len(data) == 0 {
			return nil, false
		}
		return data, true
	}
	text, err := url.PathUnescape(payload)
	if err != nil || text == "" {
		return nil, false
	}
	return []byte(text), true
}
