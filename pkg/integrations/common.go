package integrations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const httpTimeout = 10 * time.Second

// DefaultCacheTTL is how long registry responses are cached when the
// caller doesn't say otherwise.
const DefaultCacheTTL = time.Hour

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// URLEncode percent-encodes a string for use in URLs.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }

// PathEscape percent-encodes a single URL path segment.
func PathEscape(s string) string { return url.PathEscape(s) }

// Bounds of the representable calendar (years 1 through 9999) in Unix seconds.
const (
	minUnix = -62135596800
	maxUnix = 253402300799
)

// UnixTime is an instant encoded on the wire as Unix epoch seconds.
//
// Decoding yields a UTC time. Numbers outside years 1..9999 and numbers with
// a fractional part are errors. RFC 3339 strings are accepted as well, and
// null decodes to the zero time.
type UnixTime struct {
	time.Time
}

// UnmarshalJSON implements [json.Unmarshaler].
func (t *UnixTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		t.Time = time.Time{}
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		t.Time = parsed.UTC()
		return nil
	}

	n, err := parseEpoch(string(b))
	if err != nil {
		return err
	}
	t.Time = time.Unix(n, 0).UTC()
	return nil
}

// MarshalJSON encodes t as epoch seconds, or null for the zero time.
func (t UnixTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(t.Unix(), 10)), nil
}

func parseEpoch(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Accept 1.7e9 style integers but nothing with a fraction.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("invalid unix timestamp %s", s)
		}
		if f < minUnix || f > maxUnix {
			return 0, fmt.Errorf("unix timestamp %s out of range", s)
		}
		n = int64(f)
	}
	if n < minUnix || n > maxUnix {
		return 0, fmt.Errorf("unix timestamp %d out of range", n)
	}
	return n, nil
}
