package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// ValidateQuery rejects empty or whitespace-only search queries.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return New(ErrCodeNoParams, "no parameters provided for search query")
	}
	for _, r := range query {
		if unicode.IsControl(r) {
			return New(ErrCodeNoParams, "query contains invalid control characters")
		}
	}
	return nil
}

// pkgnameRegex matches names accepted by pacman and the AUR:
// alphanumerics plus @._+- and never a leading hyphen or dot.
var pkgnameRegex = regexp.MustCompile(`^[A-Za-z0-9@_+][A-Za-z0-9@._+-]*$`)

// ValidatePackageName validates a package name before it is spliced into a
// registry URL path.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - Maximum length of 256 characters
//   - Only characters pacman allows in pkgname
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	if !pkgnameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid package name: %q", name)
	}

	return nil
}

// ValidateBaseURL parses a configured registry base address.
// It requires an http or https scheme and a host.
func ValidateBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, New(ErrCodeParseURL, "base URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, Wrap(ErrCodeParseURL, err, "couldn't parse the url %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, New(ErrCodeParseURL, "URL must use http or https scheme: %q", raw)
	}
	if u.Host == "" {
		return nil, New(ErrCodeParseURL, "URL has no host: %q", raw)
	}
	return u, nil
}
