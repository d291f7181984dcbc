package common

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\(([^\)]+)\)$`)

// SanitizeLocation performs basic cleanup on a page location to handle
// common copy-paste issues: whitespace, markdown links, wrapping quotes.
func SanitizeLocation(raw string) string {
	cleaned := strings.TrimSpace(raw)

	// "[versions](https://example.com/versions.html)" -> "https://example.com/versions.html"
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	for _, char := range []string{"\"", "'", "<", ">"} {
		cleaned = strings.TrimPrefix(cleaned, char)
		cleaned = strings.TrimSuffix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// ResolveLocation turns a page location given on the command line into an
// absolute URL. http(s) and file URLs are kept; anything else is treated as
// a local path and converted to a file URL.
func ResolveLocation(raw string) (*url.URL, error) {
	cleaned := SanitizeLocation(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty page location")
	}

	if strings.HasPrefix(cleaned, "http://") || strings.HasPrefix(cleaned, "https://") {
		parsed, err := url.Parse(cleaned)
		if err != nil {
			return nil, fmt.Errorf("invalid page URL %q: %w", raw, err)
		}
		if parsed.Host == "" || strings.ContainsAny(parsed.Host, "{}[]<>\"' ") {
			return nil, fmt.Errorf("invalid host in page URL %q", raw)
		}
		return parsed, nil
	}

	path := strings.TrimPrefix(cleaned, "file://")
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve page path %q: %w", raw, err)
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
}

// ResolveResource resolves a resource name relative to the page location,
// the way a browser resolves a relative fetch.
func ResolveResource(location *url.URL, resource string) (string, error) {
	ref, err := url.Parse(resource)
	if err != nil {
		return "", fmt.Errorf("invalid resource %q: %w", resource, err)
	}
	return location.ResolveReference(ref).String(), nil
}
