package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL for identity comparison: the host is
// lowercased and the fragment removed, nothing else. Two URLs that
// normalize identically are the same page. Normalization is idempotent.
//
// Design decision: We deliberately do NOT strip "www.", lowercase the
// path, drop the query, or remove the port. Unlike the fragment, any of
// those can change which resource the server returns, and a normalizer
// that merges distinct resources makes the visited set lie.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	return u.String(), nil
}

// EnsureScheme prepares a seed string for crawling: surrounding space is
// trimmed and "https://" is prepended when the string does not already
// start with an HTTP scheme.
func EnsureScheme(seed string) string {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return seed
	}
	if !strings.HasPrefix(seed, "http://") && !strings.HasPrefix(seed, "https://") {
		return "https://" + seed
	}
	return seed
}

// BaseDomain returns the lowercased host of the normalized URL. Every
// discovered link is followed only when its own normalized host equals
// this value; that equality is what keeps a crawl on the seed's site.
func BaseDomain(raw string) (string, error) {
	normalized, err := NormalizeURL(raw)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL %q has no host", raw)
	}
	return u.Host, nil
}
