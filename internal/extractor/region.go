package extractor

import "strings"

// tldRegions maps country-code TLDs to ISO 3166-1 alpha-2 phone regions.
// Most ccTLDs equal their region code; the table spells them out anyway so
// the exceptions (uk → GB) don't hide among implicit rules, and so that
// generic TLDs are visibly absent rather than accidentally matched.
var tldRegions = map[string]string{
	"it": "IT",
	"uk": "GB",
	"gb": "GB",
	"de": "DE",
	"fr": "FR",
	"es": "ES",
	"pt": "PT",
	"nl": "NL",
	"be": "BE",
	"at": "AT",
	"ch": "CH",
	"ie": "IE",
	"pl": "PL",
	"cz": "CZ",
	"se": "SE",
	"no": "NO",
	"dk": "DK",
	"fi": "FI",
	"gr": "GR",
	"ro": "RO",
	"hu": "HU",
	"us": "US",
	"ca": "CA",
	"mx": "MX",
	"br": "BR",
	"ar": "AR",
	"au": "AU",
	"nz": "NZ",
	"jp": "JP",
	"kr": "KR",
	"cn": "CN",
	"in": "IN",
	"ru": "RU",
	"tr": "TR",
	"za": "ZA",
}

// DetectRegion derives a phone-parsing region from a site's host by its
// top-level domain. When the TLD is not in the mapping, or the host has
// fewer than two labels (no TLD to inspect), it returns fallback.
// Callers configure the fallback; the hard-coded last resort lives in
// config.DefaultFallbackRegion.
func DetectRegion(host, fallback string) string {
	labels := strings.Split(strings.ToLower(host), ".")
	if len(labels) < 2 {
		return fallback
	}

	tld := labels[len(labels)-1]
	// Strip a port that survived on a bare host:port string.
	if i := strings.IndexByte(tld, ':'); i >= 0 {
		tld = tld[:i]
	}

	if region, ok := tldRegions[tld]; ok {
		return region
	}
	return fallback
}
