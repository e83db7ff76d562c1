package model

import (
	"strings"
	"time"
)

// SiteResult holds everything discovered while crawling a single seed site.
// It is created when the crawl of a seed starts, grows incrementally as
// pages are processed, and is finalized when the crawl terminates. Once the
// result has been reported it must not be mutated.
//
// Design decision: Emails and Phones are ordered slices rather than maps
// because:
//  1. First-seen order makes output deterministic for a given crawl
//  2. Deduplication already happened when entries were merged
//  3. Slices serialize cleanly to JSON and SQL without conversion
type SiteResult struct {
	// Seed is the seed string exactly as the caller supplied it,
	// before scheme prepending. External collaborators key their
	// display rows on this value.
	Seed string `json:"seed"`

	// URL is the canonicalized form the crawl actually started from:
	// trimmed, scheme-prepended, host lowercased, fragment stripped.
	URL string `json:"url"`

	// Emails are the addresses found on the site, verbatim as matched.
	// Deduplication is exact-string and case-sensitive: two spellings
	// of the same mailbox that differ in case are distinct entries.
	Emails []string `json:"emails"`

	// Phones are canonical international numbers ("+" followed by the
	// country code and digits, no separators). Raw strings that
	// canonicalize identically appear once.
	Phones []string `json:"phones"`

	// PagesVisited is the number of pages fetched during the crawl,
	// including pages whose fetch failed after being dequeued.
	PagesVisited int `json:"pages_visited"`

	// StopReason records why the crawl of this site ended.
	StopReason StopReason `json:"stop_reason"`

	// UsedDynamicFallback is true when the one-time browser-rendered
	// re-fetch of the seed page ran because the static crawl found
	// nothing in one of the two contact categories.
	UsedDynamicFallback bool `json:"used_dynamic_fallback,omitempty"`

	// StartedAt and CompletedAt bound the crawl of this site.
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	// Elapsed is CompletedAt minus StartedAt, precomputed so that
	// consumers of serialized results need no time arithmetic.
	Elapsed time.Duration `json:"elapsed"`
}

// WhatsAppLink derives the wa.me chat link for a canonical phone number.
// The wa.me format is the number's digits without the leading "+".
func WhatsAppLink(phone string) string {
	return "https://wa.me/" + strings.TrimPrefix(phone, "+")
}

// WhatsAppLinks returns a wa.me link for every phone in the result,
// in the same order as Phones.
func (r *SiteResult) WhatsAppLinks() []string {
	links := make([]string, 0, len(r.Phones))
	for _, p := range r.Phones {
		links = append(links, WhatsAppLink(p))
	}
	return links
}

// BulkMailto builds a single mailto: link addressing every unique email
// across the given results, preserving first-seen order. It returns the
// empty string when no emails were collected.
func BulkMailto(results []*SiteResult) string {
	seen := make(map[string]bool)
	all := make([]string, 0)
	for _, r := range results {
		for _, e := range r.Emails {
			if !seen[e] {
				seen[e] = true
				all = append(all, e)
			}
		}
	}
	if len(all) == 0 {
		return ""
	}
	return "mailto:" + strings.Join(all, ",")
}
