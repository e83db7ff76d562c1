package extractor

import "regexp"

// emailRegex matches a conventional local-part/domain email pattern:
// ASCII letters, digits and ._%+- in the local part, letters, digits,
// dots and hyphens in the domain, and a TLD of at least two letters.
//
// Design decision: We keep matches verbatim rather than lowercasing them.
// Local parts are case-sensitive on some mail systems, so canonicalizing
// case could silently merge technically-distinct mailboxes. Deduplication
// is therefore exact-string and case-sensitive.
var emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// Emails extracts every distinct email address from the given page text,
// preserving first-seen order. The input is not modified.
func Emails(text string) []string {
	matches := emailRegex.FindAllString(text, -1)

	seen := make(map[string]bool, len(matches))
	unique := make([]string, 0, len(matches))
	for _, email := range matches {
		if !seen[email] {
			seen[email] = true
			unique = append(unique, email)
		}
	}
	return unique
}
