package extractor

import (
	"regexp"
	"strings"
)

// italianMobileRegex matches Italian mobile numbers in the separator and
// prefix styles seen in the wild: an optional +39, 0039 or bare trunk 0
// prefix followed by a 3xx mobile prefix and seven more digits, with
// spaces or dashes between the groups.
var italianMobileRegex = regexp.MustCompile(`\b(?:\+39[-\s]?|0039[-\s]?|0)?3\d{2}[-\s]?\d{3}[-\s]?\d{4}\b`)

// separatorReplacer strips the characters that appear between digit
// groups in human-formatted numbers.
var separatorReplacer = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "\t", "")

// RegexHeuristic is the historical phone extraction strategy: a pattern
// tuned for the Italian mobile format with manual prefix normalization.
// It ignores the region hint because the pattern itself encodes the region.
//
// Design decision: We keep this strategy alongside the locale-aware parser
// because it accepts forms the library rejects, such as a trunk "0" in
// front of a mobile number, which Italian small-business sites print
// surprisingly often. Runs tuned against its output depend on that.
type RegexHeuristic struct{}

// NewRegexHeuristic creates the regex-based Italian mobile strategy.
func NewRegexHeuristic() *RegexHeuristic {
	return &RegexHeuristic{}
}

// Name returns the strategy name for logging.
func (h *RegexHeuristic) Name() string {
	return "regex"
}

// Extract matches Italian mobile numbers and rewrites each to the single
// canonical +39 form. The region hint is unused.
func (h *RegexHeuristic) Extract(text, _ string) []string {
	matches := italianMobileRegex.FindAllString(text, -1)

	seen := make(map[string]bool, len(matches))
	unique := make([]string, 0, len(matches))
	for _, match := range matches {
		canonical := normalizeItalianMobile(match)
		if canonical != "" && !seen[canonical] {
			seen[canonical] = true
			unique = append(unique, canonical)
		}
	}
	return unique
}

// normalizeItalianMobile strips separators and rewrites the prefix so that
// every accepted form ends up as +39 followed by the ten mobile digits:
// the 0039 long form becomes +39, a trunk 0 is replaced by +39, and a bare
// national number has +39 prepended.
func normalizeItalianMobile(raw string) string {
	digits := separatorReplacer.Replace(raw)

	switch {
	case strings.HasPrefix(digits, "+39"):
		return digits
	case strings.HasPrefix(digits, "0039"):
		return "+39" + strings.TrimPrefix(digits, "0039")
	case strings.HasPrefix(digits, "0"):
		return "+39" + strings.TrimPrefix(digits, "0")
	default:
		return "+39" + digits
	}
}
