package extractor

import (
	"log/slog"
	"regexp"

	"github.com/nyaruka/phonenumbers"
)

// phoneCandidateRegex finds substrings that look like they might be phone
// numbers: an optional + followed by digits interleaved with common
// separators, at least seven digits long overall. Candidates are cheap to
// over-produce; the library parse decides what is real.
var phoneCandidateRegex = regexp.MustCompile(`\+?\d[\d\s.\-/()]{5,18}\d`)

// LocaleParser is the locale-aware phone extraction strategy. It scans the
// text for digit-run candidates, parses each under the given region,
// keeps only numbers the library validates and classifies as mobile or
// mobile-or-fixed, and formats survivors in E.164.
//
// Design decision: We discard fixed-line-only numbers because the results
// feed mobile-first contact workflows (WhatsApp links, SMS). A number the
// library cannot distinguish (FIXED_LINE_OR_MOBILE) is kept; dropping
// ambiguous numbers loses real mobiles in regions with mixed plans.
type LocaleParser struct {
	// logger records per-candidate parse failures at debug level.
	// Failures are expected: most candidates are prices, dates, or IDs.
	logger *slog.Logger
}

// LocaleParserOption configures a LocaleParser.
type LocaleParserOption func(*LocaleParser)

// WithLocaleLogger sets the logger used for per-candidate debug output.
func WithLocaleLogger(logger *slog.Logger) LocaleParserOption {
	return func(p *LocaleParser) {
		p.logger = logger
	}
}

// NewLocaleParser creates the locale-aware phone strategy.
func NewLocaleParser(opts ...LocaleParserOption) *LocaleParser {
	p := &LocaleParser{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the strategy name for logging.
func (p *LocaleParser) Name() string {
	return "locale"
}

// Extract parses every candidate substring under region and returns the
// valid mobile (or mobile-or-fixed) numbers in E.164, deduplicated in
// first-seen order. Candidates that fail to parse are skipped.
func (p *LocaleParser) Extract(text, region string) []string {
	candidates := phoneCandidateRegex.FindAllString(text, -1)

	seen := make(map[string]bool, len(candidates))
	unique := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		num, err := phonenumbers.Parse(candidate, region)
		if err != nil {
			p.logger.Debug("phone candidate rejected",
				"candidate", candidate,
				"region", region,
				"error", err,
			)
			continue
		}
		if !phonenumbers.IsValidNumber(num) {
			continue
		}

		switch phonenumbers.GetNumberType(num) {
		case phonenumbers.MOBILE, phonenumbers.FIXED_LINE_OR_MOBILE:
			// Keep
		default:
			continue
		}

		canonical := phonenumbers.Format(num, phonenumbers.E164)
		if !seen[canonical] {
			seen[canonical] = true
			unique = append(unique, canonical)
		}
	}
	return unique
}
