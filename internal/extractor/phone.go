package extractor

import (
	"fmt"

	"github.com/nao1215/contactscan/internal/config"
)

// PhoneStrategy extracts canonical phone numbers from page text.
// Two implementations coexist because the system's phone handling evolved
// over time: a regex tuned for one national mobile format with hand-rolled
// prefix normalization, and a locale-aware parser backed by a real phone
// number library. Both must be selectable so runs tuned against either
// behavior keep producing the same numbers.
//
// Implementations must never mutate the input text and must swallow
// per-candidate parse failures; a garbled candidate costs one number,
// never the page.
type PhoneStrategy interface {
	// Extract returns the deduplicated canonical phone numbers found in
	// text, in first-seen order. The region is an ISO 3166-1 alpha-2 hint
	// for strategies that need one; others may ignore it.
	Extract(text, region string) []string

	// Name returns the strategy name for logging.
	Name() string
}

// NewPhoneStrategy returns the PhoneStrategy selected by name.
// Valid names are config.PhoneStrategyLocale and config.PhoneStrategyRegex;
// anything else is a configuration error.
func NewPhoneStrategy(name string) (PhoneStrategy, error) {
	switch name {
	case config.PhoneStrategyLocale:
		return NewLocaleParser(), nil
	case config.PhoneStrategyRegex:
		return NewRegexHeuristic(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownPhoneStrategy, name)
	}
}
