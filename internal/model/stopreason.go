package model

import (
	"encoding/json"
	"fmt"
)

// StopReason records why the crawl of a single site terminated.
// Every termination path leads to the same "done" state; only the reason
// differs, and it is surfaced through logs, reports, and stored results
// rather than through distinct error types.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons. The String() method provides the stable
// token used in logs, JSON output, and database rows.
type StopReason int

const (
	// StopQueueEmpty means the frontier drained naturally: every reachable
	// same-domain page within the configured limits was visited.
	StopQueueEmpty StopReason = iota

	// StopPageLimit means the per-site page budget was reached before the
	// frontier drained. The entry at the head of the queue was not fetched.
	StopPageLimit

	// StopDepthExhausted means the frontier drained, but at least one
	// discovered link was suppressed by the depth limit along the way.
	StopDepthExhausted

	// StopThreshold means every configured contact-count threshold was met
	// and the crawl ended early. This is a success condition, not an error.
	StopThreshold

	// StopCancelled means a cooperative stop request interrupted the crawl.
	// Results collected up to that point are discarded, not reported.
	StopCancelled
)

// String returns the stable token for the stop reason.
func (r StopReason) String() string {
	switch r {
	case StopQueueEmpty:
		return "queue_empty"
	case StopPageLimit:
		return "page_limit_reached"
	case StopDepthExhausted:
		return "depth_exhausted"
	case StopThreshold:
		return "threshold_reached"
	case StopCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ParseStopReason converts a stored token back into a StopReason.
// Unknown tokens return an error so database corruption is visible
// rather than silently mapped to a valid reason.
func ParseStopReason(s string) (StopReason, error) {
	switch s {
	case "queue_empty":
		return StopQueueEmpty, nil
	case "page_limit_reached":
		return StopPageLimit, nil
	case "depth_exhausted":
		return StopDepthExhausted, nil
	case "threshold_reached":
		return StopThreshold, nil
	case "cancelled":
		return StopCancelled, nil
	default:
		return StopQueueEmpty, fmt.Errorf("unknown stop reason: %q", s)
	}
}

// MarshalJSON encodes the stop reason as its string token.
func (r StopReason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a stop reason from its string token.
func (r *StopReason) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseStopReason(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
