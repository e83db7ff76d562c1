package model

import "time"

// EventKind identifies the type of an engine event.
type EventKind int

const (
	// EventLogLine carries one timestamped, human-readable progress line.
	EventLogLine EventKind = iota

	// EventSiteCompleted carries the final SiteResult for one seed. It is
	// emitted as soon as that seed's crawl finishes, before the next seed
	// starts, so consumers receive results incrementally.
	EventSiteCompleted

	// EventAllCompleted is emitted exactly once, after the last seed,
	// including runs that were cancelled partway through.
	EventAllCompleted
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventLogLine:
		return "log_line"
	case EventSiteCompleted:
		return "site_completed"
	case EventAllCompleted:
		return "all_completed"
	default:
		return "unknown"
	}
}

// Event is the one-way message type flowing from the crawl engine to the
// component that renders or stores its output. The engine never learns
// what consumes its events.
//
// Design decision: One struct with a Kind discriminator rather than an
// interface with one type per kind because:
//  1. Consumers are switch statements either way
//  2. A flat struct crosses channels without allocation games
//  3. The field set is tiny and stable
type Event struct {
	// Kind discriminates which of the remaining fields are meaningful.
	Kind EventKind

	// Time is when the event was produced.
	Time time.Time

	// Message is the log text. Set only for EventLogLine.
	Message string

	// Result is the finished site result. Set only for EventSiteCompleted.
	Result *SiteResult
}
