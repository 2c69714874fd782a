package domain

import "strings"

// Intent is the classified task category governing which stage sequence
// the planner runs. Closed enumeration.
type Intent string

const (
	// IntentQuery answers a question grounded in retrieved evidence.
	IntentQuery Intent = "query"
	// IntentSummarize summarizes the whole corpus (no retrieval).
	IntentSummarize Intent = "summarize"
	// IntentCompare contrasts retrieved evidence across sources.
	IntentCompare Intent = "compare"
	// IntentTimeline orders retrieved evidence chronologically.
	IntentTimeline Intent = "timeline"
	// IntentAggregate synthesizes retrieved evidence into one view.
	IntentAggregate Intent = "aggregate"
)

// ParseIntent clamps raw classifier output onto the closed intent set.
// Anything unrecognized (empty, lowercase noise, out-of-set labels)
// resolves to IntentQuery: classification degrades, it never fails a
// request.
func ParseIntent(raw string) Intent {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "QUERY":
		return IntentQuery
	case "SUMMARIZE":
		return IntentSummarize
	case "COMPARE":
		return IntentCompare
	case "TIMELINE":
		return IntentTimeline
	case "AGGREGATE":
		return IntentAggregate
	default:
		return IntentQuery
	}
}
