package domain

// Payload kinds carried by a successful TaskResult.
const (
	KindQuery     = "query"
	KindSummary   = "summary"
	KindCompare   = "compare"
	KindTimeline  = "timeline"
	KindAggregate = "aggregate"
)

// Payload is the output of a successful stage or request.
type Payload struct {
	Kind     string     `json:"kind"`
	Content  string     `json:"content"`
	Evidence []Evidence `json:"evidence"`
}

// TaskResult is the uniform envelope every stage and the planner return.
// Invariant: Success=false implies Payload==nil and Err non-empty;
// Success=true implies Payload!=nil. Use Succeeded and Failed to keep it.
type TaskResult struct {
	Success bool     `json:"success"`
	Intent  Intent   `json:"intent,omitempty"`
	Payload *Payload `json:"payload,omitempty"`
	Err     string   `json:"error,omitempty"`
	Trace   []string `json:"trace,omitempty"`
}

// Succeeded builds a successful TaskResult with the given payload.
func Succeeded(kind, content string, evidence []Evidence) TaskResult {
	return TaskResult{
		Success: true,
		Payload: &Payload{Kind: kind, Content: content, Evidence: evidence},
	}
}

// Failed builds a failed TaskResult carrying the error text unchanged.
func Failed(err error) TaskResult {
	return TaskResult{Success: false, Err: err.Error()}
}
