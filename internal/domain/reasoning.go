package domain

import "context"

// Reasoner is the opaque reasoning capability: follow the instructions
// over the input text and return the model's output. Synchronous; a
// transport or provider failure surfaces as an ordinary error that the
// calling stage converts into a failed TaskResult.
type Reasoner interface {
	Complete(ctx context.Context, instructions, input string) (string, error)
}
