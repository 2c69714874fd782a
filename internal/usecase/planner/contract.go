package planner

import (
	"context"

	"github.com/docsift/docsift/internal/domain"
)

// Classifier maps user input to an intent. Never fails: ambiguity and
// provider errors both resolve to the query intent.
type Classifier interface {
	Classify(ctx context.Context, input string) domain.Intent
}

// Retriever returns evidence for a query, best first.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]domain.Evidence, error)
}

// Answerer answers a question from retrieved evidence.
type Answerer interface {
	Answer(ctx context.Context, question string, evidence []domain.Evidence) domain.TaskResult
}

// Summarizer summarizes the whole corpus.
type Summarizer interface {
	Summarize(ctx context.Context) domain.TaskResult
}

// Stage is an evidence-driven reasoning step.
type Stage interface {
	Run(ctx context.Context, query string, evidence []domain.Evidence) domain.TaskResult
}
