// Package classify maps a free-form question to one of the supported
// intents using the reasoning provider.
package classify

import (
	"context"

	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/domain"
)

const instructions = `Classify into ONE category:
- QUERY: Questions about documents
- SUMMARIZE: Wants summary
- COMPARE: Wants comparison
- TIMELINE: Wants chronological order
- AGGREGATE: Wants synthesized info

Respond with ONLY the category name.`

// Service classifies user input into an intent.
type Service struct {
	reasoner domain.Reasoner
	logger   *zap.Logger
}

// New creates a classification service.
func New(r domain.Reasoner, logger *zap.Logger) *Service {
	return &Service{reasoner: r, logger: logger}
}

// Classify returns the intent for the given input. Classification never
// blocks the pipeline: provider failures and unrecognized labels both
// fall back to the query intent.
func (s *Service) Classify(ctx context.Context, input string) domain.Intent {
	raw, err := s.reasoner.Complete(ctx, instructions, input)
	if err != nil {
		s.logger.Warn("Intent classification failed, falling back to query", zap.Error(err))
		return domain.IntentQuery
	}

	intent := domain.ParseIntent(raw)
	s.logger.Debug("Classified intent", zap.String("raw", raw), zap.String("intent", string(intent)))
	return intent
}
