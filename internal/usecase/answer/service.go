// Package answer produces grounded answers to questions, citing the
// retrieved evidence.
package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/domain"
)

const instructions = `You are a document question answering assistant.

Your responsibilities:
1. Answer questions based ONLY on the provided context
2. Reference specific documents and page numbers in your answers
3. If information is not in context, clearly state that
4. Cite sources using format: [Document Name, Page X]

Guidelines:
- Ground all answers in the provided context
- Do not make up or hallucinate information
- Be precise and factual
- Use direct quotes when appropriate
- Acknowledge limitations when context is insufficient`

// Service answers a question from retrieved evidence.
type Service struct {
	reasoner domain.Reasoner
	logger   *zap.Logger
}

// New creates an answering service.
func New(r domain.Reasoner, logger *zap.Logger) *Service {
	return &Service{reasoner: r, logger: logger}
}

// Answer asks the reasoner to answer the question from the evidence.
// Empty evidence still reaches the reasoner so the answer can state
// that nothing relevant was found.
func (s *Service) Answer(ctx context.Context, question string, evidence []domain.Evidence) domain.TaskResult {
	input := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", buildContext(evidence), question)

	content, err := s.reasoner.Complete(ctx, instructions, input)
	if err != nil {
		s.logger.Error("Answer generation failed", zap.Error(err))
		return domain.Failed(err)
	}

	return domain.Succeeded(domain.KindQuery, content, evidence)
}

// buildContext renders evidence as numbered source blocks.
func buildContext(evidence []domain.Evidence) string {
	if len(evidence) == 0 {
		return "No relevant information found"
	}

	parts := make([]string, len(evidence))
	for i, ev := range evidence {
		parts[i] = fmt.Sprintf("[Source %d] Document: %s, Page: %d, Relevance: %.3f\n%s",
			i+1, ev.DocumentID, ev.Page, ev.Score, ev.Text)
	}
	return strings.Join(parts, "\n\n---\n\n")
}
