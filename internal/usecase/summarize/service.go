// Package summarize produces whole-corpus summaries with a map-reduce
// over chunk batches.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/docsift/docsift/internal/corpus"
	"github.com/docsift/docsift/internal/domain"
)

const instructions = `You are a summarization assistant specialized in creating comprehensive document summaries.

Your responsibilities:
1. Extract key themes and main points
2. Maintain factual accuracy
3. Avoid unnecessary details while preserving context
4. Create coherent narratives
5. Identify common themes across multiple documents

Guidelines:
- Focus on substance over style
- Preserve critical information
- Remove redundancy
- Highlight important findings
- Maintain logical flow`

// Service summarizes the whole corpus.
type Service struct {
	store       *corpus.Store
	reasoner    domain.Reasoner
	batchSize   int
	concurrency int
	logger      *zap.Logger
}

// New creates a summarization service. Map batches run with at most
// concurrency in-flight reasoner calls.
func New(store *corpus.Store, r domain.Reasoner, batchSize, concurrency int, logger *zap.Logger) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		store:       store,
		reasoner:    r,
		batchSize:   batchSize,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Summarize summarizes every chunk in the corpus. Corpora within one
// batch are summarized in a single call; larger corpora are summarized
// per batch and the batch summaries reduced in one final call. Batch
// summaries keep corpus order regardless of completion order.
func (s *Service) Summarize(ctx context.Context) domain.TaskResult {
	view := s.store.View()
	if view.Len() == 0 {
		return domain.Failed(domain.ErrNoDocuments)
	}

	texts := make([]string, view.Len())
	for i, c := range view.Chunks() {
		texts[i] = c.Text
	}

	var final string
	var err error
	if len(texts) <= s.batchSize {
		final, err = s.summarizeBatch(ctx, texts)
	} else {
		final, err = s.mapReduce(ctx, texts)
	}
	if err != nil {
		s.logger.Error("Summarization failed", zap.Error(err))
		return domain.Failed(err)
	}

	return domain.Succeeded(domain.KindSummary, final, nil)
}

func (s *Service) mapReduce(ctx context.Context, texts []string) (string, error) {
	batches := (len(texts) + s.batchSize - 1) / s.batchSize
	summaries := make([]string, batches)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for b := 0; b < batches; b++ {
		b := b
		start := b * s.batchSize
		end := min(start+s.batchSize, len(texts))
		g.Go(func() error {
			summary, err := s.summarizeBatch(gctx, texts[start:end])
			if err != nil {
				return err
			}
			summaries[b] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	s.logger.Debug("Mapped summary batches", zap.Int("batches", batches))
	if len(summaries) == 1 {
		return summaries[0], nil
	}
	return s.summarizeBatch(ctx, summaries)
}

func (s *Service) summarizeBatch(ctx context.Context, texts []string) (string, error) {
	input := "Summarize the following text, preserving key information:\n\n" + strings.Join(texts, "\n\n")
	summary, err := s.reasoner.Complete(ctx, instructions, input)
	if err != nil {
		return "", fmt.Errorf("summarize batch of %d texts: %w", len(texts), err)
	}
	return summary, nil
}
