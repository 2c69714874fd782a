// Package synthesis holds the evidence-driven reasoning stages that
// share one shape: render evidence blocks, pose a task-specific prompt,
// return the completion. Comparison, timeline construction, and
// aggregation differ only in their instructions and labels.
package synthesis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/domain"
)

const comparatorInstructions = `You are a comparison assistant specialized in analyzing differences and similarities.

Your responsibilities:
1. Identify key similarities across documents
2. Highlight important differences
3. Detect contradictions or conflicts
4. Provide structured comparative analysis
5. Use specific examples from each document

Guidelines:
- Be objective and balanced
- Use clear comparison frameworks
- Cite specific evidence
- Organize comparisons logically
- Highlight most significant differences`

const timelineInstructions = `You are a timeline assistant specialized in chronological organization.

Your responsibilities:
1. Identify temporal markers (dates, times, sequences)
2. Organize events in chronological order
3. Establish causal relationships
4. Create clear temporal narratives
5. Handle relative time references

Guidelines:
- Extract all temporal information
- Order events logically
- Note simultaneity when relevant
- Highlight cause-and-effect relationships
- Use clear timeline format`

const aggregatorInstructions = `You are an aggregation assistant specialized in information synthesis.

Your responsibilities:
1. Merge overlapping information
2. Eliminate redundancy
3. Preserve unique contributions from each source
4. Create comprehensive unified view
5. Maintain factual accuracy

Guidelines:
- Identify common themes
- Note unique perspectives
- Resolve minor contradictions
- Build complete picture
- Credit sources appropriately`

// Stage is one evidence-driven reasoning step. All stages require
// evidence; an empty set fails without reaching the provider.
type Stage struct {
	name         string
	kind         string
	instructions string
	prompt       string
	label        string
	reasoner     domain.Reasoner
	logger       *zap.Logger
}

// NewComparator builds the cross-document comparison stage.
func NewComparator(r domain.Reasoner, logger *zap.Logger) *Stage {
	return &Stage{
		name:         "comparator",
		kind:         domain.KindCompare,
		instructions: comparatorInstructions,
		prompt:       "Compare and contrast the following information:",
		label:        "Source",
		reasoner:     r,
		logger:       logger,
	}
}

// NewTimelineBuilder builds the chronological ordering stage.
func NewTimelineBuilder(r domain.Reasoner, logger *zap.Logger) *Stage {
	return &Stage{
		name:         "timeline_builder",
		kind:         domain.KindTimeline,
		instructions: timelineInstructions,
		prompt:       "Construct a chronological timeline from these events:",
		label:        "Event",
		reasoner:     r,
		logger:       logger,
	}
}

// NewAggregator builds the multi-source synthesis stage.
func NewAggregator(r domain.Reasoner, logger *zap.Logger) *Stage {
	return &Stage{
		name:         "aggregator",
		kind:         domain.KindAggregate,
		instructions: aggregatorInstructions,
		prompt:       "Aggregate and synthesize information from these sources:",
		label:        "Source",
		reasoner:     r,
		logger:       logger,
	}
}

// Run executes the stage against the query and evidence.
func (st *Stage) Run(ctx context.Context, query string, evidence []domain.Evidence) domain.TaskResult {
	if len(evidence) == 0 {
		return domain.Failed(domain.ErrNoEvidence)
	}

	blocks := make([]string, len(evidence))
	for i, ev := range evidence {
		blocks[i] = fmt.Sprintf("[%s %d] %s (Page %d)\n%s", st.label, i+1, ev.DocumentID, ev.Page, ev.Text)
	}
	input := fmt.Sprintf("Query: %s\n\n%s\n\n%s", query, st.prompt, strings.Join(blocks, "\n\n"))

	content, err := st.reasoner.Complete(ctx, st.instructions, input)
	if err != nil {
		st.logger.Error("Stage failed", zap.String("stage", st.name), zap.Error(err))
		return domain.Failed(err)
	}

	return domain.Succeeded(st.kind, content, evidence)
}
