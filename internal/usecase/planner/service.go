// Package planner orchestrates one request as a finite-state pipeline:
// classify the intent, run the matching stage sequence, and package a
// uniform result carrying the visited-stage trace.
package planner

import (
	"context"

	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/domain"
)

// Orchestrator states. Terminal states end the request; no state is
// held across requests.
type state string

const (
	stateIdle        state = "idle"
	stateClassifying state = "classifying"
	stateRetrieving  state = "retrieving"
	stateAnswering   state = "answering"
	stateSummarizing state = "summarizing"
	stateComparing   state = "comparing"
	stateTimelining  state = "timelining"
	stateAggregating state = "aggregating"
	stateDone        state = "done"
	stateFailed      state = "failed"
)

// Service routes each request through the stage sequence its intent
// requires. It reads the corpus only through the stages it invokes.
type Service struct {
	classifier Classifier
	retriever  Retriever
	answerer   Answerer
	summarizer Summarizer
	comparator Stage
	timeline   Stage
	aggregator Stage
	logger     *zap.Logger
}

// New creates the orchestrator.
func New(
	c Classifier,
	r Retriever,
	a Answerer,
	s Summarizer,
	comparator, timeline, aggregator Stage,
	logger *zap.Logger,
) *Service {
	return &Service{
		classifier: c,
		retriever:  r,
		answerer:   a,
		summarizer: s,
		comparator: comparator,
		timeline:   timeline,
		aggregator: aggregator,
		logger:     logger,
	}
}

// run tracks one request's progress through the state machine.
type run struct {
	state  state
	trace  []string
	logger *zap.Logger
}

func (r *run) transition(next state, stage string) {
	r.logger.Debug("State transition",
		zap.String("from", string(r.state)),
		zap.String("to", string(next)),
	)
	r.state = next
	r.trace = append(r.trace, stage)
}

// finish stamps the trace and intent on a stage result. A failed stage
// result moves the run to the failed state with the stage's error text
// unchanged; the orchestrator never masks a downstream error.
func (r *run) finish(result domain.TaskResult, intent domain.Intent) domain.TaskResult {
	if result.Success {
		r.state = stateDone
	} else {
		r.state = stateFailed
	}
	result.Intent = intent
	result.Trace = r.trace
	return result
}

func (r *run) fail(err error, intent domain.Intent) domain.TaskResult {
	return r.finish(domain.Failed(err), intent)
}

// Execute processes one user request end to end.
func (s *Service) Execute(ctx context.Context, input string) domain.TaskResult {
	r := &run{state: stateIdle, logger: s.logger}

	if input == "" {
		r.state = stateFailed
		result := domain.Failed(domain.ErrNoInput)
		result.Trace = r.trace
		return result
	}

	r.transition(stateClassifying, "classify")
	intent := s.classifier.Classify(ctx, input)
	s.logger.Info("Classified request", zap.String("intent", string(intent)))

	if intent == domain.IntentSummarize {
		r.transition(stateSummarizing, "summarize")
		return r.finish(s.summarizer.Summarize(ctx), intent)
	}

	r.transition(stateRetrieving, "retrieve")
	evidence, err := s.retriever.Retrieve(ctx, input)
	if err != nil {
		s.logger.Error("Retrieval failed", zap.Error(err))
		return r.fail(err, intent)
	}

	switch intent {
	case domain.IntentCompare:
		r.transition(stateComparing, "compare")
		return r.finish(s.comparator.Run(ctx, input, evidence), intent)
	case domain.IntentTimeline:
		r.transition(stateTimelining, "timeline")
		return r.finish(s.timeline.Run(ctx, input, evidence), intent)
	case domain.IntentAggregate:
		r.transition(stateAggregating, "aggregate")
		return r.finish(s.aggregator.Run(ctx, input, evidence), intent)
	default:
		r.transition(stateAnswering, "answer")
		return r.finish(s.answerer.Answer(ctx, input, evidence), intent)
	}
}
