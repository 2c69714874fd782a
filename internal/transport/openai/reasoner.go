package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/domain"
	"github.com/docsift/docsift/internal/metrics"
)

// Reasoner implements domain.Reasoner over the OpenAI-compatible chat
// completions API. The instructions become the system message, the input
// the user message.
type Reasoner struct {
	client      *openai.Client
	model       string
	temperature float32
	provider    string
	logger      *zap.Logger
}

// ReasonerConfig holds the reasoning provider settings.
type ReasonerConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Provider    string
	Logger      *zap.Logger
}

// NewReasoner creates an OpenAI-compatible reasoning provider.
func NewReasoner(cfg *ReasonerConfig) *Reasoner {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Reasoner{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		provider:    cfg.Provider,
		logger:      cfg.Logger,
	}
}

// Complete implements domain.Reasoner.
func (r *Reasoner) Complete(ctx context.Context, instructions, input string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: r.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instructions},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	}

	start := time.Now()
	resp, err := r.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.ReasoningRequestsTotal.WithLabelValues(r.provider, r.model, "error").Inc()
		return "", parseAPIError(err, domain.ErrReasoningProviderError)
	}

	if len(resp.Choices) == 0 {
		metrics.ReasoningRequestsTotal.WithLabelValues(r.provider, r.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrReasoningProviderError)
	}

	metrics.ReasoningRequestsTotal.WithLabelValues(r.provider, r.model, "success").Inc()
	metrics.ReasoningRequestDuration.WithLabelValues(r.provider, r.model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.ReasoningTokensTotal.WithLabelValues(r.provider, r.model, "prompt").
			Add(float64(resp.Usage.PromptTokens))
		metrics.ReasoningTokensTotal.WithLabelValues(r.provider, r.model, "completion").
			Add(float64(resp.Usage.CompletionTokens))
		metrics.ReasoningTokensTotal.WithLabelValues(r.provider, r.model, "total").
			Add(float64(resp.Usage.TotalTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (r *Reasoner) HealthCheck(ctx context.Context) error {
	if _, err := r.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
