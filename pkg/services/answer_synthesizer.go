package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/llm"
	"github.com/bagucv/bagbot-engine/pkg/metrics"
	"github.com/bagucv/bagbot-engine/pkg/models"
	"github.com/bagucv/bagbot-engine/pkg/prompts"
)

const stageAnswer = "answer"

// AnswerSynthesizer turns query results into the user-facing reply.
type AnswerSynthesizer struct {
	llm     llm.LLMClient
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewAnswerSynthesizer creates a synthesizer over client.
func NewAnswerSynthesizer(client llm.LLMClient, m *metrics.Metrics, logger *zap.Logger) *AnswerSynthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnswerSynthesizer{llm: client, metrics: m, logger: logger.Named("synthesizer")}
}

// Synthesize phrases result as an answer to question. An empty result selects
// the "no results" prompt branch.
func (s *AnswerSynthesizer) Synthesize(ctx context.Context, result *models.ResultSet, question string) (string, error) {
	payload, err := result.Payload()
	if err != nil {
		return "", fmt.Errorf("serialize result: %w", err)
	}

	kind := prompts.PayloadRows
	if result.IsEmpty() {
		kind = prompts.PayloadEmpty
	}
	return s.complete(ctx, question, payload, kind)
}

// SynthesizeRaw answers from model text that never became an executed query.
// With rejected set the prompt tells the user the operation is not permitted.
func (s *AnswerSynthesizer) SynthesizeRaw(ctx context.Context, raw, question string, rejected bool) (string, error) {
	kind := prompts.PayloadRaw
	if rejected {
		kind = prompts.PayloadRejected
	}
	return s.complete(ctx, question, raw, kind)
}

func (s *AnswerSynthesizer) complete(ctx context.Context, question, payload string, kind prompts.PayloadKind) (string, error) {
	messages := prompts.BuildAnswerSynthesisPrompt(question, payload, kind)

	start := time.Now()
	answer, err := s.llm.Complete(ctx, messages, llm.DefaultTemperature)
	s.metrics.ObserveLLMRequest(stageAnswer, err, time.Since(start))
	if err != nil {
		return "", err
	}

	s.logger.Debug("Answer synthesized",
		zap.String("payload_kind", kind.String()),
		zap.Int("answer_length", len(answer)))
	return strings.TrimSpace(answer), nil
}
