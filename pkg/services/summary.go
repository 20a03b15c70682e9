package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/apperrors"
	"github.com/bagucv/bagbot-engine/pkg/llm"
	"github.com/bagucv/bagbot-engine/pkg/metrics"
	"github.com/bagucv/bagbot-engine/pkg/prompts"
)

// SummaryApologyReply replaces a summary the model failed to produce.
const SummaryApologyReply = "Error al generar resumen."

const stageSummary = "summary"

// SummaryService summarizes pasted documents.
type SummaryService interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type summaryService struct {
	llm     llm.LLMClient
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewSummaryService creates a summary service over client.
func NewSummaryService(client llm.LLMClient, m *metrics.Metrics, logger *zap.Logger) SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &summaryService{llm: client, metrics: m, logger: logger.Named("summary")}
}

var _ SummaryService = (*summaryService)(nil)

// Summarize returns a titled plain-text summary. Blank text is
// apperrors.ErrEmptyDocument; model failures are returned as *llm.Error.
func (s *summaryService) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.ErrEmptyDocument
	}

	start := time.Now()
	summary, err := s.llm.Complete(ctx, prompts.BuildSummaryPrompt(text), prompts.SummaryTemperature)
	s.metrics.ObserveLLMRequest(stageSummary, err, time.Since(start))
	if err != nil {
		s.logger.Error("Summary failed",
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.Error(err))
		return "", err
	}

	s.logger.Debug("Summary generated",
		zap.Int("input_length", len(text)),
		zap.Int("summary_length", len(summary)))
	return strings.TrimSpace(summary), nil
}
