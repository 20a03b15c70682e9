package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/llm"
	"github.com/bagucv/bagbot-engine/pkg/logging"
	"github.com/bagucv/bagbot-engine/pkg/metrics"
	"github.com/bagucv/bagbot-engine/pkg/prompts"
)

// Fixed replies used when a stage cannot produce an answer.
const (
	FatalApologyReply       = "Lo siento, en este momento no puedo consultar el catálogo de la biblioteca. Intenta de nuevo más tarde."
	SQLStageApologyReply    = "Error al generar consulta."
	SearchFailedReply       = "Hubo un problema al ejecutar la consulta SQL."
	AnswerStageApologyReply = "Error al generar la respuesta."
	NotPermittedReply       = "Solo puedo consultar el catálogo de la biblioteca; no está permitido crear, modificar ni eliminar registros."
)

// Pipeline outcomes recorded in metrics and logs.
const (
	OutcomeAnswered         = "answered"
	OutcomeNoResults        = "no_results"
	OutcomeRawFallback      = "raw_fallback"
	OutcomeRejected         = "rejected"
	OutcomeStoreUnavailable = "store_unavailable"
	OutcomeSQLStageFailed   = "sql_stage_failed"
	OutcomeSearchFailed     = "search_failed"
	OutcomeAnswerFailed     = "answer_failed"
)

const stageSQL = "sql"

// LibraryQueryService answers natural-language questions about the catalog.
type LibraryQueryService interface {
	// AnswerLibraryQuestion always returns a displayable reply.
	AnswerLibraryQuestion(ctx context.Context, question string) string
}

type libraryQueryService struct {
	schema      *SchemaDescriptor
	llm         llm.LLMClient
	extractor   *SQLExtractor
	guard       *QueryGuard
	executor    *QueryExecutor
	synthesizer *AnswerSynthesizer
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewLibraryQueryService wires the question pipeline.
func NewLibraryQueryService(
	schema *SchemaDescriptor,
	client llm.LLMClient,
	extractor *SQLExtractor,
	guard *QueryGuard,
	executor *QueryExecutor,
	synthesizer *AnswerSynthesizer,
	m *metrics.Metrics,
	logger *zap.Logger,
) LibraryQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &libraryQueryService{
		schema:      schema,
		llm:         client,
		extractor:   extractor,
		guard:       guard,
		executor:    executor,
		synthesizer: synthesizer,
		metrics:     m,
		logger:      logger.Named("library-query"),
	}
}

var _ LibraryQueryService = (*libraryQueryService)(nil)

func (s *libraryQueryService) AnswerLibraryQuestion(ctx context.Context, question string) string {
	requestID, ok := llm.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
		ctx = llm.WithRequestID(ctx, requestID)
	}
	logger := s.logger.With(zap.String("request_id", requestID))
	logger.Info("Answering library question", zap.String("question", logging.TruncateString(question, logging.MaxQueryLogLength)))

	reply, outcome := s.answer(ctx, logger, question)
	s.metrics.ObservePipelineOutcome(outcome)
	logger.Info("Library question answered", zap.String("outcome", outcome))
	return reply
}

func (s *libraryQueryService) answer(ctx context.Context, logger *zap.Logger, question string) (string, string) {
	schema, err := s.schema.Describe(ctx)
	if err != nil {
		logger.Error("Failed to read library schema", zap.String("error", logging.SanitizeError(err)))
		return FatalApologyReply, OutcomeStoreUnavailable
	}

	start := time.Now()
	raw, err := s.llm.Complete(ctx, prompts.BuildSQLGenerationPrompt(schema, question), llm.DefaultTemperature)
	s.metrics.ObserveLLMRequest(stageSQL, err, time.Since(start))
	if err != nil {
		logger.Error("SQL generation failed",
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.Error(err))
		return SQLStageApologyReply, OutcomeSQLStageFailed
	}

	candidate, found := s.extractor.Extract(raw)
	if !found {
		logger.Warn("No SQL in model reply, answering from raw text")
		return s.synthesizeRaw(ctx, logger, raw, question, false), OutcomeRawFallback
	}

	query, err := s.guard.Validate(candidate, schema)
	if err != nil {
		var guardErr *GuardError
		rejected := errors.As(err, &guardErr) && guardErr.Reason == GuardNotASelect
		answer := s.synthesizeRaw(ctx, logger, candidate.RawText, question, rejected)
		if rejected {
			if answer == AnswerStageApologyReply {
				answer = NotPermittedReply
			}
			return answer, OutcomeRejected
		}
		return answer, OutcomeRawFallback
	}

	result, err := s.executor.Execute(ctx, query)
	if err != nil {
		return SearchFailedReply, OutcomeSearchFailed
	}

	answer, err := s.synthesizer.Synthesize(ctx, result, question)
	if err != nil || answer == "" {
		logger.Error("Answer synthesis failed", zap.Error(err))
		return AnswerStageApologyReply, OutcomeAnswerFailed
	}
	if result.IsEmpty() {
		return answer, OutcomeNoResults
	}
	return answer, OutcomeAnswered
}

func (s *libraryQueryService) synthesizeRaw(ctx context.Context, logger *zap.Logger, raw, question string, rejected bool) string {
	answer, err := s.synthesizer.SynthesizeRaw(ctx, raw, question, rejected)
	if err != nil || answer == "" {
		logger.Error("Answer synthesis failed", zap.Bool("rejected", rejected), zap.Error(err))
		return AnswerStageApologyReply
	}
	return answer
}
