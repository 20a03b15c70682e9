package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/apperrors"
	"github.com/bagucv/bagbot-engine/pkg/llm"
	"github.com/bagucv/bagbot-engine/pkg/metrics"
	"github.com/bagucv/bagbot-engine/pkg/models"
	"github.com/bagucv/bagbot-engine/pkg/prompts"
)

// ChatApologyReply replaces a free-form reply the model failed to produce.
const ChatApologyReply = "Error al generar respuesta de IA."

const stageChat = "chat"

// ChatService answers one chat message according to the active mode.
type ChatService interface {
	// Reply returns the user turn followed by the assistant turn. Errors are
	// limited to invalid input; model failures become apology replies.
	Reply(ctx context.Context, mode models.ChatMode, message string) ([]models.ConversationTurn, error)
}

type chatService struct {
	library LibraryQueryService
	summary SummaryService
	llm     llm.LLMClient
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewChatService creates the mode dispatcher.
func NewChatService(library LibraryQueryService, summary SummaryService, client llm.LLMClient, m *metrics.Metrics, logger *zap.Logger) ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &chatService{
		library: library,
		summary: summary,
		llm:     client,
		metrics: m,
		logger:  logger.Named("chat"),
	}
}

var _ ChatService = (*chatService)(nil)

func (s *chatService) Reply(ctx context.Context, mode models.ChatMode, message string) ([]models.ConversationTurn, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidChatMode, mode)
	}
	message = strings.TrimSpace(message)
	if message == "" && mode != models.ChatModePDFSummary {
		return nil, ErrEmptyMessage
	}

	var reply string
	switch mode {
	case models.ChatModeResourceSearch:
		reply = s.library.AnswerLibraryQuestion(ctx, message)
	case models.ChatModePDFSummary:
		summary, err := s.summary.Summarize(ctx, message)
		if errors.Is(err, apperrors.ErrEmptyDocument) {
			return nil, err
		}
		if err != nil {
			reply = SummaryApologyReply
		} else {
			reply = summary
		}
	default:
		reply = s.freeForm(ctx, mode, message)
	}

	return []models.ConversationTurn{
		{Role: models.RoleUser, Text: message},
		{Role: models.RoleAssistant, Text: reply},
	}, nil
}

func (s *chatService) freeForm(ctx context.Context, mode models.ChatMode, message string) string {
	start := time.Now()
	reply, err := s.llm.Complete(ctx, prompts.BuildChatPrompt(mode, message), llm.DefaultTemperature)
	s.metrics.ObserveLLMRequest(stageChat, err, time.Since(start))
	if err != nil {
		s.logger.Error("Chat completion failed",
			zap.String("mode", string(mode)),
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.Error(err))
		return ChatApologyReply
	}
	if reply = strings.TrimSpace(reply); reply == "" {
		return ChatApologyReply
	}
	return reply
}
