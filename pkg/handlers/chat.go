package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/apperrors"
	"github.com/bagucv/bagbot-engine/pkg/models"
	"github.com/bagucv/bagbot-engine/pkg/services"
	"github.com/bagucv/bagbot-engine/pkg/session"
)

// ChatModeInfo describes one selectable mode.
type ChatModeInfo struct {
	ID    models.ChatMode `json:"id"`
	Label string          `json:"label"`
}

// ChatModesResponse for GET /api/chat/modes
type ChatModesResponse struct {
	Modes    []ChatModeInfo  `json:"modes"`
	Current  models.ChatMode `json:"current,omitempty"`
	Greeting string          `json:"greeting"`
}

// SelectModeRequest for POST /api/chat/mode. Mode may be the identifier or
// the display label.
type SelectModeRequest struct {
	Mode string `json:"mode"`
}

// SelectModeResponse for POST /api/chat/mode
type SelectModeResponse struct {
	Mode         models.ChatMode `json:"mode"`
	Introduction string          `json:"introduction"`
}

// ChatRequest for POST /api/chat. Without a mode the session's mode is used.
type ChatRequest struct {
	Message string `json:"message"`
	Mode    string `json:"mode,omitempty"`
	Name    string `json:"name,omitempty"`
}

// ChatResponse for POST /api/chat. Greeting is set on the first reply of a
// session only.
type ChatResponse struct {
	Mode     models.ChatMode           `json:"mode"`
	Turns    []models.ConversationTurn `json:"turns"`
	Greeting string                    `json:"greeting,omitempty"`
}

// ChatHandler serves the chat endpoints.
type ChatHandler struct {
	chat     services.ChatService
	sessions *session.Store
	logger   *zap.Logger
}

// NewChatHandler creates a chat handler. If logger is nil, a no-op logger is used.
func NewChatHandler(chat services.ChatService, sessions *session.Store, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{chat: chat, sessions: sessions, logger: logger}
}

// RegisterRoutes registers the chat handler's routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/chat/modes", h.ListModes)
	mux.HandleFunc("POST /api/chat/mode", h.SelectMode)
	mux.HandleFunc("POST /api/chat", h.Send)
}

// ListModes handles GET /api/chat/modes. The optional name query parameter
// personalizes the greeting.
func (h *ChatHandler) ListModes(w http.ResponseWriter, r *http.Request) {
	modes := make([]ChatModeInfo, len(models.ChatModes))
	for i, m := range models.ChatModes {
		modes[i] = ChatModeInfo{ID: m, Label: m.Label()}
	}

	writeSuccess(w, h.logger, ChatModesResponse{
		Modes:    modes,
		Current:  h.sessions.Load(r).Mode,
		Greeting: models.Greeting(r.URL.Query().Get("name")),
	})
}

// SelectMode handles POST /api/chat/mode
func (h *ChatHandler) SelectMode(w http.ResponseWriter, r *http.Request) {
	var req SelectModeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	mode, err := models.ParseChatMode(req.Mode)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_chat_mode", err.Error())
		return
	}

	st := h.sessions.Load(r)
	st.Mode = mode
	if err := h.sessions.Save(w, r, st); err != nil {
		h.logger.Error("Failed to save chat session", zap.Error(err))
		writeError(w, h.logger, http.StatusInternalServerError, "session_error", "Failed to save session")
		return
	}

	writeSuccess(w, h.logger, SelectModeResponse{Mode: mode, Introduction: mode.Introduction()})
}

// Send handles POST /api/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	st := h.sessions.Load(r)
	mode := st.Mode
	if strings.TrimSpace(req.Mode) != "" {
		parsed, err := models.ParseChatMode(req.Mode)
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "invalid_chat_mode", err.Error())
			return
		}
		mode = parsed
	}
	if mode == "" {
		mode = models.ChatModeFreeQuery
	}

	turns, err := h.chat.Reply(r.Context(), mode, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidChatMode):
			writeError(w, h.logger, http.StatusBadRequest, "invalid_chat_mode", err.Error())
		case errors.Is(err, services.ErrEmptyMessage):
			writeError(w, h.logger, http.StatusBadRequest, "empty_message", "Message is required")
		case errors.Is(err, apperrors.ErrEmptyDocument):
			writeError(w, h.logger, http.StatusUnprocessableEntity, "empty_document", "Document has no text to summarize")
		default:
			h.logger.Error("Chat reply failed", zap.String("mode", string(mode)), zap.Error(err))
			writeError(w, h.logger, http.StatusInternalServerError, "chat_failed", "Failed to answer message")
		}
		return
	}

	resp := ChatResponse{Mode: mode, Turns: turns}
	if !st.Greeted {
		resp.Greeting = models.Greeting(req.Name)
	}
	if !st.Greeted || st.Mode != mode {
		st.Greeted = true
		st.Mode = mode
		if err := h.sessions.Save(w, r, st); err != nil {
			h.logger.Warn("Failed to save chat session", zap.Error(err))
		}
	}

	writeSuccess(w, h.logger, resp)
}
