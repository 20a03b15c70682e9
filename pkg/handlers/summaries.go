package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/apperrors"
	"github.com/bagucv/bagbot-engine/pkg/services"
)

// SummaryRequest for POST /api/summaries
type SummaryRequest struct {
	Text string `json:"text"`
}

// SummaryResponse for POST /api/summaries
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// SummaryHandler serves document summaries.
type SummaryHandler struct {
	summary services.SummaryService
	logger  *zap.Logger
}

// NewSummaryHandler creates a summary handler. If logger is nil, a no-op logger is used.
func NewSummaryHandler(summary services.SummaryService, logger *zap.Logger) *SummaryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryHandler{summary: summary, logger: logger}
}

// RegisterRoutes registers the summary handler's routes on the given mux.
func (h *SummaryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/summaries", h.Create)
}

// Create handles POST /api/summaries
func (h *SummaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	summary, err := h.summary.Summarize(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmptyDocument) {
			writeError(w, h.logger, http.StatusUnprocessableEntity, "empty_document", "Document has no text to summarize")
			return
		}
		h.logger.Error("Summary failed", zap.Error(err))
		writeError(w, h.logger, http.StatusBadGateway, "summary_failed", services.SummaryApologyReply)
		return
	}

	writeSuccess(w, h.logger, SummaryResponse{Summary: summary})
}
