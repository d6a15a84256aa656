package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spacesedan/textpulse/internal/models"
	"github.com/spacesedan/textpulse/internal/roles"
)

type TextReporter interface {
	Run(req models.AnalysisRequest) (models.AnalysisResult, error)
}

type RoleLister interface {
	Roles() []roles.Role
}

type AbstractiveSummarizer interface {
	SummarizeCached(ctx context.Context, text string, minLen, maxLen int) (string, bool, error)
}

type AnalysisHandler struct {
	reporter    TextReporter
	roles       RoleLister
	abstractive AbstractiveSummarizer
	logger      *slog.Logger
}

func NewAnalysisHandler(reporter TextReporter, catalog RoleLister, summarizer AbstractiveSummarizer, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		reporter:    reporter,
		roles:       catalog,
		abstractive: summarizer,
		logger:      logger,
	}
}

// HandleAnalyze runs the full lexicon pipeline over the submitted text.
func (h *AnalysisHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.reporter.Run(req)
	if err != nil {
		sendServiceError(w, h.logger, err, "analyze text")
		return
	}

	h.logger.Info("[Handler] Text analyzed",
		slog.Int("words", result.Stats.Words),
		slog.Int("tokens", result.TotalTokens),
		slog.String("sentiment", string(result.Sentiment.Label)))

	sendResponse(w, h.logger, http.StatusOK, result)
}

// HandleAbstractive asks the configured backend for a model-written summary.
// Explicit bounds win over the summary_type preset.
func (h *AnalysisHandler) HandleAbstractive(w http.ResponseWriter, r *http.Request) {
	var req models.AbstractiveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		sendError(w, h.logger, http.StatusBadRequest, "text is required")
		return
	}

	minLen, maxLen := req.MinLength, req.MaxLength
	if maxLen == 0 {
		lengths := req.SummaryType.Lengths()
		minLen, maxLen = lengths.AbstractMin, lengths.AbstractMax
	}

	summary, cached, err := h.abstractive.SummarizeCached(r.Context(), req.Text, minLen, maxLen)
	if err != nil {
		sendServiceError(w, h.logger, err, "summarize text")
		return
	}

	sendResponse(w, h.logger, http.StatusOK, models.AbstractiveResponse{Summary: summary, Cached: cached})
}

func (h *AnalysisHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	sendResponse(w, h.logger, http.StatusOK, h.roles.Roles())
}
