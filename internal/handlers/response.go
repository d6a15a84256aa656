package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spacesedan/textpulse/internal/abstractive"
	"github.com/spacesedan/textpulse/internal/analysis"
	"github.com/spacesedan/textpulse/internal/db"
	"github.com/spacesedan/textpulse/internal/reviews"
)

const MAX_BODY_BYTES = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func sendResponse(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	respBytes, err := json.Marshal(body)
	if err != nil {
		logger.Error("[Handler] Failed to marshal response", slog.String("error", err.Error()))
		sendError(w, logger, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(respBytes); err != nil {
		logger.Error("[Handler] Failed to write response", slog.String("error", err.Error()))
	}
}

func sendError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	respBytes, err := json.Marshal(errorResponse{Error: message})
	if err != nil {
		logger.Error("[Handler] Failed to marshal error response", slog.String("error", err.Error()))
		http.Error(w, message, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(respBytes); err != nil {
		logger.Error("[Handler] Failed to write error response", slog.String("error", err.Error()))
	}
}

// decodeJSON reads a single JSON object from the request body. Unknown
// fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MAX_BODY_BYTES)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// sendServiceError maps domain errors to a status code. Unexpected errors
// are logged and hidden from the client.
func sendServiceError(w http.ResponseWriter, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		sendError(w, logger, http.StatusNotFound, "post not found")
	case errors.Is(err, reviews.ErrInvalidReview),
		errors.Is(err, abstractive.ErrInvalidLength),
		errors.Is(err, analysis.ErrEmptyText),
		errors.Is(err, analysis.ErrNegativeLimit):
		sendError(w, logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, abstractive.ErrUnavailable):
		sendError(w, logger, http.StatusServiceUnavailable, "abstractive summarization is unavailable")
	default:
		logger.Error("[Handler] Request failed",
			slog.String("action", action),
			slog.String("error", err.Error()))
		sendError(w, logger, http.StatusInternalServerError, "failed to "+action)
	}
}
