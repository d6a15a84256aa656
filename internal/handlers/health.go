package handlers

import (
	"log/slog"
	"net/http"
)

type SummarizerStatus interface {
	Healthy() bool
}

type healthResponse struct {
	Status      string `json:"status"`
	Abstractive bool   `json:"abstractive"`
}

type HealthHandler struct {
	abstractive SummarizerStatus
	logger      *slog.Logger
}

func NewHealthHandler(abstractive SummarizerStatus, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{abstractive: abstractive, logger: logger}
}

// HandleHealth always answers 200 while the process serves. The abstractive
// flag is informational.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	sendResponse(w, h.logger, http.StatusOK, healthResponse{
		Status:      "ok",
		Abstractive: h.abstractive.Healthy(),
	})
}
