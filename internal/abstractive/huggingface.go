package abstractive

import (
	"context"
	"fmt"

	"github.com/spacesedan/textpulse/internal/models"
)

type summaryClient interface {
	GetSummary(ctx context.Context, input models.SummaryRequest) (string, error)
}

// HuggingFace summarizes through an inference endpoint hosting a
// BART-style summarization model.
type HuggingFace struct {
	client summaryClient
}

func NewHuggingFace(client summaryClient) *HuggingFace {
	return &HuggingFace{client: client}
}

func (h *HuggingFace) Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error) {
	if err := validate(text, minLen, maxLen); err != nil {
		return "", err
	}

	summary, err := h.client.GetSummary(ctx, models.SummaryRequest{
		Inputs: text,
		Parameters: models.SummaryParameters{
			MinLength: minLen,
			MaxLength: maxLen,
			DoSample:  false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("[Abstractive] huggingface: %w", err)
	}
	return summary, nil
}
