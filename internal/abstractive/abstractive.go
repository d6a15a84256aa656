// Package abstractive generates model-written summaries through a remote
// inference backend. Without a configured (and healthy) backend every call
// fails with ErrUnavailable, which callers can tell apart from an empty summary.
package abstractive

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnavailable   = errors.New("abstractive summarization unavailable")
	ErrInvalidLength = errors.New("invalid summary length")
)

type Summarizer interface {
	Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error)
}

// Unavailable is the backend used when none is configured.
type Unavailable struct{}

func (Unavailable) Summarize(context.Context, string, int, int) (string, error) {
	return "", ErrUnavailable
}

func validate(text string, minLen, maxLen int) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidLength)
	}
	if maxLen <= 0 || minLen < 0 || minLen > maxLen {
		return fmt.Errorf("%w: min %d, max %d", ErrInvalidLength, minLen, maxLen)
	}
	return nil
}
