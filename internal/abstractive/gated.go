package abstractive

import (
	"context"
	"sync/atomic"
)

// Gated short-circuits to ErrUnavailable while the health flag is false.
type Gated struct {
	next    Summarizer
	healthy *atomic.Bool
}

func NewGated(next Summarizer, healthy *atomic.Bool) *Gated {
	return &Gated{next: next, healthy: healthy}
}

func (g *Gated) Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error) {
	if !g.healthy.Load() {
		return "", ErrUnavailable
	}
	return g.next.Summarize(ctx, text, minLen, maxLen)
}
