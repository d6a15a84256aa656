package abstractive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strconv"
	"time"
)

const CACHE_KEY_PREFIX = "textpulse:summary:"

type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Cached serves repeated requests from a cache. Cache failures are logged
// and fall through to the backend.
type Cached struct {
	next    Summarizer
	cache   Cache
	ttl     time.Duration
	backend string
}

func NewCached(next Summarizer, cache Cache, ttl time.Duration, backend string) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttl, backend: backend}
}

func (c *Cached) Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error) {
	summary, _, err := c.SummarizeCached(ctx, text, minLen, maxLen)
	return summary, err
}

// SummarizeCached also reports whether the summary came from the cache.
func (c *Cached) SummarizeCached(ctx context.Context, text string, minLen, maxLen int) (string, bool, error) {
	key := cacheKey(c.backend, text, minLen, maxLen)

	if summary, ok, err := c.cache.Get(ctx, key); err != nil {
		slog.Warn("[Abstractive] Cache read failed", slog.String("error", err.Error()))
	} else if ok {
		slog.Debug("[Abstractive] Cache hit", slog.String("key", key))
		return summary, true, nil
	}

	summary, err := c.next.Summarize(ctx, text, minLen, maxLen)
	if err != nil {
		return "", false, err
	}

	if summary != "" {
		if err := c.cache.Set(ctx, key, summary, c.ttl); err != nil {
			slog.Warn("[Abstractive] Cache write failed", slog.String("error", err.Error()))
		}
	}
	return summary, false, nil
}

func cacheKey(backend, text string, minLen, maxLen int) string {
	h := sha256.New()
	h.Write([]byte(backend))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(minLen) + ":" + strconv.Itoa(maxLen)))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return CACHE_KEY_PREFIX + hex.EncodeToString(h.Sum(nil))
}
