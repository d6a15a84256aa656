package abstractive

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/spacesedan/textpulse/config"
	"github.com/spacesedan/textpulse/internal/clients"
	"github.com/spacesedan/textpulse/internal/monitoring"
)

// Service is the configured chain: optional cache in front of an optional
// health gate in front of the backend. Cache hits are served even while the
// backend is unhealthy.
type Service struct {
	Backend string
	chain   Summarizer
	cached  *Cached
	healthy *atomic.Bool
}

func NewService(backend Summarizer, name string) *Service {
	return &Service{Backend: name, chain: backend}
}

// WithCache puts cache in front of the chain.
func (s *Service) WithCache(cache Cache, cfg config.ValkeyConfig) *Service {
	s.cached = NewCached(s.chain, cache, cfg.CacheTTL, s.Backend)
	s.chain = s.cached
	return s
}

// Healthy reports whether a backend is configured and, when it is monitored,
// whether the last probe succeeded.
func (s *Service) Healthy() bool {
	if s.Backend == config.ABSTRACTIVE_BACKEND_NONE {
		return false
	}
	return s.healthy == nil || s.healthy.Load()
}

func (s *Service) Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error) {
	return s.chain.Summarize(ctx, text, minLen, maxLen)
}

func (s *Service) SummarizeCached(ctx context.Context, text string, minLen, maxLen int) (string, bool, error) {
	if s.cached != nil {
		return s.cached.SummarizeCached(ctx, text, minLen, maxLen)
	}
	summary, err := s.chain.Summarize(ctx, text, minLen, maxLen)
	return summary, false, err
}

// New builds the service from config and starts the backend health monitor.
// The returned func releases the cache connection.
func New(ctx context.Context, cfg *config.AppConfig) (*Service, func()) {
	var (
		backend Summarizer
		healthy *atomic.Bool
		name    = cfg.Abstractive.Backend
	)

	switch name {
	case config.ABSTRACTIVE_BACKEND_HUGGINGFACE:
		hf := clients.GetHuggingFaceClient(cfg.Abstractive.HuggingFace)
		healthy = &atomic.Bool{}
		healthy.Store(true)
		go monitoring.MonitorSummarizerHealth(ctx, hf, healthy, monitoring.HEALTHCHECK_INTERVAL)
		backend = NewGated(NewHuggingFace(hf), healthy)
	case config.ABSTRACTIVE_BACKEND_OPENAI:
		ai := clients.GetAIClient(cfg.Abstractive.OpenAI.APIKey)
		backend = NewOpenAI(ai.Client, cfg.Abstractive.OpenAI.Model)
	default:
		slog.Info("[Abstractive] No backend configured, abstractive summaries are disabled")
		return NewService(Unavailable{}, config.ABSTRACTIVE_BACKEND_NONE), func() {}
	}

	svc := NewService(backend, name)
	svc.healthy = healthy
	cleanup := func() {}

	if cfg.Valkey.Address != "" {
		vc, err := clients.NewValkeyClient(cfg.Valkey)
		if err != nil {
			slog.Warn("[Abstractive] Summary cache disabled", slog.String("error", err.Error()))
		} else {
			svc.WithCache(vc, cfg.Valkey)
			cleanup = vc.Close
		}
	}

	slog.Info("[Abstractive] Summarizer ready",
		slog.String("backend", name),
		slog.Bool("cache", svc.cached != nil))
	return svc, cleanup
}
