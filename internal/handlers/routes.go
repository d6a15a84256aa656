package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

func NewRouter(analysis *AnalysisHandler, posts *PostsHandler, health *HealthHandler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", health.HandleHealth)

	mux.HandleFunc("POST /api/analyze", analysis.HandleAnalyze)
	mux.HandleFunc("POST /api/summarize/abstractive", analysis.HandleAbstractive)
	mux.HandleFunc("GET /api/roles", analysis.HandleRoles)

	mux.HandleFunc("POST /api/posts", posts.HandleCreatePost)
	mux.HandleFunc("GET /api/posts", posts.HandleListPosts)
	mux.HandleFunc("GET /api/posts/{id}", posts.HandleGetPost)
	mux.HandleFunc("GET /api/authors/{name}/posts", posts.HandleAuthorPosts)
	mux.HandleFunc("POST /api/posts/{id}/reviews", posts.HandleCreateReview)
	mux.HandleFunc("GET /api/posts/{id}/reviews", posts.HandleListReviews)
	mux.HandleFunc("GET /api/posts/{id}/reviews/summary", posts.HandleReviewSummary)
	mux.HandleFunc("GET /api/posts/{id}/analytics", posts.HandleAnalytics)

	return logRequests(mux, logger)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Debug("[Handler] Request served",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)))
	})
}
