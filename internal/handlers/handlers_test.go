package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spacesedan/textpulse/internal/analysis"
	"github.com/spacesedan/textpulse/internal/db"
	"github.com/spacesedan/textpulse/internal/models"
	"github.com/spacesedan/textpulse/internal/reviews"
	"github.com/spacesedan/textpulse/internal/roles"
	"github.com/spacesedan/textpulse/internal/textanalysis"
)

var (
	_ PostStore             = &mockStore{}
	_ ReviewService         = &mockReviews{}
	_ AbstractiveSummarizer = &mockAbstractive{}
	_ TextReporter          = &analysis.Service{}
	_ RoleLister            = &roles.Catalog{}
	_ SummarizerStatus      = staticStatus(false)
)

type mockStore struct {
	posts     map[string]models.Post
	analytics models.PostAnalytics
	err       error
	created   []models.Post
}

func (m *mockStore) CreatePost(_ context.Context, post models.Post) (models.Post, error) {
	if m.err != nil {
		return models.Post{}, m.err
	}
	post.ID = fmt.Sprintf("post-%d", len(m.created)+1)
	post.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.created = append(m.created, post)
	return post, nil
}

func (m *mockStore) ListPosts(context.Context) ([]models.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Post
	for _, p := range m.posts {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockStore) GetPost(_ context.Context, id string) (models.Post, error) {
	if m.err != nil {
		return models.Post{}, m.err
	}
	p, ok := m.posts[id]
	if !ok {
		return models.Post{}, db.ErrNotFound
	}
	return p, nil
}

func (m *mockStore) ListPostsByAuthor(_ context.Context, author string) ([]models.Post, error) {
	var out []models.Post
	for _, p := range m.posts {
		if p.AuthorName == author {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockStore) PostAnalytics(context.Context, string) (models.PostAnalytics, error) {
	return m.analytics, nil
}

type mockReviews struct {
	submission  reviews.Submission
	list        []models.Review
	summary     string
	err         error
	lastFilter  models.SentimentLabel
	lastPostID  string
	submitCalls int
}

func (m *mockReviews) Submit(_ context.Context, postID, reviewerName, text string) (reviews.Submission, error) {
	m.submitCalls++
	m.lastPostID = postID
	if m.err != nil {
		return reviews.Submission{}, m.err
	}
	return m.submission, nil
}

func (m *mockReviews) List(_ context.Context, postID string, filter models.SentimentLabel) ([]models.Review, error) {
	m.lastPostID = postID
	m.lastFilter = filter
	return m.list, m.err
}

func (m *mockReviews) Summary(_ context.Context, postID string) (string, error) {
	m.lastPostID = postID
	return m.summary, m.err
}

type staticStatus bool

func (s staticStatus) Healthy() bool { return bool(s) }

type mockAbstractive struct {
	summary        string
	cached         bool
	err            error
	minLen, maxLen int
}

func (m *mockAbstractive) SummarizeCached(_ context.Context, _ string, minLen, maxLen int) (string, bool, error) {
	m.minLen, m.maxLen = minLen, maxLen
	return m.summary, m.cached, m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRouter(t *testing.T, store *mockStore, rv *mockReviews, abs *mockAbstractive, healthy bool) http.Handler {
	t.Helper()

	analyzer, err := textanalysis.Load()
	if err != nil {
		t.Fatalf("textanalysis.Load() error = %v", err)
	}
	catalog, err := roles.NewCatalog(analyzer)
	if err != nil {
		t.Fatalf("roles.NewCatalog() error = %v", err)
	}

	logger := testLogger()
	return NewRouter(
		NewAnalysisHandler(analysis.NewService(analyzer, catalog), catalog, abs, logger),
		NewPostsHandler(store, rv, logger),
		NewHealthHandler(staticStatus(healthy), logger),
		logger,
	)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}
