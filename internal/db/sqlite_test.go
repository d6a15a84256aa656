package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spacesedan/textpulse/internal/models"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSchemaCreationIdempotent(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	for i := 0; i < 3; i++ {
		if err := initSchema(ctx, st.db); err != nil {
			t.Fatalf("initSchema iteration %d: %v", i, err)
		}
	}

	var count int
	err := st.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&count)
	if err != nil {
		t.Fatalf("Count tables: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 tables, got %d", count)
	}
}

func TestSQLiteStore_Posts(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	first, err := st.CreatePost(ctx, models.Post{Title: "First", Content: "one", AuthorName: "ana"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("CreatePost did not stamp id/created_at: %+v", first)
	}

	second, err := st.CreatePost(ctx, models.Post{Title: "Second", Content: "two", AuthorName: "ben"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	third, err := st.CreatePost(ctx, models.Post{Title: "Third", Content: "three", AuthorName: "ana"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	all, err := st.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	wantOrder := []string{third.ID, second.ID, first.ID}
	if len(all) != len(wantOrder) {
		t.Fatalf("ListPosts len = %d, want %d", len(all), len(wantOrder))
	}
	for i, id := range wantOrder {
		if all[i].ID != id {
			t.Errorf("ListPosts[%d] = %s, want %s", i, all[i].ID, id)
		}
	}

	byAna, err := st.ListPostsByAuthor(ctx, "ana")
	if err != nil {
		t.Fatalf("ListPostsByAuthor: %v", err)
	}
	if len(byAna) != 2 || byAna[0].ID != third.ID || byAna[1].ID != first.ID {
		t.Errorf("ListPostsByAuthor(ana) = %+v", byAna)
	}

	none, err := st.ListPostsByAuthor(ctx, "nobody")
	if err != nil {
		t.Fatalf("ListPostsByAuthor: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("ListPostsByAuthor(nobody) = %#v, want empty slice", none)
	}

	got, err := st.GetPost(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.Title != "Second" || got.AuthorName != "ben" || !got.CreatedAt.Equal(second.CreatedAt) {
		t.Errorf("GetPost = %+v, want %+v", got, second)
	}

	if _, err := st.GetPost(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_ReviewsAndAnalytics(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	post, err := st.CreatePost(ctx, models.Post{Title: "T", Content: "C", AuthorName: "a"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	empty, err := st.PostAnalytics(ctx, post.ID)
	if err != nil {
		t.Fatalf("PostAnalytics: %v", err)
	}
	if empty != (models.PostAnalytics{}) {
		t.Errorf("PostAnalytics without reviews = %+v, want zero value", empty)
	}

	inputs := []models.Review{
		{PostID: post.ID, ReviewerName: "r1", ReviewText: "great", Sentiment: models.SentimentPositive, SentimentScore: 0.6},
		{PostID: post.ID, ReviewerName: "r2", ReviewText: "bad", Sentiment: models.SentimentNegative, SentimentScore: -0.4},
		{PostID: post.ID, ReviewerName: "r3", ReviewText: "fine", Sentiment: models.SentimentPositive, SentimentScore: 0.4},
		{PostID: post.ID, ReviewerName: "r4", ReviewText: "ok", Sentiment: models.SentimentNeutral, SentimentScore: 0},
	}
	var created []models.Review
	for _, in := range inputs {
		r, err := st.CreateReview(ctx, in)
		if err != nil {
			t.Fatalf("CreateReview: %v", err)
		}
		created = append(created, r)
	}

	reviews, err := st.ListReviews(ctx, post.ID, "")
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(reviews) != 4 || reviews[0].ID != created[3].ID {
		t.Errorf("ListReviews = %+v, want 4 reviews newest first", reviews)
	}

	positive, err := st.ListReviews(ctx, post.ID, models.SentimentPositive)
	if err != nil {
		t.Fatalf("ListReviews(positive): %v", err)
	}
	if len(positive) != 2 {
		t.Fatalf("ListReviews(positive) len = %d, want 2", len(positive))
	}
	for _, r := range positive {
		if r.Sentiment != models.SentimentPositive {
			t.Errorf("filtered review has sentiment %q", r.Sentiment)
		}
	}

	a, err := st.PostAnalytics(ctx, post.ID)
	if err != nil {
		t.Fatalf("PostAnalytics: %v", err)
	}
	if a.TotalReviews != 4 || a.PositiveCount != 2 || a.NegativeCount != 1 || a.NeutralCount != 1 {
		t.Errorf("PostAnalytics counts = %+v", a)
	}
	if diff := a.AverageSentimentScore - 0.15; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("AverageSentimentScore = %v, want 0.15", a.AverageSentimentScore)
	}

	got, err := st.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.ReviewCount != 4 {
		t.Errorf("ReviewCount = %d, want 4", got.ReviewCount)
	}
}

func TestSQLiteStore_CreateReview_UnknownPost(t *testing.T) {
	st := openTestStore(t)

	_, err := st.CreateReview(context.Background(), models.Review{PostID: "missing", ReviewText: "x", Sentiment: models.SentimentNeutral})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("CreateReview error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_CreateReviews_Batch(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	post, err := st.CreatePost(ctx, models.Post{Title: "T", Content: "C", AuthorName: "a"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	batch := []models.Review{
		{ID: "r-1", PostID: post.ID, ReviewText: "good", Sentiment: models.SentimentPositive, SentimentScore: 0.5, ModelLabel: "POSITIVE", ModelScore: 0.9, CreatedAt: at},
		{ID: "r-2", PostID: post.ID, ReviewText: "meh", Sentiment: models.SentimentNeutral, CreatedAt: at.Add(time.Second)},
		{ID: "r-3", PostID: "missing", ReviewText: "orphan", Sentiment: models.SentimentNeutral},
	}

	if err := st.CreateReviews(ctx, batch); err != nil {
		t.Fatalf("CreateReviews: %v", err)
	}
	// Redelivery of the same batch must not duplicate rows.
	if err := st.CreateReviews(ctx, batch); err != nil {
		t.Fatalf("CreateReviews (redelivery): %v", err)
	}

	reviews, err := st.ListReviews(ctx, post.ID, "")
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("ListReviews len = %d, want 2", len(reviews))
	}
	if reviews[0].ID != "r-2" || reviews[1].ID != "r-1" {
		t.Errorf("ListReviews order = %s, %s", reviews[0].ID, reviews[1].ID)
	}
	if reviews[1].ModelLabel != "POSITIVE" || reviews[1].ModelScore != 0.9 {
		t.Errorf("model fields not persisted: %+v", reviews[1])
	}
	if !reviews[1].CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", reviews[1].CreatedAt, at)
	}

	if err := st.CreateReviews(ctx, nil); err != nil {
		t.Errorf("CreateReviews(nil) error = %v", err)
	}
}

func TestNewID_Sortable(t *testing.T) {
	prev := NewID()
	for i := 0; i < 100; i++ {
		id := NewID()
		if id <= prev {
			t.Fatalf("NewID() = %s, not greater than %s", id, prev)
		}
		prev = id
	}
}
