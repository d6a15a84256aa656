package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spacesedan/textpulse/internal/models"
)

// Fixed width so timestamps sort correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path with WAL mode and
// foreign keys enabled.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("[SQLite] failed to open %s: %w", path, err)
	}

	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("[SQLite] %s failed: %w", pragma, err)
		}
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("[SQLite] failed to create schema: %w", err)
	}

	slog.Info("[SQLite] Store ready", slog.String("path", path))
	return &SQLiteStore{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	author_name TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_name);

CREATE TABLE IF NOT EXISTS reviews (
	id TEXT PRIMARY KEY,
	post_id TEXT NOT NULL,
	reviewer_name TEXT NOT NULL,
	review_text TEXT NOT NULL,
	sentiment TEXT NOT NULL,
	sentiment_score REAL NOT NULL,
	model_label TEXT NOT NULL DEFAULT '',
	model_score REAL NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	FOREIGN KEY(post_id) REFERENCES posts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_reviews_post ON reviews(post_id, sentiment);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	stampPost(&post)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, author_name, created_at) VALUES (?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.Content, post.AuthorName, formatTime(post.CreatedAt))
	if err != nil {
		return models.Post{}, fmt.Errorf("[SQLite] failed to insert post: %w", err)
	}

	return post, nil
}

const postColumns = `
SELECT id, title, content, author_name, created_at,
	(SELECT COUNT(*) FROM reviews WHERE reviews.post_id = posts.id) AS review_count
FROM posts`

func (s *SQLiteStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.queryPosts(ctx, postColumns+` ORDER BY created_at DESC, id DESC`)
}

func (s *SQLiteStore) ListPostsByAuthor(ctx context.Context, author string) ([]models.Post, error) {
	return s.queryPosts(ctx, postColumns+` WHERE author_name = ? ORDER BY created_at DESC, id DESC`, author)
}

func (s *SQLiteStore) GetPost(ctx context.Context, id string) (models.Post, error) {
	posts, err := s.queryPosts(ctx, postColumns+` WHERE id = ?`, id)
	if err != nil {
		return models.Post{}, err
	}
	if len(posts) == 0 {
		return models.Post{}, fmt.Errorf("[SQLite] post %s: %w", id, ErrNotFound)
	}
	return posts[0], nil
}

func (s *SQLiteStore) queryPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("[SQLite] failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var (
			p       models.Post
			created string
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorName, &created, &p.ReviewCount); err != nil {
			return nil, fmt.Errorf("[SQLite] failed to scan post: %w", err)
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

func (s *SQLiteStore) CreateReview(ctx context.Context, review models.Review) (models.Review, error) {
	stampReview(&review)

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, review.PostID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, fmt.Errorf("[SQLite] post %s: %w", review.PostID, ErrNotFound)
	}
	if err != nil {
		return models.Review{}, fmt.Errorf("[SQLite] failed to look up post: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, insertReview, reviewArgs(review)...); err != nil {
		return models.Review{}, fmt.Errorf("[SQLite] failed to insert review: %w", err)
	}

	return review, nil
}

const insertReview = `
INSERT INTO reviews (id, post_id, reviewer_name, review_text, sentiment, sentiment_score, model_label, model_score, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING`

func reviewArgs(r models.Review) []any {
	return []any{
		r.ID, r.PostID, r.ReviewerName, r.ReviewText, string(r.Sentiment),
		r.SentimentScore, r.ModelLabel, r.ModelScore, formatTime(r.CreatedAt),
	}
}

// Rows for unknown posts are dropped rather than failing the whole batch.
const insertReviewIfPostExists = `
INSERT INTO reviews (id, post_id, reviewer_name, review_text, sentiment, sentiment_score, model_label, model_score, created_at)
SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?
WHERE EXISTS (SELECT 1 FROM posts WHERE id = ?)
ON CONFLICT(id) DO NOTHING`

func (s *SQLiteStore) CreateReviews(ctx context.Context, reviews []models.Review) error {
	if len(reviews) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("[SQLite] failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertReviewIfPostExists)
	if err != nil {
		return fmt.Errorf("[SQLite] failed to prepare review insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, r := range reviews {
		stampReview(&r)
		res, err := stmt.ExecContext(ctx, append(reviewArgs(r), r.PostID)...)
		if err != nil {
			return fmt.Errorf("[SQLite] failed to insert review %s: %w", r.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			written += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("[SQLite] failed to commit reviews: %w", err)
	}

	if skipped := len(reviews) - written; skipped > 0 {
		slog.Warn("[SQLite] Skipped duplicate or orphaned reviews",
			slog.Int("skipped", skipped))
	}

	slog.Debug("[SQLite] Stored review batch", slog.Int("count", written))
	return nil
}

func (s *SQLiteStore) ListReviews(ctx context.Context, postID string, filter models.SentimentLabel) ([]models.Review, error) {
	query := `
SELECT id, post_id, reviewer_name, review_text, sentiment, sentiment_score, model_label, model_score, created_at
FROM reviews WHERE post_id = ?`
	args := []any{postID}
	if filter != "" {
		query += ` AND sentiment = ?`
		args = append(args, string(filter))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("[SQLite] failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var (
			r         models.Review
			sentiment string
			created   string
		)
		if err := rows.Scan(&r.ID, &r.PostID, &r.ReviewerName, &r.ReviewText, &sentiment,
			&r.SentimentScore, &r.ModelLabel, &r.ModelScore, &created); err != nil {
			return nil, fmt.Errorf("[SQLite] failed to scan review: %w", err)
		}
		r.Sentiment = models.SentimentLabel(sentiment)
		if r.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}

	return reviews, rows.Err()
}

func (s *SQLiteStore) PostAnalytics(ctx context.Context, postID string) (models.PostAnalytics, error) {
	var (
		a   models.PostAnalytics
		avg sql.NullFloat64
	)

	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*),
	COALESCE(SUM(CASE WHEN sentiment = 'positive' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN sentiment = 'negative' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN sentiment = 'neutral' THEN 1 ELSE 0 END), 0),
	AVG(sentiment_score)
FROM reviews WHERE post_id = ?`, postID).
		Scan(&a.TotalReviews, &a.PositiveCount, &a.NegativeCount, &a.NeutralCount, &avg)
	if err != nil {
		return models.PostAnalytics{}, fmt.Errorf("[SQLite] failed to compute analytics: %w", err)
	}

	a.AverageSentimentScore = avg.Float64
	return a, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("[SQLite] bad timestamp %q: %w", s, err)
	}
	return t, nil
}
