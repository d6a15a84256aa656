package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/spacesedan/textpulse/config"
	"github.com/spacesedan/textpulse/internal/clients"
	"github.com/spacesedan/textpulse/internal/models"
)

var ErrNotFound = errors.New("not found")

// Store persists posts and their reviews. Listings are newest first.
type Store interface {
	// CreatePost assigns an ID and creation time when they are unset.
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (models.Post, error)
	ListPostsByAuthor(ctx context.Context, author string) ([]models.Post, error)

	// CreateReview fails with ErrNotFound when the post does not exist.
	CreateReview(ctx context.Context, review models.Review) (models.Review, error)
	// CreateReviews writes a batch. Reviews whose ID already exists or whose
	// post does not exist are skipped, so redelivered queue messages neither
	// duplicate nor overwrite rows.
	CreateReviews(ctx context.Context, reviews []models.Review) error
	// ListReviews returns every review of a post, or only those with the given
	// label when filter is not empty.
	ListReviews(ctx context.Context, postID string, filter models.SentimentLabel) ([]models.Review, error)
	// PostAnalytics is the zero value for a post without reviews.
	PostAnalytics(ctx context.Context, postID string) (models.PostAnalytics, error)

	Close() error
}

// NewStore opens the backend selected by cfg.Backend.
func NewStore(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.STORE_BACKEND_SQLITE:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case config.STORE_BACKEND_DYNAMODB:
		client := clients.GetDynamoDBClient(cfg.AWSRegion, cfg.AWSEndpoint)
		return NewDynamoStore(client, cfg.PostsTable, cfg.ReviewsTable), nil
	default:
		return nil, fmt.Errorf("[Store] unknown backend %q", cfg.Backend)
	}
}

func stampPost(p *models.Post) {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
}

func stampReview(r *models.Review) {
	if r.ID == "" {
		r.ID = NewID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now()
	}
}
