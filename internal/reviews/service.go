// Package reviews accepts reviews for posts. Reviews are scored with the
// lexicon analyzer and stored right away, or queued for the review consumer
// when a publisher is configured.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spacesedan/textpulse/internal/db"
	"github.com/spacesedan/textpulse/internal/models"
)

const REVIEW_SUMMARY_WORDS = 100

var ErrInvalidReview = errors.New("invalid review")

type TextAnalyzer interface {
	Analyze(text string) models.SentimentResult
	Summarize(text string, maxWords int) string
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// Store is the part of db.Store the service needs.
type Store interface {
	GetPost(ctx context.Context, id string) (models.Post, error)
	CreateReview(ctx context.Context, review models.Review) (models.Review, error)
	ListReviews(ctx context.Context, postID string, filter models.SentimentLabel) ([]models.Review, error)
}

type Submission struct {
	Review models.Review `json:"review"`
	// Queued reviews are stored by the review consumer, so they do not show
	// up in listings immediately.
	Queued bool `json:"queued"`
}

type Service struct {
	store     Store
	analyzer  TextAnalyzer
	publisher Publisher
	topic     string
}

// NewService returns a service that stores reviews synchronously. Use
// WithPublisher to queue them instead.
func NewService(store Store, analyzer TextAnalyzer) *Service {
	return &Service{store: store, analyzer: analyzer}
}

func (s *Service) WithPublisher(publisher Publisher, topic string) *Service {
	s.publisher = publisher
	s.topic = topic
	return s
}

// Submit validates and scores a review. The post must exist.
func (s *Service) Submit(ctx context.Context, postID, reviewerName, text string) (Submission, error) {
	reviewerName = strings.TrimSpace(reviewerName)
	if reviewerName == "" {
		return Submission{}, fmt.Errorf("%w: reviewer name is required", ErrInvalidReview)
	}
	if strings.TrimSpace(text) == "" {
		return Submission{}, fmt.Errorf("%w: review text is required", ErrInvalidReview)
	}

	sentiment := s.analyzer.Analyze(text)
	review := models.Review{
		PostID:         postID,
		ReviewerName:   reviewerName,
		ReviewText:     text,
		Sentiment:      sentiment.Label,
		SentimentScore: sentiment.Compound,
	}

	if s.publisher == nil {
		stored, err := s.store.CreateReview(ctx, review)
		if err != nil {
			return Submission{}, fmt.Errorf("[Reviews] failed to store review: %w", err)
		}
		slog.Info("[Reviews] Review stored",
			slog.String("post_id", postID),
			slog.String("sentiment", string(stored.Sentiment)))
		return Submission{Review: stored}, nil
	}

	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return Submission{}, err
	}

	review.ID = db.NewID()
	req := models.ReviewRequest{
		ReviewID:     review.ID,
		PostID:       postID,
		ReviewerName: reviewerName,
		ReviewText:   text,
	}
	req.SubmittedAt = nowUTC()
	review.CreatedAt = req.SubmittedAt

	if err := s.publisher.Publish(ctx, s.topic, postID, req); err != nil {
		return Submission{}, fmt.Errorf("[Reviews] failed to queue review: %w", err)
	}

	slog.Info("[Reviews] Review queued",
		slog.String("post_id", postID),
		slog.String("review_id", review.ID))
	return Submission{Review: review, Queued: true}, nil
}

func (s *Service) List(ctx context.Context, postID string, filter models.SentimentLabel) ([]models.Review, error) {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.ListReviews(ctx, postID, filter)
}

// Summary is an extractive summary over every review of the post, joined in
// listing order.
func (s *Service) Summary(ctx context.Context, postID string) (string, error) {
	reviews, err := s.List(ctx, postID, "")
	if err != nil {
		return "", err
	}

	texts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		texts = append(texts, r.ReviewText)
	}

	combined := strings.Join(texts, " ")
	if strings.TrimSpace(combined) == "" {
		return "", nil
	}
	return s.analyzer.Summarize(combined, REVIEW_SUMMARY_WORDS), nil
}
