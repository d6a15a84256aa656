package models

import "time"

type Post struct {
	ID          string    `json:"id" dynamodbav:"id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Content     string    `json:"content" dynamodbav:"content"`
	ContentHTML string    `json:"content_html,omitempty" dynamodbav:"-"`
	AuthorName  string    `json:"author_name" dynamodbav:"author_name"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	ReviewCount int       `json:"review_count" dynamodbav:"-"`
}

type Review struct {
	ID             string         `json:"id" dynamodbav:"id"`
	PostID         string         `json:"post_id" dynamodbav:"post_id"`
	ReviewerName   string         `json:"reviewer_name" dynamodbav:"reviewer_name"`
	ReviewText     string         `json:"review_text" dynamodbav:"review_text"`
	Sentiment      SentimentLabel `json:"sentiment" dynamodbav:"sentiment"`
	SentimentScore float64        `json:"sentiment_score" dynamodbav:"sentiment_score"`
	// Set only when the review consumer cross-checked the text with a local model.
	ModelLabel string    `json:"model_label,omitempty" dynamodbav:"model_label,omitempty"`
	ModelScore float64   `json:"model_score,omitempty" dynamodbav:"model_score,omitempty"`
	CreatedAt  time.Time `json:"created_at" dynamodbav:"created_at"`
}

// ReviewRequest is a review that has been accepted but not yet scored.
// It is the payload of the review-requests topic.
type ReviewRequest struct {
	ReviewID     string    `json:"review_id"`
	PostID       string    `json:"post_id"`
	ReviewerName string    `json:"reviewer_name"`
	ReviewText   string    `json:"review_text"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type PostAnalytics struct {
	TotalReviews          int     `json:"total_reviews"`
	PositiveCount         int     `json:"positive_count"`
	NegativeCount         int     `json:"negative_count"`
	NeutralCount          int     `json:"neutral_count"`
	AverageSentimentScore float64 `json:"average_sentiment_score"`
}

// Add folds one review into the running analytics.
func (a *PostAnalytics) Add(label SentimentLabel, score float64) {
	total := a.AverageSentimentScore * float64(a.TotalReviews)
	a.TotalReviews++
	switch label {
	case SentimentPositive:
		a.PositiveCount++
	case SentimentNegative:
		a.NegativeCount++
	default:
		a.NeutralCount++
	}
	a.AverageSentimentScore = (total + score) / float64(a.TotalReviews)
}
