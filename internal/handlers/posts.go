package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spacesedan/textpulse/internal/markdown"
	"github.com/spacesedan/textpulse/internal/models"
	"github.com/spacesedan/textpulse/internal/reviews"
)

type PostStore interface {
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (models.Post, error)
	ListPostsByAuthor(ctx context.Context, author string) ([]models.Post, error)
	PostAnalytics(ctx context.Context, postID string) (models.PostAnalytics, error)
}

type ReviewService interface {
	Submit(ctx context.Context, postID, reviewerName, text string) (reviews.Submission, error)
	List(ctx context.Context, postID string, filter models.SentimentLabel) ([]models.Review, error)
	Summary(ctx context.Context, postID string) (string, error)
}

type createPostRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	AuthorName string `json:"author_name"`
}

type createReviewRequest struct {
	ReviewerName string `json:"reviewer_name"`
	ReviewText   string `json:"review_text"`
}

type reviewSummaryResponse struct {
	PostID  string `json:"post_id"`
	Summary string `json:"summary"`
}

type PostsHandler struct {
	store   PostStore
	reviews ReviewService
	logger  *slog.Logger
}

func NewPostsHandler(store PostStore, reviewService ReviewService, logger *slog.Logger) *PostsHandler {
	return &PostsHandler{
		store:   store,
		reviews: reviewService,
		logger:  logger,
	}
}

func (h *PostsHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	post := models.Post{
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		AuthorName: strings.TrimSpace(req.AuthorName),
	}
	if post.Title == "" || strings.TrimSpace(post.Content) == "" || post.AuthorName == "" {
		sendError(w, h.logger, http.StatusBadRequest, "title, content and author_name are required")
		return
	}

	created, err := h.store.CreatePost(r.Context(), post)
	if err != nil {
		sendServiceError(w, h.logger, err, "create post")
		return
	}

	h.logger.Info("[Handler] Post created",
		slog.String("post_id", created.ID),
		slog.String("author", created.AuthorName))

	created.ContentHTML = markdown.ToHTML(created.Content)
	sendResponse(w, h.logger, http.StatusCreated, created)
}

func (h *PostsHandler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPosts(r.Context())
	if err != nil {
		sendServiceError(w, h.logger, err, "list posts")
		return
	}
	sendResponse(w, h.logger, http.StatusOK, nonNil(posts))
}

func (h *PostsHandler) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.store.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		sendServiceError(w, h.logger, err, "load post")
		return
	}

	post.ContentHTML = markdown.ToHTML(post.Content)
	sendResponse(w, h.logger, http.StatusOK, post)
}

func (h *PostsHandler) HandleAuthorPosts(w http.ResponseWriter, r *http.Request) {
	author := strings.TrimSpace(r.PathValue("name"))
	if author == "" {
		sendError(w, h.logger, http.StatusBadRequest, "author name is required")
		return
	}

	posts, err := h.store.ListPostsByAuthor(r.Context(), author)
	if err != nil {
		sendServiceError(w, h.logger, err, "list author posts")
		return
	}
	sendResponse(w, h.logger, http.StatusOK, nonNil(posts))
}

// HandleCreateReview answers 201 when the review was stored and 202 when it
// was queued for the review consumer.
func (h *PostsHandler) HandleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	submission, err := h.reviews.Submit(r.Context(), r.PathValue("id"), req.ReviewerName, req.ReviewText)
	if err != nil {
		sendServiceError(w, h.logger, err, "submit review")
		return
	}

	status := http.StatusCreated
	if submission.Queued {
		status = http.StatusAccepted
	}
	sendResponse(w, h.logger, status, submission)
}

func (h *PostsHandler) HandleListReviews(w http.ResponseWriter, r *http.Request) {
	var filter models.SentimentLabel
	if raw := r.URL.Query().Get("sentiment"); raw != "" {
		label, ok := models.ParseSentimentLabel(strings.ToLower(raw))
		if !ok {
			sendError(w, h.logger, http.StatusBadRequest, "sentiment must be one of: positive, negative, neutral")
			return
		}
		filter = label
	}

	list, err := h.reviews.List(r.Context(), r.PathValue("id"), filter)
	if err != nil {
		sendServiceError(w, h.logger, err, "list reviews")
		return
	}
	sendResponse(w, h.logger, http.StatusOK, nonNil(list))
}

func (h *PostsHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("id")
	if _, err := h.store.GetPost(r.Context(), postID); err != nil {
		sendServiceError(w, h.logger, err, "load post")
		return
	}

	analytics, err := h.store.PostAnalytics(r.Context(), postID)
	if err != nil {
		sendServiceError(w, h.logger, err, "compute analytics")
		return
	}
	sendResponse(w, h.logger, http.StatusOK, analytics)
}

func (h *PostsHandler) HandleReviewSummary(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("id")
	summary, err := h.reviews.Summary(r.Context(), postID)
	if err != nil {
		sendServiceError(w, h.logger, err, "summarize reviews")
		return
	}
	sendResponse(w, h.logger, http.StatusOK, reviewSummaryResponse{PostID: postID, Summary: summary})
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
