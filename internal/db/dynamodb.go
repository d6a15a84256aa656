package db

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/textpulse/internal/models"
)

const (
	MAX_BATCH_WRITE   = 25
	MAX_BATCH_GET     = 100
	MAX_BATCH_RETRIES = 3
)

var batchBackoff = 500 * time.Millisecond

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	BatchGetItem(ctx context.Context, in *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
}

// DynamoStore keeps posts in a table keyed by id and reviews in a table
// keyed by (post_id, id).
type DynamoStore struct {
	client       DynamoAPI
	postsTable   string
	reviewsTable string
}

func NewDynamoStore(client DynamoAPI, postsTable, reviewsTable string) *DynamoStore {
	return &DynamoStore{
		client:       client,
		postsTable:   postsTable,
		reviewsTable: reviewsTable,
	}
}

func (s *DynamoStore) Close() error { return nil }

func (s *DynamoStore) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	stampPost(&post)

	item, err := attributevalue.MarshalMap(post)
	if err != nil {
		return models.Post{}, fmt.Errorf("[DynamoDB] failed to marshal post: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.postsTable),
		Item:      item,
	})
	if err != nil {
		return models.Post{}, fmt.Errorf("[DynamoDB] failed to put post: %w", err)
	}

	return post, nil
}

func (s *DynamoStore) GetPost(ctx context.Context, id string) (models.Post, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.postsTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return models.Post{}, fmt.Errorf("[DynamoDB] failed to get post: %w", err)
	}
	if len(out.Item) == 0 {
		return models.Post{}, fmt.Errorf("[DynamoDB] post %s: %w", id, ErrNotFound)
	}

	var post models.Post
	if err := attributevalue.UnmarshalMap(out.Item, &post); err != nil {
		return models.Post{}, fmt.Errorf("[DynamoDB] failed to unmarshal post: %w", err)
	}

	if post.ReviewCount, err = s.countReviews(ctx, id); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (s *DynamoStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.scanPosts(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.postsTable),
	})
}

func (s *DynamoStore) ListPostsByAuthor(ctx context.Context, author string) ([]models.Post, error) {
	return s.scanPosts(ctx, &dynamodb.ScanInput{
		TableName:                aws.String(s.postsTable),
		FilterExpression:         aws.String("#author = :author"),
		ExpressionAttributeNames: map[string]string{"#author": "author_name"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":author": &types.AttributeValueMemberS{Value: author},
		},
	})
}

func (s *DynamoStore) scanPosts(ctx context.Context, input *dynamodb.ScanInput) ([]models.Post, error) {
	posts := []models.Post{}
	paginator := dynamodb.NewScanPaginator(s.client, input)

	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Scan for posts failed: %w", err)
		}

		var page []models.Post
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			slog.Error("[DynamoDB] Unable to unmarshal post page", slog.String("error", err.Error()))
			return nil, err
		}
		posts = append(posts, page...)
	}

	for i := range posts {
		count, err := s.countReviews(ctx, posts[i].ID)
		if err != nil {
			return nil, err
		}
		posts[i].ReviewCount = count
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	slog.Debug("[DynamoDB] Retrieved posts", slog.Int("count", len(posts)))
	return posts, nil
}

func (s *DynamoStore) countReviews(ctx context.Context, postID string) (int, error) {
	input := s.reviewQuery(postID, "")
	input.Select = types.SelectCount

	total := 0
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("[DynamoDB] failed to count reviews: %w", err)
		}
		total += int(out.Count)
	}
	return total, nil
}

func (s *DynamoStore) CreateReview(ctx context.Context, review models.Review) (models.Review, error) {
	if _, err := s.GetPost(ctx, review.PostID); err != nil {
		return models.Review{}, err
	}

	stampReview(&review)
	item, err := attributevalue.MarshalMap(review)
	if err != nil {
		return models.Review{}, fmt.Errorf("[DynamoDB] failed to marshal review: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.reviewsTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return models.Review{}, fmt.Errorf("[DynamoDB] failed to put review: %w", err)
	}

	return review, nil
}

// CreateReviews batch-writes reviews in chunks of 25, retrying unprocessed
// items with exponential backoff. BatchWriteItem cannot carry conditions, so
// reviews of unknown posts and reviews whose key already exists are filtered
// out before writing.
func (s *DynamoStore) CreateReviews(ctx context.Context, reviews []models.Review) error {
	writable, err := s.writableReviews(ctx, reviews)
	if err != nil {
		return err
	}

	for i := 0; i < len(writable); i += MAX_BATCH_WRITE {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
		}

		end := min(i+MAX_BATCH_WRITE, len(writable))

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, r := range writable[i:end] {
			item, err := attributevalue.MarshalMap(r)
			if err != nil {
				return fmt.Errorf("[DynamoDB] failed to marshal review %s: %w", r.ID, err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := s.batchWrite(ctx, writeRequests); err != nil {
			return err
		}
	}

	if skipped := len(reviews) - len(writable); skipped > 0 {
		slog.Warn("[DynamoDB] Skipped duplicate or orphaned reviews",
			slog.Int("skipped", skipped))
	}
	slog.Info("[DynamoDB] Successfully stored reviews", slog.Int("count", len(writable)))
	return nil
}

// writableReviews stamps the batch and keeps the reviews whose post exists
// and whose (post_id, id) key is neither stored nor repeated in the batch.
func (s *DynamoStore) writableReviews(ctx context.Context, reviews []models.Review) ([]models.Review, error) {
	posts := make(map[string]bool)
	seen := make(map[string]bool)
	candidates := make([]models.Review, 0, len(reviews))

	for _, r := range reviews {
		stampReview(&r)

		exists, checked := posts[r.PostID]
		if !checked {
			var err error
			if exists, err = s.postExists(ctx, r.PostID); err != nil {
				return nil, err
			}
			posts[r.PostID] = exists
		}
		if !exists || seen[r.PostID+"/"+r.ID] {
			continue
		}

		seen[r.PostID+"/"+r.ID] = true
		candidates = append(candidates, r)
	}

	stored, err := s.storedReviewKeys(ctx, candidates)
	if err != nil {
		return nil, err
	}

	writable := candidates[:0]
	for _, r := range candidates {
		if !stored[r.PostID+"/"+r.ID] {
			writable = append(writable, r)
		}
	}
	return writable, nil
}

func (s *DynamoStore) postExists(ctx context.Context, id string) (bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.postsTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ProjectionExpression:     aws.String("#id"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		return false, fmt.Errorf("[DynamoDB] failed to look up post %s: %w", id, err)
	}
	return len(out.Item) > 0, nil
}

// storedReviewKeys returns the "post_id/id" keys of reviews already in the
// table, looked up 100 keys at a time.
func (s *DynamoStore) storedReviewKeys(ctx context.Context, reviews []models.Review) (map[string]bool, error) {
	stored := make(map[string]bool)

	for i := 0; i < len(reviews); i += MAX_BATCH_GET {
		end := min(i+MAX_BATCH_GET, len(reviews))

		keys := make([]map[string]types.AttributeValue, 0, end-i)
		for _, r := range reviews[i:end] {
			keys = append(keys, map[string]types.AttributeValue{
				"post_id": &types.AttributeValueMemberS{Value: r.PostID},
				"id":      &types.AttributeValueMemberS{Value: r.ID},
			})
		}

		request := map[string]types.KeysAndAttributes{
			s.reviewsTable: {
				Keys:                     keys,
				ProjectionExpression:     aws.String("#post, #id"),
				ExpressionAttributeNames: map[string]string{"#post": "post_id", "#id": "id"},
			},
		}

		backoff := batchBackoff
		for attempt := 0; len(request) > 0; attempt++ {
			if attempt > MAX_BATCH_RETRIES {
				return nil, fmt.Errorf("[DynamoDB] review lookups still unprocessed after %d retries", MAX_BATCH_RETRIES)
			}
			if attempt > 0 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
			}

			out, err := s.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
			if err != nil {
				return nil, fmt.Errorf("[DynamoDB] failed to look up reviews: %w", err)
			}

			var found []models.Review
			if err := attributevalue.UnmarshalListOfMaps(out.Responses[s.reviewsTable], &found); err != nil {
				return nil, fmt.Errorf("[DynamoDB] failed to unmarshal review keys: %w", err)
			}
			for _, r := range found {
				stored[r.PostID+"/"+r.ID] = true
			}

			request = out.UnprocessedKeys
		}
	}

	return stored, nil
}

func (s *DynamoStore) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			s.reviewsTable: requests,
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to batch write reviews: %w", err)
	}

	retryCount := 0
	backoff := batchBackoff
	for len(out.UnprocessedItems) > 0 && retryCount < MAX_BATCH_RETRIES {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2

		slog.Warn("[DynamoDB] Retrying unprocessed reviews...",
			slog.Int("attempt", retryCount+1),
			slog.Int("remaining", len(out.UnprocessedItems[s.reviewsTable])))

		out, err = s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Retry error: %w", err)
		}
		retryCount++
	}

	if remaining := len(out.UnprocessedItems[s.reviewsTable]); remaining > 0 {
		return fmt.Errorf("[DynamoDB] %d reviews were not written after %d retries", remaining, MAX_BATCH_RETRIES)
	}

	return nil
}

func (s *DynamoStore) reviewQuery(postID string, filter models.SentimentLabel) *dynamodb.QueryInput {
	input := &dynamodb.QueryInput{
		TableName:                aws.String(s.reviewsTable),
		KeyConditionExpression:   aws.String("#post = :post"),
		ExpressionAttributeNames: map[string]string{"#post": "post_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":post": &types.AttributeValueMemberS{Value: postID},
		},
	}

	if filter != "" {
		input.FilterExpression = aws.String("#sentiment = :sentiment")
		input.ExpressionAttributeNames["#sentiment"] = "sentiment"
		input.ExpressionAttributeValues[":sentiment"] = &types.AttributeValueMemberS{Value: string(filter)}
	}

	return input
}

func (s *DynamoStore) ListReviews(ctx context.Context, postID string, filter models.SentimentLabel) ([]models.Review, error) {
	reviews := []models.Review{}
	paginator := dynamodb.NewQueryPaginator(s.client, s.reviewQuery(postID, filter))

	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Query for reviews failed: %w", err)
		}

		var page []models.Review
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("[DynamoDB] failed to unmarshal reviews: %w", err)
		}
		reviews = append(reviews, page...)
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		if reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].ID > reviews[j].ID
		}
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})

	return reviews, nil
}

func (s *DynamoStore) PostAnalytics(ctx context.Context, postID string) (models.PostAnalytics, error) {
	reviews, err := s.ListReviews(ctx, postID, "")
	if err != nil {
		return models.PostAnalytics{}, err
	}

	var a models.PostAnalytics
	for _, r := range reviews {
		a.Add(r.Sentiment, r.SentimentScore)
	}
	return a, nil
}
