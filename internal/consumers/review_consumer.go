package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/textpulse/internal/clients/kafka_client"
	"github.com/spacesedan/textpulse/internal/models"
	"github.com/spacesedan/textpulse/internal/modelsentiment"
	"github.com/spacesedan/textpulse/internal/utils"
)

const (
	STORE_RETRIES     = 3
	STORE_RETRY_DELAY = 2 * time.Second
	SHUTDOWN_FLUSH    = 10 * time.Second
)

type SentimentScorer interface {
	Analyze(text string) models.SentimentResult
}

type ModelClassifier interface {
	Classify(texts []string) ([]modelsentiment.Prediction, error)
}

type ReviewWriter interface {
	CreateReviews(ctx context.Context, reviews []models.Review) error
}

type Committer interface {
	Commit(msg *kafka.Message) error
}

// ReviewConsumer scores queued review requests and stores them in batches.
// Offsets are committed only after the batch holding them is stored.
type ReviewConsumer struct {
	scorer     SentimentScorer
	classifier ModelClassifier
	store      ReviewWriter
	buffer     *utils.BatchBuffer[models.Review]
	offsets    *utils.OffsetTracker
	retryDelay time.Duration
}

// NewReviewConsumer builds a consumer. classifier may be nil to skip the
// model cross-check.
func NewReviewConsumer(scorer SentimentScorer, store ReviewWriter, classifier ModelClassifier) *ReviewConsumer {
	return &ReviewConsumer{
		scorer:     scorer,
		classifier: classifier,
		store:      store,
		buffer:     utils.NewBatchBuffer[models.Review](utils.BATCH_SIZE),
		offsets:    utils.NewOffsetTracker(),
		retryDelay: STORE_RETRY_DELAY,
	}
}

// Start consumes until ctx is done or the store keeps failing. It has the
// kafka_client.ConsumerFunc shape.
func (rc *ReviewConsumer) Start(ctx context.Context, consumer *kafka.Consumer) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer)

	slog.Info("[ReviewConsumer] Listening for review requests...")

	ticker := time.NewTicker(utils.BATCH_TIMEOUT)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[ReviewConsumer] Stopping consumer...")
			flushCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_FLUSH)
			if err := rc.Flush(flushCtx, committer); err != nil {
				slog.Error("[ReviewConsumer] Final flush failed", slog.String("error", err.Error()))
			}
			cancel()
			return
		case <-ticker.C:
			if err := rc.Flush(ctx, committer); err != nil {
				slog.Error("[ReviewConsumer] Flush failed, stopping so uncommitted reviews are redelivered",
					slog.String("error", err.Error()))
				return
			}
		default:
			msg, err := iterator.Next()
			if err != nil {
				if ctx.Err() == nil {
					slog.Error("[ReviewConsumer] Kafka Consumer Error", slog.String("error", err.Error()))
				}
				continue
			}
			if msg == nil {
				continue
			}

			if full := rc.Handle(msg); full {
				if err := rc.Flush(ctx, committer); err != nil {
					slog.Error("[ReviewConsumer] Flush failed, stopping so uncommitted reviews are redelivered",
						slog.String("error", err.Error()))
					return
				}
			}
		}
	}
}

// Handle scores one message and buffers the review. It reports whether the
// buffer is full. Undecodable messages are logged and skipped.
func (rc *ReviewConsumer) Handle(msg *kafka.Message) bool {
	rc.offsets.Track(msg)

	var req models.ReviewRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		slog.Warn("[ReviewConsumer] Skipping undecodable message",
			slog.String("error", err.Error()),
			slog.Int("partition", int(msg.TopicPartition.Partition)))
		return false
	}

	return rc.buffer.Add(rc.score(req))
}

func (rc *ReviewConsumer) score(req models.ReviewRequest) models.Review {
	result := rc.scorer.Analyze(req.ReviewText)
	return models.Review{
		ID:             req.ReviewID,
		PostID:         req.PostID,
		ReviewerName:   req.ReviewerName,
		ReviewText:     req.ReviewText,
		Sentiment:      result.Label,
		SentimentScore: result.Compound,
		CreatedAt:      req.SubmittedAt,
	}
}

// Flush stores the buffered reviews and then commits the offsets they came from.
func (rc *ReviewConsumer) Flush(ctx context.Context, committer Committer) error {
	batch := rc.buffer.GetAndClear()
	msgs := rc.offsets.Drain()
	if len(batch) == 0 && len(msgs) == 0 {
		return nil
	}

	if len(batch) > 0 {
		slog.Info("[ReviewConsumer] Processing batch", slog.Int("batch_size", len(batch)))
		rc.crossCheck(batch)

		if err := rc.storeWithRetry(ctx, batch); err != nil {
			return err
		}
	}

	for _, msg := range msgs {
		if err := committer.Commit(msg); err != nil {
			slog.Warn("[ReviewConsumer] Failed to commit offset", slog.String("error", err.Error()))
		}
	}
	return nil
}

func (rc *ReviewConsumer) crossCheck(batch []models.Review) {
	if rc.classifier == nil {
		return
	}

	texts := make([]string, len(batch))
	for i, r := range batch {
		texts[i] = r.ReviewText
	}

	predictions, err := rc.classifier.Classify(texts)
	if err != nil {
		slog.Warn("[ReviewConsumer] Model cross-check failed, storing lexicon scores only",
			slog.String("error", err.Error()))
		return
	}

	for i := range batch {
		if i >= len(predictions) {
			break
		}
		batch[i].ModelLabel = predictions[i].Label
		batch[i].ModelScore = predictions[i].Score
	}
}

func (rc *ReviewConsumer) storeWithRetry(ctx context.Context, batch []models.Review) error {
	var err error
	for i := 0; i < STORE_RETRIES; i++ {
		if err = rc.store.CreateReviews(ctx, batch); err == nil {
			return nil
		}

		slog.Warn("[ReviewConsumer] Storing batch failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rc.retryDelay):
		}
	}
	return fmt.Errorf("[ReviewConsumer] failed to store %d reviews: %w", len(batch), err)
}
