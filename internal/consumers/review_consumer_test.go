package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/textpulse/internal/models"
	"github.com/spacesedan/textpulse/internal/modelsentiment"
	"github.com/spacesedan/textpulse/internal/textanalysis"
	"github.com/spacesedan/textpulse/internal/utils"
)

type fakeWriter struct {
	batches [][]models.Review
	fails   int
}

func (f *fakeWriter) CreateReviews(ctx context.Context, reviews []models.Review) error {
	if f.fails > 0 {
		f.fails--
		return errors.New("store down")
	}
	f.batches = append(f.batches, append([]models.Review(nil), reviews...))
	return nil
}

type fakeCommitter struct {
	committed []*kafka.Message
}

func (f *fakeCommitter) Commit(msg *kafka.Message) error {
	f.committed = append(f.committed, msg)
	return nil
}

type fakeClassifier struct {
	err error
}

func (f *fakeClassifier) Classify(texts []string) ([]modelsentiment.Prediction, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]modelsentiment.Prediction, len(texts))
	for i := range texts {
		out[i] = modelsentiment.Prediction{Label: "POSITIVE", Score: 0.75}
	}
	return out, nil
}

var (
	_ ReviewWriter    = &fakeWriter{}
	_ Committer       = &fakeCommitter{}
	_ ModelClassifier = &fakeClassifier{}
	_ SentimentScorer = &textanalysis.Analyzer{}
)

func reviewMessage(t *testing.T, offset int64, req models.ReviewRequest) *kafka.Message {
	t.Helper()
	value, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	topic := "review-requests"
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 0, Offset: kafka.Offset(offset)},
		Value:          value,
	}
}

func newTestConsumer(t *testing.T, w ReviewWriter, c ModelClassifier) *ReviewConsumer {
	t.Helper()
	rc := NewReviewConsumer(textanalysis.MustLoad(), w, c)
	rc.retryDelay = time.Millisecond
	return rc
}

func TestReviewConsumer_HandleAndFlush(t *testing.T) {
	writer := &fakeWriter{}
	committer := &fakeCommitter{}
	rc := newTestConsumer(t, writer, nil)

	submitted := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rc.Handle(reviewMessage(t, 10, models.ReviewRequest{
		ReviewID: "r1", PostID: "p1", ReviewerName: "ana",
		ReviewText: "This is terrible and awful.", SubmittedAt: submitted,
	}))
	rc.Handle(reviewMessage(t, 11, models.ReviewRequest{
		ReviewID: "r2", PostID: "p1", ReviewerName: "ben",
		ReviewText: "I love this, it is wonderful!",
	}))

	if err := rc.Flush(context.Background(), committer); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if len(writer.batches) != 1 || len(writer.batches[0]) != 2 {
		t.Fatalf("stored batches = %v", writer.batches)
	}
	first, second := writer.batches[0][0], writer.batches[0][1]
	if first.ID != "r1" || first.Sentiment != models.SentimentNegative || first.SentimentScore >= -0.05 {
		t.Errorf("first review = %+v", first)
	}
	if !first.CreatedAt.Equal(submitted) {
		t.Errorf("CreatedAt = %v, want %v", first.CreatedAt, submitted)
	}
	if second.Sentiment != models.SentimentPositive {
		t.Errorf("second review sentiment = %q", second.Sentiment)
	}
	if first.ModelLabel != "" {
		t.Errorf("ModelLabel set without a classifier: %q", first.ModelLabel)
	}

	if len(committer.committed) != 1 || committer.committed[0].TopicPartition.Offset != 11 {
		t.Errorf("committed = %v, want only offset 11", committer.committed)
	}

	// Nothing buffered: no store call, no commit.
	if err := rc.Flush(context.Background(), committer); err != nil {
		t.Fatalf("empty Flush() error = %v", err)
	}
	if len(writer.batches) != 1 || len(committer.committed) != 1 {
		t.Error("empty flush touched the store or committed")
	}
}

func TestReviewConsumer_CrossCheck(t *testing.T) {
	writer := &fakeWriter{}
	rc := newTestConsumer(t, writer, &fakeClassifier{})

	rc.Handle(reviewMessage(t, 1, models.ReviewRequest{ReviewID: "r1", PostID: "p", ReviewText: "nice"}))
	if err := rc.Flush(context.Background(), &fakeCommitter{}); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	got := writer.batches[0][0]
	if got.ModelLabel != "POSITIVE" || got.ModelScore != 0.75 {
		t.Errorf("model fields = (%q, %v)", got.ModelLabel, got.ModelScore)
	}
}

func TestReviewConsumer_CrossCheckFailureStillStores(t *testing.T) {
	writer := &fakeWriter{}
	rc := newTestConsumer(t, writer, &fakeClassifier{err: errors.New("onnx exploded")})

	rc.Handle(reviewMessage(t, 1, models.ReviewRequest{ReviewID: "r1", PostID: "p", ReviewText: "nice"}))
	if err := rc.Flush(context.Background(), &fakeCommitter{}); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(writer.batches) != 1 || writer.batches[0][0].ModelLabel != "" {
		t.Errorf("batches = %+v", writer.batches)
	}
}

func TestReviewConsumer_BadMessageIsCommitted(t *testing.T) {
	writer := &fakeWriter{}
	committer := &fakeCommitter{}
	rc := newTestConsumer(t, writer, nil)

	topic := "review-requests"
	rc.Handle(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 2, Offset: 4},
		Value:          []byte("{not json"),
	})

	if err := rc.Flush(context.Background(), committer); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(writer.batches) != 0 {
		t.Error("bad message reached the store")
	}
	if len(committer.committed) != 1 {
		t.Errorf("committed %d messages, want 1", len(committer.committed))
	}
}

func TestReviewConsumer_StoreRetries(t *testing.T) {
	writer := &fakeWriter{fails: 2}
	committer := &fakeCommitter{}
	rc := newTestConsumer(t, writer, nil)

	rc.Handle(reviewMessage(t, 1, models.ReviewRequest{ReviewID: "r1", PostID: "p", ReviewText: "ok"}))
	if err := rc.Flush(context.Background(), committer); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(writer.batches) != 1 || len(committer.committed) != 1 {
		t.Errorf("batches = %d, commits = %d", len(writer.batches), len(committer.committed))
	}
}

func TestReviewConsumer_StoreFailureSkipsCommit(t *testing.T) {
	writer := &fakeWriter{fails: STORE_RETRIES}
	committer := &fakeCommitter{}
	rc := newTestConsumer(t, writer, nil)

	rc.Handle(reviewMessage(t, 1, models.ReviewRequest{ReviewID: "r1", PostID: "p", ReviewText: "ok"}))
	if err := rc.Flush(context.Background(), committer); err == nil {
		t.Fatal("expected Flush() to fail")
	}
	if len(committer.committed) != 0 {
		t.Error("offsets were committed for an unstored batch")
	}
}

func TestReviewConsumer_HandleReportsFull(t *testing.T) {
	rc := newTestConsumer(t, &fakeWriter{}, nil)

	var full bool
	for i := 0; i < utils.BATCH_SIZE; i++ {
		full = rc.Handle(reviewMessage(t, int64(i), models.ReviewRequest{ReviewID: "r", PostID: "p", ReviewText: "ok"}))
	}
	if !full {
		t.Error("Handle did not report a full buffer at BATCH_SIZE")
	}
}
