package kafka_client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type KafkaCommitHandler struct {
	consumer *kafka.Consumer
	ctx      context.Context
}

func NewCommitHandler(ctx context.Context, consumer *kafka.Consumer) *KafkaCommitHandler {
	return &KafkaCommitHandler{
		consumer: consumer,
		ctx:      ctx,
	}
}

// Commit stores msg's offset+1 for its partition, retrying transient failures.
func (ch *KafkaCommitHandler) Commit(msg *kafka.Message) error {
	if ch.consumer == nil {
		return errors.New("[KafkaCommitHandler] Kafka consumer has not been initialized")
	}

	partition := slog.Int("partition", int(msg.TopicPartition.Partition))
	offset := slog.String("offset", msg.TopicPartition.Offset.String())

	for i := 0; i < MAX_RETRIES; i++ {
		_, err := ch.consumer.CommitMessage(msg)
		if err == nil {
			slog.Debug("[KafkaCommitHandler] Successfully committed offset", partition, offset)
			return nil
		}

		slog.Warn("[KafkaCommitHandler] Failed to commit offset, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()),
			partition, offset)

		var kafkaErr kafka.Error
		if errors.As(err, &kafkaErr) && kafkaErr.Code() == kafka.ErrAllBrokersDown {
			slog.Error("[KafkaCommitHandler] All Kafka brokers are down. Aborting commit")
			return err
		}

		select {
		case <-ch.ctx.Done():
			slog.Warn("[KafkaCommitHandler] Context canceled, stopping commit")
			return ch.ctx.Err()
		case <-time.After(RETRY_DELAY):
		}
	}

	return fmt.Errorf("[KafkaCommitHandler] Failed to commit message after %d retries", MAX_RETRIES)
}
