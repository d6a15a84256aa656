package kafka_client

import (
	"context"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/textpulse/config"
)

func TestStartConsumer_UnregisteredTopic(t *testing.T) {
	err := StartConsumer(context.Background(), KafkaConfig{Topic: "nobody-listens"})
	if err == nil {
		t.Fatal("expected an error for an unregistered topic")
	}
}

func TestRegisterConsumer(t *testing.T) {
	RegisterConsumer("registered-topic", func(context.Context, *kafka.Consumer) {})
	if _, ok := lookupConsumer("registered-topic"); !ok {
		t.Error("consumer was not registered")
	}
}

func TestGetKafkaConfig(t *testing.T) {
	cfg := GetKafkaConfig(config.KafkaConfig{Broker: "b:9092", GroupID: "g"})
	if cfg.Topic != KAFKA_TOPIC_REVIEW_REQUESTS {
		t.Errorf("Topic = %q, want default %q", cfg.Topic, KAFKA_TOPIC_REVIEW_REQUESTS)
	}
	if cfg.Broker != "b:9092" || cfg.GroupID != "g" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.TransactionalID == "" {
		t.Error("TransactionalID is empty")
	}
}
