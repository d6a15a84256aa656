package kafka_client

import (
	"fmt"
	"os"

	"github.com/spacesedan/textpulse/config"
)

type KafkaConfig struct {
	Broker          string
	GroupID         string
	Topic           string
	TransactionalID string
}

func GetKafkaConfig(cfg config.KafkaConfig) KafkaConfig {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}

	topic := cfg.ReviewTopic
	if topic == "" {
		topic = KAFKA_TOPIC_REVIEW_REQUESTS
	}

	return KafkaConfig{
		Broker:          cfg.Broker,
		GroupID:         cfg.GroupID,
		Topic:           topic,
		TransactionalID: fmt.Sprintf("textpulse-producer-%s", host),
	}
}
