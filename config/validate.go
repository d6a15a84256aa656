package config

import "fmt"

// Validate runs every config check and returns the first failure.
func (c *AppConfig) Validate() error {
	checks := []func(*AppConfig) error{
		validateServerConfig,
		validateStoreConfig,
		validateKafkaConfig,
		validateAbstractiveConfig,
	}

	for _, check := range checks {
		if err := check(c); err != nil {
			return err
		}
	}

	return nil
}

func validateServerConfig(cfg *AppConfig) error {
	if cfg.Server.Host == "" {
		return fmt.Errorf("server host is empty")
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port, must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	return nil
}

func validateStoreConfig(cfg *AppConfig) error {
	switch cfg.Store.Backend {
	case STORE_BACKEND_SQLITE:
		if cfg.Store.SQLitePath == "" {
			return fmt.Errorf("sqlite store needs SQLITE_PATH")
		}
	case STORE_BACKEND_DYNAMODB:
		if cfg.Store.PostsTable == "" || cfg.Store.ReviewsTable == "" {
			return fmt.Errorf("dynamodb store needs both table names")
		}
	default:
		return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return nil
}

func validateKafkaConfig(cfg *AppConfig) error {
	if !cfg.Kafka.Enabled {
		return nil
	}

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("kafka is enabled but KAFKA_BROKER is empty")
	}

	if cfg.Kafka.ReviewTopic == "" {
		return fmt.Errorf("kafka is enabled but KAFKA_REVIEW_TOPIC is empty")
	}

	return nil
}

func validateAbstractiveConfig(cfg *AppConfig) error {
	switch cfg.Abstractive.Backend {
	case ABSTRACTIVE_BACKEND_NONE, "":
		return nil
	case ABSTRACTIVE_BACKEND_HUGGINGFACE:
		if cfg.Abstractive.HuggingFace.SummaryEndpoint == "" {
			return fmt.Errorf("huggingface backend needs HF_SUMMARY_ENDPOINT")
		}
	case ABSTRACTIVE_BACKEND_OPENAI:
		if cfg.Abstractive.OpenAI.APIKey == "" {
			return fmt.Errorf("openai backend needs OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown abstractive backend %q", cfg.Abstractive.Backend)
	}

	return nil
}
