package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	STORE_BACKEND_SQLITE   = "sqlite"
	STORE_BACKEND_DYNAMODB = "dynamodb"

	ABSTRACTIVE_BACKEND_NONE        = "none"
	ABSTRACTIVE_BACKEND_HUGGINGFACE = "huggingface"
	ABSTRACTIVE_BACKEND_OPENAI      = "openai"
)

type ServerConfig struct {
	Host string
	Port int
}

type StoreConfig struct {
	Backend      string
	SQLitePath   string
	PostsTable   string
	ReviewsTable string
	AWSEndpoint  string
	AWSRegion    string
}

type KafkaConfig struct {
	Enabled     bool
	Broker      string
	GroupID     string
	ReviewTopic string
}

type HuggingFaceConfig struct {
	SummaryEndpoint   string
	APIToken          string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthTokenURL     string
	Timeout           time.Duration
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type AbstractiveConfig struct {
	Backend     string
	HuggingFace HuggingFaceConfig
	OpenAI      OpenAIConfig
}

type ValkeyConfig struct {
	Address  string
	Password string
	UseTLS   bool
	CacheTTL time.Duration
}

type AppConfig struct {
	Env                string
	LogLevel           slog.Level
	Server             ServerConfig
	Store              StoreConfig
	Kafka              KafkaConfig
	Abstractive        AbstractiveConfig
	Valkey             ValkeyConfig
	SentimentModelPath string
	SentimentModelName string
}

// Load builds the application config from the environment and validates it.
// Call LoadEnv first so .env files are taken into account.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Env:      AppEnv(),
		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Store: StoreConfig{
			Backend:      strings.ToLower(getEnv("STORE_BACKEND", STORE_BACKEND_SQLITE)),
			SQLitePath:   getEnv("SQLITE_PATH", "textpulse.db"),
			PostsTable:   getEnv("DYNAMODB_POSTS_TABLE", "Posts"),
			ReviewsTable: getEnv("DYNAMODB_REVIEWS_TABLE", "Reviews"),
			AWSEndpoint:  getEnv("AWS_ENDPOINT", ""),
			AWSRegion:    getEnv("AWS_REGION", "us-west-2"),
		},
		Kafka: KafkaConfig{
			Enabled:     getEnvBool("KAFKA_ENABLED", false),
			Broker:      getEnv("KAFKA_BROKER", "localhost:29092"),
			GroupID:     getEnv("KAFKA_CONSUMER_GROUP_ID", "textpulse-review-consumer"),
			ReviewTopic: getEnv("KAFKA_REVIEW_TOPIC", "review-requests"),
		},
		Abstractive: AbstractiveConfig{
			Backend: strings.ToLower(getEnv("ABSTRACTIVE_BACKEND", ABSTRACTIVE_BACKEND_NONE)),
			HuggingFace: HuggingFaceConfig{
				SummaryEndpoint:   getEnv("HF_SUMMARY_ENDPOINT", "https://api-inference.huggingface.co/models/facebook/bart-large-cnn"),
				APIToken:          getEnv("HF_API_TOKEN", ""),
				OAuthClientID:     getEnv("HF_OAUTH_CLIENT_ID", ""),
				OAuthClientSecret: getEnv("HF_OAUTH_CLIENT_SECRET", ""),
				OAuthTokenURL:     getEnv("HF_OAUTH_TOKEN_URL", ""),
				Timeout:           getEnvDuration("HF_TIMEOUT", 60*time.Second),
			},
			OpenAI: OpenAIConfig{
				APIKey: getEnv("OPENAI_API_KEY", ""),
				Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			},
		},
		Valkey: ValkeyConfig{
			Address:  getEnv("VALKEY_INIT_ADDRESS", ""),
			Password: getEnv("VALKEY_PASSWORD", ""),
			UseTLS:   getEnvBool("VALKEY_TLS", false),
			CacheTTL: getEnvDuration("SUMMARY_CACHE_TTL", 24*time.Hour),
		},
		SentimentModelPath: getEnv("SENTIMENT_MODEL_PATH", ""),
		SentimentModelName: getEnv("SENTIMENT_MODEL_NAME", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("[Config] invalid configuration: %w", err)
	}

	return cfg, nil
}

// ServerAddress returns the HTTP listen address in host:port form.
func (c *AppConfig) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func parseLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
