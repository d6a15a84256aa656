package config

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"APP_ENV", "LOG_LEVEL", "SERVER_HOST", "SERVER_PORT", "STORE_BACKEND", "SQLITE_PATH",
	"DYNAMODB_POSTS_TABLE", "DYNAMODB_REVIEWS_TABLE", "AWS_ENDPOINT", "AWS_REGION",
	"KAFKA_ENABLED", "KAFKA_BROKER", "KAFKA_CONSUMER_GROUP_ID", "KAFKA_REVIEW_TOPIC",
	"ABSTRACTIVE_BACKEND", "HF_SUMMARY_ENDPOINT", "HF_API_TOKEN", "HF_TIMEOUT",
	"OPENAI_API_KEY", "OPENAI_MODEL", "VALKEY_INIT_ADDRESS", "SUMMARY_CACHE_TTL",
}

// clearEnv unsets keys for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		if old, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, old) })
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Env != "dev" {
		t.Errorf("Env = %q, want dev", cfg.Env)
	}
	if cfg.ServerAddress() != "0.0.0.0:8080" {
		t.Errorf("ServerAddress() = %q", cfg.ServerAddress())
	}
	if cfg.Store.Backend != STORE_BACKEND_SQLITE || cfg.Store.SQLitePath != "textpulse.db" {
		t.Errorf("Store = %+v, want sqlite defaults", cfg.Store)
	}
	if cfg.Kafka.Enabled || cfg.Kafka.ReviewTopic != "review-requests" {
		t.Errorf("Kafka = %+v, want disabled with default topic", cfg.Kafka)
	}
	if cfg.Abstractive.Backend != ABSTRACTIVE_BACKEND_NONE {
		t.Errorf("Abstractive.Backend = %q, want none", cfg.Abstractive.Backend)
	}
	if cfg.Valkey.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", cfg.Valkey.CacheTTL)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_BACKEND", "DynamoDB")
	t.Setenv("ABSTRACTIVE_BACKEND", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("HF_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Store.Backend != STORE_BACKEND_DYNAMODB {
		t.Errorf("Store.Backend = %q, want dynamodb", cfg.Store.Backend)
	}
	if cfg.Abstractive.HuggingFace.Timeout != 5*time.Second {
		t.Errorf("HF timeout = %v, want 5s", cfg.Abstractive.HuggingFace.Timeout)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("KAFKA_ENABLED", "maybe")
	t.Setenv("SUMMARY_CACHE_TTL", "forever")
	t.Setenv("LOG_LEVEL", "loud")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Kafka.Enabled || cfg.Valkey.CacheTTL != 24*time.Hour || cfg.LogLevel != slog.LevelInfo {
		t.Errorf("unparseable values did not fall back to defaults: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "port out of range", env: map[string]string{"SERVER_PORT": "70000"}, wantErr: "invalid server port"},
		{name: "unknown store", env: map[string]string{"STORE_BACKEND": "postgres"}, wantErr: "unknown store backend"},
		{name: "empty sqlite path", env: map[string]string{"SQLITE_PATH": ""}, wantErr: "SQLITE_PATH"},
		{name: "kafka without broker", env: map[string]string{"KAFKA_ENABLED": "true", "KAFKA_BROKER": ""}, wantErr: "KAFKA_BROKER"},
		{name: "openai without key", env: map[string]string{"ABSTRACTIVE_BACKEND": "openai"}, wantErr: "OPENAI_API_KEY"},
		{name: "unknown abstractive backend", env: map[string]string{"ABSTRACTIVE_BACKEND": "llama"}, wantErr: "unknown abstractive backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() succeeded, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
