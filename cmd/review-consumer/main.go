package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/textpulse/config"
	"github.com/spacesedan/textpulse/internal/clients/kafka_client"
	"github.com/spacesedan/textpulse/internal/consumers"
	"github.com/spacesedan/textpulse/internal/db"
	"github.com/spacesedan/textpulse/internal/logging"
	"github.com/spacesedan/textpulse/internal/modelsentiment"
	"github.com/spacesedan/textpulse/internal/textanalysis"
)

func main() {
	config.LoadEnv(config.AppEnv())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	if !cfg.Kafka.Enabled {
		slog.Error("[Main] The review consumer needs KAFKA_ENABLED=true")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analyzer := textanalysis.MustLoad()

	store, err := db.NewStore(ctx, cfg.Store)
	if err != nil {
		slog.Error("[Main] Failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	var rc *consumers.ReviewConsumer
	if cfg.SentimentModelPath != "" {
		classifier, err := modelsentiment.Load(cfg.SentimentModelPath, cfg.SentimentModelName)
		if err != nil {
			slog.Warn("[Main] Model cross-check disabled", slog.String("error", err.Error()))
			rc = consumers.NewReviewConsumer(analyzer, store, nil)
		} else {
			defer classifier.Close()
			rc = consumers.NewReviewConsumer(analyzer, store, classifier)
		}
	} else {
		rc = consumers.NewReviewConsumer(analyzer, store, nil)
	}

	kcfg := kafka_client.GetKafkaConfig(cfg.Kafka)
	kafka_client.RegisterConsumer(kcfg.Topic, rc.Start)

	if err := kafka_client.StartConsumer(ctx, kcfg); err != nil {
		slog.Error("[Main] Failed to start consumer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("[Main] Review consumer stopped")
}
