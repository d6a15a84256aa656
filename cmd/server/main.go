package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spacesedan/textpulse/config"
	"github.com/spacesedan/textpulse/internal/abstractive"
	"github.com/spacesedan/textpulse/internal/analysis"
	"github.com/spacesedan/textpulse/internal/clients/kafka_client"
	"github.com/spacesedan/textpulse/internal/db"
	"github.com/spacesedan/textpulse/internal/handlers"
	"github.com/spacesedan/textpulse/internal/logging"
	"github.com/spacesedan/textpulse/internal/reviews"
	"github.com/spacesedan/textpulse/internal/roles"
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
	logger := slog.Default()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	analyzer, err := textanalysis.Load()
	if err != nil {
		logger.Error("[Main] Failed to load text analyzer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	catalog, err := roles.NewCatalog(analyzer)
	if err != nil {
		logger.Error("[Main] Failed to load role catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, err := db.NewStore(ctx, cfg.Store)
	if err != nil {
		logger.Error("[Main] Failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	summarizer, closeSummarizer := abstractive.New(ctx, cfg)
	defer closeSummarizer()

	reviewService := reviews.NewService(store, analyzer)
	if cfg.Kafka.Enabled {
		kcfg := kafka_client.GetKafkaConfig(cfg.Kafka)
		producer, err := kafka_client.NewProducer(ctx, kcfg)
		if err != nil {
			logger.Error("[Main] Failed to start Kafka producer", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer producer.Close()
		reviewService.WithPublisher(producer, kcfg.Topic)
	}

	router := handlers.NewRouter(
		handlers.NewAnalysisHandler(analysis.NewService(analyzer, catalog), catalog, summarizer, logger),
		handlers.NewPostsHandler(store, reviewService, logger),
		handlers.NewHealthHandler(summarizer, logger),
		logger,
	)

	app := newApplication(cfg.ServerAddress(), router, logger)
	if err := app.Run(); err != nil {
		logger.Error("[Main] Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
