package main

import (
	"context"

	"github.com/spf13/cobra"

	"negociosverdes/internal/dataset/handler"
	"negociosverdes/internal/dataset/repository"
	"negociosverdes/internal/dataset/service"
	"negociosverdes/internal/dataset/validator"
	"negociosverdes/internal/events"
	"negociosverdes/internal/pipeline"
	"negociosverdes/internal/source"
	"negociosverdes/pkg/app"
	"negociosverdes/pkg/config"
	"negociosverdes/pkg/metrics"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			serve()
			return nil
		},
	}
}

func serve() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	m := metrics.New()

	cfg.Log.Info("Starting Negocios Verdes service", "version", Version)

	var repo repository.SnapshotRepository
	if cfg.MongoEnabled() {
		repo = repository.NewMongoSnapshotRepository(cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.FetchTimeout, cfg.FetchTimeout)
		cfg.Log.Info("Snapshot store enabled", "database", cfg.MongoDatabaseName)
	}

	publisher, err := events.New(cfg.Kafka, cfg.Log, m)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize dataset events", "error", err)
	}

	datasetService := initService(cfg, repo, publisher, m)
	warmUp(cfg, datasetService)

	serverApp := app.NewApplication(cfg, m)
	serverApp.SetApp(
		handler.NewHealthHandler(datasetService, repo, cfg.Log),
		handler.NewDatasetHandler(datasetService, validator.NewDatasetValidator(cfg.Log), cfg.Log),
	)
	serverApp.OnShutdown(func(ctx context.Context) {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	})
	serverApp.OnShutdown(func(ctx context.Context) {
		cfg.Client.Close(ctx, cfg.Log)
	})
	serverApp.Run()
}

func initService(cfg *config.Config, repo repository.SnapshotRepository, publisher events.Publisher, m *metrics.Metrics) service.DatasetService {
	src := source.New(cfg.Source(), cfg.FetchTimeout)
	p := pipeline.New(src, cfg.Log, m)

	datasetService := service.NewDatasetService(p, repo, publisher, cfg.DatasetVersion, cfg.Log, m)
	cfg.Log.Info("Dataset service initialized", "source", src.Name(), "dataset_version", cfg.DatasetVersion)
	return datasetService
}

// warmUp loads the snapshot in the background so /ready flips once it is in memory.
// A failure is retried on the first request.
func warmUp(cfg *config.Config, svc service.DatasetService) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.FetchTimeout)
		defer cancel()

		if _, err := svc.Snapshot(ctx); err != nil {
			cfg.Log.Warn("Initial dataset load failed", "error", err)
			return
		}
		cfg.Log.Info("Initial dataset load finished")
	}()
}
