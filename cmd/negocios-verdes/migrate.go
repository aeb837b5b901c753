package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	mongoMigration "negociosverdes/internal/migrations/mongo"
	"negociosverdes/pkg/config"
)

const migrationTimeout = 120 * time.Second

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the Mongo snapshot collections and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context())
		},
	}
}

func migrate(ctx context.Context) error {
	cfg, err := config.LoadFromEnv(ServiceName + "-migrate")
	if err != nil {
		return err
	}
	if !cfg.MongoEnabled() {
		return errors.New("MONGO_URI is not set")
	}

	ctx, cancel := context.WithTimeout(ctx, migrationTimeout)
	defer cancel()

	cfg.SetMongo()
	defer cfg.Client.Close(context.Background(), cfg.Log)

	cfg.Log.Info("Starting Mongo migration job")
	return mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log)
}
