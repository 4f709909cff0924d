package main

import (
	"context"
	"time"

	mongoMigration "tenniscourts/internal/migrations/mongo"
	"tenniscourts/pkg/config"
)

const (
	JobName = "mongo-migration"

	migrationTimeout = 120 * time.Second
)

func main() {
	cfg := config.Load(JobName)
	cfg.SetMongo()
	cfg.Log.Info("Starting Mongo migration job")

	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.Log)
	cancel()
	cfg.GracefulShutdown()

	if err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
