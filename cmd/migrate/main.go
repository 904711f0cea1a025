package main

import (
	"context"
	"os"
	"time"

	"cv-backend/internal/config"
	"cv-backend/internal/shared/storage/db"
	"cv-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		telemetry.Error("migrate.missing_database_url", nil)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	database, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", nil)
}
