package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"goutlier/adapters/api"
	"goutlier/adapters/postgres"
	"goutlier/app"
	"goutlier/internal"
	"goutlier/internal/config"
	"goutlier/ports"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := internal.DefaultLogger

	var models ports.ModelRepository
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()

		if cfg.Database.Migrate {
			if err := postgres.Migrate(context.Background(), db); err != nil {
				log.Fatalf("database migration failed: %v", err)
			}
		}
		models = postgres.NewModelRepository(db)
		logger.Info("model persistence enabled")
	} else {
		logger.Warn("DATABASE_URL not set, running without model persistence")
	}

	service := app.NewDetectionService(cfg.Detector, models, logger)
	if err := api.NewApp(service, logger).Serve(cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
