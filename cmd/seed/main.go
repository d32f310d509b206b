package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/seed"
	"github.com/pageza/recipebox/backend/internal/service"
)

func main() {
	file := flag.String("file", "", "JSON file with an array of {title, ingredients}; built-in samples when empty")
	migrationsDir := flag.String("migrations", "migrations", "Directory holding the migration files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.SetDefault("recipebox-seed", cfg.LogLevel, config.GetEnvironment().JSONLogs())

	inputs := seed.SampleRecipes
	if *file != "" {
		if inputs, err = seed.LoadFile(*file); err != nil {
			logger.Error("failed to load seed file", "error", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resources, err := database.Open(ctx, cfg, *migrationsDir)
	if err != nil {
		logger.Error("failed to open recipe store", "error", err)
		os.Exit(1)
	}
	defer resources.Close()

	res, err := seed.Run(ctx, service.NewRecipeService(resources.Store), inputs, logger)
	if err != nil {
		logger.Error("seeding interrupted", "error", err)
	}
	logger.Info("seeding finished", "created", res.Created, "failed", res.Failed)
}
