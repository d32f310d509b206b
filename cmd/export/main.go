package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/backup"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
)

func main() {
	presign := flag.Duration("presign", 0, "Print a presigned download URL valid for this long")
	migrationsDir := flag.String("migrations", "migrations", "Directory holding the migration files")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall export timeout")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.SetDefault("recipebox-export", cfg.LogLevel, config.GetEnvironment().JSONLogs())

	if err := run(cfg, logger, *migrationsDir, *presign, *timeout); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, migrationsDir string, presign, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return err
	}

	resources, err := database.Open(ctx, cfg, migrationsDir)
	if err != nil {
		return err
	}
	defer resources.Close()

	exporter := backup.NewS3Exporter(resources.Store, s3Config.Client, s3Config.BucketName, s3Config.Prefix, logger)
	key, count, err := exporter.Export(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d recipes to s3://%s/%s\n", count, s3Config.BucketName, key)

	if presign > 0 {
		url, err := s3Config.GeneratePresignedURL(ctx, key, presign)
		if err != nil {
			return fmt.Errorf("failed to presign snapshot: %w", err)
		}
		fmt.Println(url)
	}
	return nil
}
