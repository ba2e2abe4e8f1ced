// Command tunequest runs the game-session playlist API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/tunequest/tunequest/internal/config"
	"github.com/tunequest/tunequest/internal/db"
	"github.com/tunequest/tunequest/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	ctx := context.Background()
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	server := web.NewServer(web.ServerConfig{
		Addr:               cfg.Addr,
		CORSOrigins:        cfg.CORSOrigins,
		AnalyticsRateLimit: cfg.AnalyticsRateLimit,
		Logger:             log,
		DB:                 database,
	})

	return server.Run()
}
