// Command tunequest-import loads Spotify tracks into the catalog. It reads
// one track ID per line from the given file, fetches metadata, audio features,
// and artist genres, and upserts the results.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tunequest/tunequest/internal/catalog"
	"github.com/tunequest/tunequest/internal/config"
	"github.com/tunequest/tunequest/internal/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	idsPath := flag.String("ids-file", "", "file with one Spotify track ID per line")
	flag.Parse()

	if *idsPath == "" {
		return fmt.Errorf("-ids-file is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Spotify.ClientID == "" || cfg.Spotify.ClientSecret == "" {
		return fmt.Errorf("spotify client_id and client_secret are required for imports")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	ids, err := readIDs(*idsPath)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no track IDs in %s", *idsPath)
	}

	ctx := context.Background()
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	client, err := catalog.NewClient(ctx, cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	if err != nil {
		return fmt.Errorf("creating spotify client: %w", err)
	}

	result, err := catalog.New(database, client, log).ImportTracks(ctx, ids)
	if err != nil {
		return fmt.Errorf("importing tracks: %w", err)
	}

	fmt.Printf("Imported %d tracks\n", result.Imported)
	for _, id := range result.Missing {
		fmt.Printf("Missing: %s\n", id)
	}
	return nil
}

// readIDs parses the ID file, skipping blank lines and # comments.
func readIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ids file: %w", err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ids file: %w", err)
	}
	return ids, nil
}
