// Command import-playlist pulls a Spotify playlist into the track catalog.
//
// Usage:
//
//	SPOTIFY_ID=... SPOTIFY_SECRET=... import-playlist -playlist <url-or-id> [-csv data/data_moods.csv] [-source playlist:my-mix]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/justestif/go-mood-music/internal/config"
	"github.com/justestif/go-mood-music/internal/db"
	"github.com/justestif/go-mood-music/internal/importer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	playlist := flag.String("playlist", "", "Spotify playlist URL or ID (required)")
	csvPath := flag.String("csv", cfg.CatalogPath, "catalog CSV to merge into")
	databaseURL := flag.String("database", cfg.DatabaseURL, "PostgreSQL URL; overrides -csv when set")
	sourceLabel := flag.String("source", "", "source label for imported rows (default playlist:<id>)")
	flag.Parse()

	if *playlist == "" {
		flag.Usage()
		return fmt.Errorf("-playlist is required")
	}

	clientID := os.Getenv("SPOTIFY_ID")
	clientSecret := os.Getenv("SPOTIFY_SECRET")
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("please set SPOTIFY_ID and SPOTIFY_SECRET environment variables")
	}

	ctx := context.Background()

	client, err := importer.NewClient(ctx, clientID, clientSecret)
	if err != nil {
		return err
	}

	var store importer.Store
	if *databaseURL != "" {
		database, err := db.New(ctx, *databaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		store = &importer.DBStore{Tracks: database.Tracks()}
	} else {
		store = &importer.CSVStore{Path: *csvPath}
	}

	stats, err := importer.NewService(client, store).Run(ctx, *playlist, *sourceLabel)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d tracks (%d new, %d updated); catalog now holds %d\n",
		stats.Incoming, stats.New, stats.Updated, stats.Total)
	return nil
}
