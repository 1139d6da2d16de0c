// Command mood-music runs the mood-to-music HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/justestif/go-mood-music/internal/catalog"
	"github.com/justestif/go-mood-music/internal/config"
	"github.com/justestif/go-mood-music/internal/db"
	"github.com/justestif/go-mood-music/internal/emotion"
	"github.com/justestif/go-mood-music/internal/preview"
	"github.com/justestif/go-mood-music/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	ctx := context.Background()

	// Catalog comes from Postgres when configured, else the bundled CSV.
	var source catalog.Source
	if cfg.DatabaseURL != "" {
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		source = database.Tracks()
	} else {
		fileSource, err := catalog.NewFileSource(cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		source = fileSource
	}

	pipeline := emotion.NewPipeline(cfg.CascadePath, cfg.EmotionModelPath)
	defer pipeline.Close()

	resolver := preview.NewResolver(
		preview.WithCacheSize(cfg.PreviewCacheSize),
		preview.WithProviders(
			preview.NewITunesClient(cfg.PreviewTimeout),
			preview.NewDeezerClient(cfg.PreviewTimeout),
		),
	)

	server, err := web.NewServer(web.ServerConfig{
		Addr:              cfg.Addr,
		AllowedOrigins:    cfg.AllowedOrigins,
		Analyzer:          pipeline,
		Catalog:           source,
		Ranker:            catalog.NewRanker(),
		Resolver:          resolver,
		UploadDir:         cfg.UploadDir,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		MaxPreviewLookups: cfg.MaxPreviewLookups,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}
