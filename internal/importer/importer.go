package importer

import (
	"context"
	"fmt"
	"log"

	"github.com/justestif/go-mood-music/internal/catalog"
)

// TrackSource fetches playlist contents and audio features. *Client is the
// production implementation.
type TrackSource interface {
	FetchPlaylistTracks(ctx context.Context, playlistID string) ([]catalog.Track, error)
	FetchAudioFeatures(ctx context.Context, tracks []catalog.Track) ([]catalog.Track, error)
}

// Service runs playlist imports end to end: fetch, classify, merge.
type Service struct {
	source TrackSource
	store  Store
}

func NewService(source TrackSource, store Store) *Service {
	return &Service{source: source, store: store}
}

// Run imports one playlist. Every imported row is stamped with sourceLabel,
// defaulting to "playlist:<id>", so ranking can keep imported rows ahead of
// the built-in catalog.
func (s *Service) Run(ctx context.Context, playlistRef, sourceLabel string) (MergeStats, error) {
	playlistID, err := ExtractPlaylistID(playlistRef)
	if err != nil {
		return MergeStats{}, err
	}

	tracks, err := s.source.FetchPlaylistTracks(ctx, playlistID)
	if err != nil {
		return MergeStats{}, fmt.Errorf("importing playlist %s: %w", playlistID, err)
	}
	if len(tracks) == 0 {
		return MergeStats{}, fmt.Errorf("playlist %s has no importable tracks", playlistID)
	}
	log.Printf("Fetched %d tracks from playlist %s", len(tracks), playlistID)

	tracks, err = s.source.FetchAudioFeatures(ctx, tracks)
	if err != nil {
		return MergeStats{}, fmt.Errorf("importing playlist %s: %w", playlistID, err)
	}

	tracks = AssignMoods(tracks)

	if sourceLabel == "" {
		sourceLabel = "playlist:" + playlistID
	}
	for i := range tracks {
		tracks[i].Source = sourceLabel
	}

	stats, err := s.store.Merge(ctx, tracks)
	if err != nil {
		return stats, fmt.Errorf("importing playlist %s: %w", playlistID, err)
	}

	log.Printf("Merged playlist %s: %d incoming, %d new, %d updated, %d total",
		playlistID, stats.Incoming, stats.New, stats.Updated, stats.Total)
	return stats, nil
}
