package importer

import (
	"context"
	"fmt"
	"os"

	"github.com/justestif/go-mood-music/internal/catalog"
	"github.com/justestif/go-mood-music/internal/db"
)

// MergeStats summarizes a merge into a catalog store.
type MergeStats struct {
	Incoming int
	New      int
	Updated  int
	Total    int
}

// Store persists imported tracks into an existing catalog, keyed by track ID.
type Store interface {
	Merge(ctx context.Context, tracks []catalog.Track) (MergeStats, error)
}

// CSVStore merges tracks into a catalog CSV file, preserving the order of
// rows that were already present and appending new ones.
type CSVStore struct {
	Path string
}

func (s *CSVStore) Merge(_ context.Context, tracks []catalog.Track) (MergeStats, error) {
	stats := MergeStats{Incoming: len(tracks)}

	existing := &catalog.Snapshot{HasSource: true}
	if _, err := os.Stat(s.Path); err == nil {
		existing, err = catalog.LoadCSV(s.Path)
		if err != nil {
			return stats, fmt.Errorf("loading catalog %s: %w", s.Path, err)
		}
	} else if !os.IsNotExist(err) {
		return stats, fmt.Errorf("checking catalog %s: %w", s.Path, err)
	}

	byID := make(map[string]int, len(existing.Tracks))
	for i, t := range existing.Tracks {
		if t.ID != "" {
			byID[t.ID] = i
		}
	}

	merged := existing.Tracks
	for _, t := range tracks {
		if i, ok := byID[t.ID]; ok && t.ID != "" {
			merged[i] = t
			stats.Updated++
			continue
		}
		if t.ID != "" {
			byID[t.ID] = len(merged)
		}
		merged = append(merged, t)
		stats.New++
	}
	stats.Total = len(merged)

	f, err := os.Create(s.Path)
	if err != nil {
		return stats, fmt.Errorf("writing catalog %s: %w", s.Path, err)
	}
	defer f.Close()

	out := &catalog.Snapshot{Tracks: merged, HasSource: true}
	if err := catalog.WriteCSV(f, out); err != nil {
		return stats, fmt.Errorf("writing catalog %s: %w", s.Path, err)
	}
	if err := f.Close(); err != nil {
		return stats, fmt.Errorf("writing catalog %s: %w", s.Path, err)
	}
	return stats, nil
}

// DBStore merges tracks through a Postgres track store.
type DBStore struct {
	Tracks *db.TrackStore
}

func (s *DBStore) Merge(ctx context.Context, tracks []catalog.Track) (MergeStats, error) {
	stats := MergeStats{Incoming: len(tracks)}

	inserted, updated, err := s.Tracks.UpsertBatch(ctx, tracks)
	if err != nil {
		return stats, fmt.Errorf("upserting tracks: %w", err)
	}
	stats.New = inserted
	stats.Updated = updated

	total, err := s.Tracks.Count(ctx)
	if err != nil {
		return stats, fmt.Errorf("counting tracks: %w", err)
	}
	stats.Total = total
	return stats, nil
}
