package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/go-mood-music/internal/catalog"
)

// TrackStore handles catalog track database operations. The tracks table
// always carries a source column, so database-backed snapshots always enable
// playlist partitioning.
type TrackStore struct {
	pool *pgxpool.Pool
}

const trackColumns = `
	id, name, album, artist, release_date, popularity, length_ms,
	danceability, acousticness, energy, instrumentalness, liveness,
	valence, loudness, speechiness, tempo, key, time_signature,
	mood, preview_url, source
`

// Snapshot loads the whole catalog as an ordered, read-only snapshot.
// Row order is the insertion order, matching CSV file order semantics.
func (s *TrackStore) Snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks ORDER BY inserted_at, id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	snapshot := &catalog.Snapshot{HasSource: true}
	for rows.Next() {
		var t catalog.Track
		var album, releaseDate, previewURL, source *string
		if err := rows.Scan(
			&t.ID, &t.Name, &album, &t.Artist, &releaseDate, &t.Popularity,
			&t.LengthMs, &t.Danceability, &t.Acousticness, &t.Energy,
			&t.Instrumental, &t.Liveness, &t.Valence, &t.Loudness,
			&t.Speechiness, &t.Tempo, &t.Key, &t.TimeSignature,
			&t.Mood, &previewURL, &source,
		); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		t.Album = stringValue(album)
		t.ReleaseDate = stringValue(releaseDate)
		t.PreviewURL = stringValue(previewURL)
		t.Source = stringValue(source)
		snapshot.Tracks = append(snapshot.Tracks, t)
	}
	return snapshot, rows.Err()
}

// Get retrieves a track by ID.
func (s *TrackStore) Get(ctx context.Context, id string) (*catalog.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE id = $1`

	var t catalog.Track
	var album, releaseDate, previewURL, source *string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &album, &t.Artist, &releaseDate, &t.Popularity,
		&t.LengthMs, &t.Danceability, &t.Acousticness, &t.Energy,
		&t.Instrumental, &t.Liveness, &t.Valence, &t.Loudness,
		&t.Speechiness, &t.Tempo, &t.Key, &t.TimeSignature,
		&t.Mood, &previewURL, &source,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying track: %w", err)
	}
	t.Album = stringValue(album)
	t.ReleaseDate = stringValue(releaseDate)
	t.PreviewURL = stringValue(previewURL)
	t.Source = stringValue(source)
	return &t, nil
}

// UpsertBatch inserts or updates multiple tracks efficiently and reports how
// many rows were new versus refreshed. New rows keep their insertion
// timestamp so snapshot order stays stable across refreshes.
func (s *TrackStore) UpsertBatch(ctx context.Context, tracks []catalog.Track) (inserted, updated int, err error) {
	if len(tracks) == 0 {
		return 0, 0, nil
	}

	query := `
		INSERT INTO tracks (
			id, name, album, artist, release_date, popularity, length_ms,
			danceability, acousticness, energy, instrumentalness, liveness,
			valence, loudness, speechiness, tempo, key, time_signature,
			mood, preview_url, source, inserted_at
		)
		SELECT *, NOW() FROM unnest(
			$1::text[], $2::text[], $3::text[], $4::text[], $5::text[],
			$6::float8[], $7::int[], $8::float8[], $9::float8[], $10::float8[],
			$11::float8[], $12::float8[], $13::float8[], $14::float8[],
			$15::float8[], $16::float8[], $17::int[], $18::int[],
			$19::text[], $20::text[], $21::text[]
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			album = EXCLUDED.album,
			artist = EXCLUDED.artist,
			release_date = EXCLUDED.release_date,
			popularity = EXCLUDED.popularity,
			length_ms = EXCLUDED.length_ms,
			danceability = EXCLUDED.danceability,
			acousticness = EXCLUDED.acousticness,
			energy = EXCLUDED.energy,
			instrumentalness = EXCLUDED.instrumentalness,
			liveness = EXCLUDED.liveness,
			valence = EXCLUDED.valence,
			loudness = EXCLUDED.loudness,
			speechiness = EXCLUDED.speechiness,
			tempo = EXCLUDED.tempo,
			key = EXCLUDED.key,
			time_signature = EXCLUDED.time_signature,
			mood = EXCLUDED.mood,
			preview_url = EXCLUDED.preview_url,
			source = EXCLUDED.source
		RETURNING (xmax = 0) AS inserted
	`

	n := len(tracks)
	ids := make([]string, n)
	names := make([]string, n)
	albums := make([]string, n)
	artists := make([]string, n)
	releaseDates := make([]string, n)
	popularities := make([]float64, n)
	lengths := make([]*int, n)
	danceabilities := make([]*float64, n)
	acousticnesses := make([]*float64, n)
	energies := make([]*float64, n)
	instrumentals := make([]*float64, n)
	livenesses := make([]*float64, n)
	valences := make([]*float64, n)
	loudnesses := make([]*float64, n)
	speechinesses := make([]*float64, n)
	tempos := make([]*float64, n)
	keys := make([]*int, n)
	timeSignatures := make([]*int, n)
	moods := make([]string, n)
	previewURLs := make([]string, n)
	sources := make([]string, n)

	for i, t := range tracks {
		ids[i] = t.ID
		names[i] = t.Name
		albums[i] = t.Album
		artists[i] = t.Artist
		releaseDates[i] = t.ReleaseDate
		popularities[i] = t.Popularity
		lengths[i] = t.LengthMs
		danceabilities[i] = t.Danceability
		acousticnesses[i] = t.Acousticness
		energies[i] = t.Energy
		instrumentals[i] = t.Instrumental
		livenesses[i] = t.Liveness
		valences[i] = t.Valence
		loudnesses[i] = t.Loudness
		speechinesses[i] = t.Speechiness
		tempos[i] = t.Tempo
		keys[i] = t.Key
		timeSignatures[i] = t.TimeSignature
		moods[i] = t.Mood
		previewURLs[i] = t.PreviewURL
		sources[i] = t.Source
	}

	rows, err := s.pool.Query(ctx, query,
		ids, names, albums, artists, releaseDates, popularities, lengths,
		danceabilities, acousticnesses, energies, instrumentals, livenesses,
		valences, loudnesses, speechinesses, tempos, keys, timeSignatures,
		moods, previewURLs, sources,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("batch upserting tracks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var isNew bool
		if err := rows.Scan(&isNew); err != nil {
			return inserted, updated, fmt.Errorf("scanning upsert result: %w", err)
		}
		if isNew {
			inserted++
		} else {
			updated++
		}
	}
	if err := rows.Err(); err != nil {
		return inserted, updated, fmt.Errorf("batch upserting tracks: %w", err)
	}
	return inserted, updated, nil
}

// Count returns the number of tracks in the catalog.
func (s *TrackStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tracks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting tracks: %w", err)
	}
	return n, nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
