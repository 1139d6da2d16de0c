// Package catalog provides the track catalog snapshot and mood-based ranking.
package catalog

// Track is a single catalog row. PreviewURL and Source are optional columns
// and default to empty when the snapshot has no value for them. Audio feature
// fields are nil when unknown; they are populated by the playlist importer
// and are not needed for ranking.
type Track struct {
	Name       string
	Album      string
	Artist     string
	ID         string
	Mood       string
	Popularity float64
	PreviewURL string
	Source     string

	ReleaseDate   string
	LengthMs      *int
	Danceability  *float64
	Acousticness  *float64
	Energy        *float64
	Instrumental  *float64
	Liveness      *float64
	Valence       *float64
	Loudness      *float64
	Speechiness   *float64
	Tempo         *float64
	Key           *int
	TimeSignature *int
}

// Snapshot is an ordered, read-only view of the catalog. HasSource reports
// whether the underlying source carried a source column at all; without one
// the ranker skips playlist partitioning entirely.
type Snapshot struct {
	Tracks    []Track
	HasSource bool
}
