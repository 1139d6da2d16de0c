// Package preview resolves playable preview audio URLs for catalog tracks by
// searching external providers, with a bounded process-wide cache and a
// per-request lookup budget.
package preview

import (
	"context"
	"time"
)

const (
	// userAgent identifies this service to external catalogs.
	userAgent = "mood-music/1.0"

	// providerResultLimit bounds each provider's candidate list.
	providerResultLimit = 8

	// DefaultTimeout bounds a single provider request.
	DefaultTimeout = 6 * time.Second
)

// Candidate is one provider search result.
type Candidate struct {
	URL        string
	TrackName  string
	ArtistName string
}

// Provider searches an external catalog for preview candidates.
type Provider interface {
	Search(ctx context.Context, trackName, artistName string) ([]Candidate, error)
}
