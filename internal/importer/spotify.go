// Package importer populates the track catalog from Spotify playlists.
package importer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/justestif/go-mood-music/internal/catalog"
)

const maxTracksPerRequest = 100

var playlistIDPattern = regexp.MustCompile(`/playlist/([A-Za-z0-9]+)`)

// ExtractPlaylistID parses a playlist ID out of an open.spotify.com URL.
// A bare ID is returned unchanged.
func ExtractPlaylistID(raw string) (string, error) {
	if !strings.Contains(raw, "/") {
		if raw == "" {
			return "", fmt.Errorf("empty playlist reference")
		}
		return raw, nil
	}
	match := playlistIDPattern.FindStringSubmatch(raw)
	if match == nil {
		return "", fmt.Errorf("unable to parse playlist ID from %q", raw)
	}
	return match[1], nil
}

// Client wraps the Spotify API for playlist imports.
type Client struct {
	api *spotify.Client
}

// NewClient authenticates with the client-credentials flow, which covers
// public playlist and audio-feature reads without user involvement.
func NewClient(ctx context.Context, clientID, clientSecret string) (*Client, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticating with spotify: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return &Client{api: spotify.New(httpClient)}, nil
}

// newClientForAPI wraps an already-built API client. Tests use this with a
// client pointed at a fake server.
func newClientForAPI(api *spotify.Client) *Client {
	return &Client{api: api}
}

// FetchPlaylistTracks retrieves every track of a playlist, paged at the API
// maximum of 100 items per request.
func (c *Client) FetchPlaylistTracks(ctx context.Context, playlistID string) ([]catalog.Track, error) {
	page, err := c.api.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(maxTracksPerRequest))
	if err != nil {
		return nil, fmt.Errorf("fetching playlist items: %w", err)
	}

	var tracks []catalog.Track
	for {
		for _, item := range page.Items {
			full := item.Track.Track
			if full == nil || full.ID == "" {
				continue
			}
			tracks = append(tracks, convertTrack(full))
		}

		err = c.api.NextPage(ctx, page)
		if err == spotify.ErrNoMorePages {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetching next playlist page: %w", err)
		}
	}

	return tracks, nil
}

// FetchAudioFeatures fills in audio feature fields for the given tracks,
// batching requests at 100 ids each. Tracks without available features are
// left untouched. A 403 from the audio-features endpoint degrades to a
// featureless import rather than failing it.
func (c *Client) FetchAudioFeatures(ctx context.Context, tracks []catalog.Track) ([]catalog.Track, error) {
	if len(tracks) == 0 {
		return tracks, nil
	}

	ids := make([]spotify.ID, len(tracks))
	indexByID := make(map[string]int, len(tracks))
	for i, t := range tracks {
		ids[i] = spotify.ID(t.ID)
		indexByID[t.ID] = i
	}

	for i := 0; i < len(ids); i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, len(ids))

		features, err := c.api.GetAudioFeatures(ctx, ids[i:end]...)
		if err != nil {
			var apiErr spotify.Error
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden {
				return tracks, nil
			}
			return nil, fmt.Errorf("fetching audio features (batch %d-%d): %w", i+1, end, err)
		}

		for _, f := range features {
			if f == nil {
				continue
			}
			idx, ok := indexByID[f.ID.String()]
			if !ok {
				continue
			}
			applyAudioFeatures(&tracks[idx], f)
		}
	}

	return tracks, nil
}

// convertTrack maps a Spotify track to a catalog row. Mood and source are
// filled in later by the import run.
func convertTrack(full *spotify.FullTrack) catalog.Track {
	artists := make([]string, len(full.Artists))
	for i, a := range full.Artists {
		artists[i] = a.Name
	}

	length := int(full.Duration)
	return catalog.Track{
		ID:          full.ID.String(),
		Name:        full.Name,
		Album:       full.Album.Name,
		Artist:      strings.Join(artists, ", "),
		ReleaseDate: full.Album.ReleaseDate,
		Popularity:  float64(full.Popularity),
		PreviewURL:  full.PreviewURL,
		LengthMs:    &length,
	}
}

// applyAudioFeatures copies feature values onto a catalog track.
func applyAudioFeatures(t *catalog.Track, f *spotify.AudioFeatures) {
	danceability := float64(f.Danceability)
	acousticness := float64(f.Acousticness)
	energy := float64(f.Energy)
	instrumental := float64(f.Instrumentalness)
	liveness := float64(f.Liveness)
	valence := float64(f.Valence)
	loudness := float64(f.Loudness)
	speechiness := float64(f.Speechiness)
	tempo := float64(f.Tempo)
	key := int(f.Key)
	timeSignature := int(f.TimeSignature)

	t.Danceability = &danceability
	t.Acousticness = &acousticness
	t.Energy = &energy
	t.Instrumental = &instrumental
	t.Liveness = &liveness
	t.Valence = &valence
	t.Loudness = &loudness
	t.Speechiness = &speechiness
	t.Tempo = &tempo
	t.Key = &key
	t.TimeSignature = &timeSignature
}
