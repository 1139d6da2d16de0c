package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const deezerBaseURL = "https://api.deezer.com/search"

// DeezerClient searches the Deezer catalog, the fallback preview source.
type DeezerClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewDeezerClient creates a Deezer search client with the given per-request
// timeout.
func NewDeezerClient(timeout time.Duration) *DeezerClient {
	return &DeezerClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    deezerBaseURL,
	}
}

type deezerResponse struct {
	Data []struct {
		Title   string `json:"title"`
		Preview string `json:"preview"`
		Artist  struct {
			Name string `json:"name"`
		} `json:"artist"`
	} `json:"data"`
}

// Search queries the Deezer search endpoint for track previews.
func (c *DeezerClient) Search(ctx context.Context, trackName, artistName string) ([]Candidate, error) {
	params := url.Values{
		"q":     {fmt.Sprintf("track:%q artist:%q", trackName, artistName)},
		"limit": {strconv.Itoa(providerResultLimit)},
	}

	body, err := fetchJSON(ctx, c.httpClient, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("searching deezer: %w", err)
	}

	var resp deezerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing deezer response: %w", err)
	}

	candidates := make([]Candidate, 0, len(resp.Data))
	for _, result := range resp.Data {
		candidates = append(candidates, Candidate{
			URL:        result.Preview,
			TrackName:  result.Title,
			ArtistName: result.Artist.Name,
		})
	}
	return candidates, nil
}
