package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const itunesBaseURL = "https://itunes.apple.com/search"

// ITunesClient searches the iTunes song catalog, the primary preview source.
type ITunesClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewITunesClient creates an iTunes search client with the given per-request
// timeout.
func NewITunesClient(timeout time.Duration) *ITunesClient {
	return &ITunesClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    itunesBaseURL,
	}
}

type itunesResponse struct {
	Results []struct {
		TrackName  string `json:"trackName"`
		ArtistName string `json:"artistName"`
		PreviewURL string `json:"previewUrl"`
	} `json:"results"`
}

// Search queries the iTunes search endpoint for song previews.
func (c *ITunesClient) Search(ctx context.Context, trackName, artistName string) ([]Candidate, error) {
	params := url.Values{
		"term":   {trackName + " " + artistName},
		"entity": {"song"},
		"limit":  {strconv.Itoa(providerResultLimit)},
	}

	body, err := fetchJSON(ctx, c.httpClient, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("searching itunes: %w", err)
	}

	var resp itunesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing itunes response: %w", err)
	}

	candidates := make([]Candidate, 0, len(resp.Results))
	for _, result := range resp.Results {
		candidates = append(candidates, Candidate{
			URL:        result.PreviewURL,
			TrackName:  result.TrackName,
			ArtistName: result.ArtistName,
		})
	}
	return candidates, nil
}

// fetchJSON performs a GET request and returns the response body. Non-2xx
// statuses are errors.
func fetchJSON(ctx context.Context, client *http.Client, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
