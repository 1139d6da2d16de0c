package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// fakeProvider records how often it is consulted.
type fakeProvider struct {
	calls      atomic.Int32
	candidates []Candidate
	err        error
}

func (f *fakeProvider) Search(ctx context.Context, trackName, artistName string) ([]Candidate, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func TestResolve_CacheHitSkipsNetwork(t *testing.T) {
	provider := &fakeProvider{candidates: []Candidate{
		{URL: "https://example.com/a.m4a", TrackName: "Song", ArtistName: "Artist"},
	}}
	r := NewResolver(WithProviders(provider))

	url, ok := r.Resolve(context.Background(), nil, "id1", "Song", "Artist")
	if !ok || url != "https://example.com/a.m4a" {
		t.Fatalf("first Resolve() = %q, %v", url, ok)
	}

	url, ok = r.Resolve(context.Background(), nil, "id1", "Song", "Artist")
	if !ok || url != "https://example.com/a.m4a" {
		t.Fatalf("second Resolve() = %q, %v", url, ok)
	}

	if count := provider.calls.Load(); count != 1 {
		t.Errorf("provider consulted %d times, want 1", count)
	}
}

func TestResolve_CachedNoPreviewSkipsNetwork(t *testing.T) {
	provider := &fakeProvider{} // no candidates
	r := NewResolver(WithProviders(provider))

	if _, ok := r.Resolve(context.Background(), nil, "id1", "Song", "Artist"); ok {
		t.Fatal("Resolve() found a preview, want none")
	}
	if _, ok := r.Resolve(context.Background(), nil, "id1", "Song", "Artist"); ok {
		t.Fatal("second Resolve() found a preview, want cached none")
	}

	if count := provider.calls.Load(); count != 1 {
		t.Errorf("provider consulted %d times, want 1 (no-preview must be cached)", count)
	}
}

func TestResolve_FallsBackToSecondary(t *testing.T) {
	primary := &fakeProvider{err: errors.New("connection refused")}
	secondary := &fakeProvider{candidates: []Candidate{
		{URL: "https://example.com/b.mp3", TrackName: "Song", ArtistName: "Artist"},
	}}
	r := NewResolver(WithProviders(primary, secondary))

	url, ok := r.Resolve(context.Background(), nil, "id1", "Song", "Artist")
	if !ok || url != "https://example.com/b.mp3" {
		t.Errorf("Resolve() = %q, %v, want secondary's preview", url, ok)
	}
	if primary.calls.Load() != 1 || secondary.calls.Load() != 1 {
		t.Errorf("calls = %d/%d, want 1/1", primary.calls.Load(), secondary.calls.Load())
	}
}

func TestResolve_BothProvidersFail(t *testing.T) {
	primary := &fakeProvider{err: errors.New("timeout")}
	secondary := &fakeProvider{err: errors.New("bad gateway")}
	r := NewResolver(WithProviders(primary, secondary))

	// Provider failures are absorbed, never propagated.
	if url, ok := r.Resolve(context.Background(), nil, "id1", "Song", "Artist"); ok || url != "" {
		t.Errorf("Resolve() = %q, %v, want no preview", url, ok)
	}
}

func TestResolve_EmptyNameSkipsProviders(t *testing.T) {
	provider := &fakeProvider{candidates: []Candidate{{URL: "https://example.com/a.m4a"}}}
	r := NewResolver(WithProviders(provider))

	if _, ok := r.Resolve(context.Background(), nil, "id1", "", "Artist"); ok {
		t.Fatal("Resolve() with empty name found a preview")
	}
	if count := provider.calls.Load(); count != 0 {
		t.Errorf("provider consulted %d times, want 0", count)
	}

	// The empty-name outcome is cached under the id.
	if entry, ok := r.cache.Get("id1"); !ok || entry.Found {
		t.Errorf("cache entry = %+v, %v, want cached no-preview", entry, ok)
	}
}

func TestResolve_Scoring(t *testing.T) {
	provider := &fakeProvider{candidates: []Candidate{
		{URL: "https://example.com/cover.m4a", TrackName: "Let It Be", ArtistName: "Beatles Tribute Band"},
		{URL: "https://example.com/remaster.m4a", TrackName: "Let It Be - Remastered", ArtistName: "The Beatles"},
	}}
	r := NewResolver(WithProviders(provider))

	// Substring track (+2) plus exact artist (+4) beats exact track (+5)
	// with substring artist (+1).
	url, ok := r.Resolve(context.Background(), nil, "id1", "Let It Be", "The Beatles")
	if !ok || url != "https://example.com/remaster.m4a" {
		t.Errorf("Resolve() = %q, %v, want remaster candidate", url, ok)
	}
}

func TestResolve_ScoringTieFirstSeenWins(t *testing.T) {
	provider := &fakeProvider{candidates: []Candidate{
		{URL: "https://example.com/first.m4a", TrackName: "Song", ArtistName: "Artist"},
		{URL: "https://example.com/second.m4a", TrackName: "Song", ArtistName: "Artist"},
	}}
	r := NewResolver(WithProviders(provider))

	url, _ := r.Resolve(context.Background(), nil, "id1", "Song", "Artist")
	if url != "https://example.com/first.m4a" {
		t.Errorf("Resolve() = %q, want first of tied candidates", url)
	}
}

func TestResolve_SkipsCandidatesWithoutURL(t *testing.T) {
	provider := &fakeProvider{candidates: []Candidate{
		{URL: "", TrackName: "Song", ArtistName: "Artist"}, // perfect match, no preview
		{URL: "https://example.com/weak.m4a", TrackName: "Unrelated", ArtistName: "Somebody"},
	}}
	r := NewResolver(WithProviders(provider))

	url, ok := r.Resolve(context.Background(), nil, "id1", "Song", "Artist")
	if !ok || url != "https://example.com/weak.m4a" {
		t.Errorf("Resolve() = %q, %v, want the only candidate with a URL", url, ok)
	}
}

func TestResolve_BudgetExhaustion(t *testing.T) {
	provider := &fakeProvider{candidates: []Candidate{
		{URL: "https://example.com/a.m4a", TrackName: "Song", ArtistName: "Artist"},
	}}
	r := NewResolver(WithProviders(provider))
	budget := NewBudget(1)

	if _, ok := r.Resolve(context.Background(), budget, "id1", "Song", "Artist"); !ok {
		t.Fatal("first Resolve() found no preview")
	}
	if _, ok := r.Resolve(context.Background(), budget, "id2", "Song", "Artist"); ok {
		t.Fatal("second Resolve() found a preview, want budget-skipped")
	}
	if count := provider.calls.Load(); count != 1 {
		t.Fatalf("provider consulted %d times, want 1", count)
	}

	// Budget-skipped tracks are not negatively cached: a later request with
	// a fresh budget still resolves them.
	if _, ok := r.Resolve(context.Background(), NewBudget(1), "id2", "Song", "Artist"); !ok {
		t.Error("Resolve() with fresh budget found no preview, want retry to succeed")
	}
	if count := provider.calls.Load(); count != 2 {
		t.Errorf("provider consulted %d times, want 2", count)
	}
}

func TestResolveAll_SharedBudget(t *testing.T) {
	provider := &fakeProvider{candidates: []Candidate{
		{URL: "https://example.com/a.m4a", TrackName: "Song", ArtistName: "Artist"},
	}}
	r := NewResolver(WithProviders(provider))

	reqs := make([]Request, 10)
	for i := range reqs {
		reqs[i] = Request{ID: "", Name: "Song", Artist: "Artist"}
	}

	results := r.ResolveAll(context.Background(), NewBudget(3), reqs)
	if len(results) != len(reqs) {
		t.Fatalf("ResolveAll() returned %d results, want %d", len(results), len(reqs))
	}

	// Uncacheable requests (empty ids) each need a lookup; the shared budget
	// caps the provider calls across all workers.
	if count := provider.calls.Load(); count != 3 {
		t.Errorf("provider consulted %d times, want exactly 3", count)
	}

	resolved := 0
	for _, url := range results {
		if url != "" {
			resolved++
		}
	}
	if resolved != 3 {
		t.Errorf("%d results resolved, want 3", resolved)
	}
}

func TestResolveAll_AlignsResults(t *testing.T) {
	provider := &fakeProvider{candidates: []Candidate{
		{URL: "https://example.com/a.m4a", TrackName: "Song", ArtistName: "Artist"},
	}}
	r := NewResolver(WithProviders(provider))

	reqs := []Request{
		{ID: "id1", Name: "Song", Artist: "Artist"},
		{ID: "id2", Name: "", Artist: "Artist"}, // empty name: no preview
		{ID: "id3", Name: "Song", Artist: "Artist"},
	}

	results := r.ResolveAll(context.Background(), NewBudget(DefaultLookupBudget), reqs)
	if results[0] == "" || results[2] == "" {
		t.Errorf("results = %v, want previews at 0 and 2", results)
	}
	if results[1] != "" {
		t.Errorf("results[1] = %q, want empty for empty-name track", results[1])
	}
}

func TestITunesClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("entity"); got != "song" {
			t.Errorf("entity = %q, want song", got)
		}
		if got := r.URL.Query().Get("limit"); got != "8" {
			t.Errorf("limit = %q, want 8", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"trackName": "Song", "artistName": "Artist", "previewUrl": "https://example.com/p.m4a"},
				{"trackName": "No Preview", "artistName": "Artist"},
			},
		})
	}))
	defer server.Close()

	client := &ITunesClient{httpClient: server.Client(), baseURL: server.URL}
	candidates, err := client.Search(context.Background(), "Song", "Artist")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("Search() got %d candidates, want 2", len(candidates))
	}
	if candidates[0].URL != "https://example.com/p.m4a" || candidates[0].TrackName != "Song" {
		t.Errorf("unexpected first candidate: %+v", candidates[0])
	}
	if candidates[1].URL != "" {
		t.Errorf("candidates[1].URL = %q, want empty", candidates[1].URL)
	}
}

func TestDeezerClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"title": "Song", "preview": "https://example.com/p.mp3", "artist": map[string]any{"name": "Artist"}},
			},
		})
	}))
	defer server.Close()

	client := &DeezerClient{httpClient: server.Client(), baseURL: server.URL}
	candidates, err := client.Search(context.Background(), "Song", "Artist")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Search() got %d candidates, want 1", len(candidates))
	}
	got := candidates[0]
	if got.URL != "https://example.com/p.mp3" || got.TrackName != "Song" || got.ArtistName != "Artist" {
		t.Errorf("unexpected candidate: %+v", got)
	}
}

func TestProviderClient_HTTPErrorsSurface(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	itunes := &ITunesClient{httpClient: server.Client(), baseURL: server.URL}
	if _, err := itunes.Search(context.Background(), "Song", "Artist"); err == nil {
		t.Error("iTunes Search() error = nil, want non-2xx error")
	}

	deezer := &DeezerClient{httpClient: server.Client(), baseURL: server.URL}
	if _, err := deezer.Search(context.Background(), "Song", "Artist"); err == nil {
		t.Error("Deezer Search() error = nil, want non-2xx error")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Let It Be", "letitbe"},
		{"Let It Be - Remastered 2009", "letitberemastered2009"},
		{"The Beatles", "thebeatles"},
		{"", ""},
		{"  ...  ", ""},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScoreCandidate(t *testing.T) {
	tests := []struct {
		name      string
		candidate Candidate
		want      int
	}{
		{
			name:      "exact track and artist",
			candidate: Candidate{TrackName: "Let It Be", ArtistName: "The Beatles"},
			want:      9,
		},
		{
			name:      "substring track, exact artist",
			candidate: Candidate{TrackName: "Let It Be - Remastered", ArtistName: "The Beatles"},
			want:      6,
		},
		{
			name:      "exact track, substring artist",
			candidate: Candidate{TrackName: "Let It Be", ArtistName: "The Beatles Revival"},
			want:      6,
		},
		{
			name:      "no match",
			candidate: Candidate{TrackName: "Yesterday", ArtistName: "Somebody"},
			want:      0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreCandidate("Let It Be", "The Beatles", tt.candidate); got != tt.want {
				t.Errorf("scoreCandidate() = %d, want %d", got, tt.want)
			}
		})
	}
}
