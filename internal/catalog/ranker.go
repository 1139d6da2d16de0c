package catalog

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
)

// Admissible result sizes.
const (
	DefaultLimit = 24
	MinLimit     = 1
	MaxLimit     = 80
)

const playlistSourcePrefix = "playlist:"

// RankOptions control a single ranking request.
type RankOptions struct {
	// Limit caps the result size. Zero selects DefaultLimit; anything else
	// is clamped to [MinLimit, MaxLimit].
	Limit int

	// Shuffle randomly permutes the playlist-sourced and general groups
	// independently. The groups are never intermixed.
	Shuffle bool
}

// Ranker orders catalog tracks for a genre bucket.
type Ranker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithSource sets the random source used for shuffling. Tests use a seeded
// source for reproducible permutations.
func WithSource(src rand.Source) RankerOption {
	return func(r *Ranker) {
		r.rng = rand.New(src)
	}
}

// NewRanker creates a Ranker.
func NewRanker(opts ...RankerOption) *Ranker {
	r := &Ranker{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank filters the snapshot to the given genre bucket and returns tracks in
// ranked order: playlist-sourced rows first, then the rest, each group sorted
// by popularity descending (stable, so equal-popularity rows keep catalog
// order) or independently shuffled. With Shuffle off the result is fully
// deterministic for a given snapshot.
func (r *Ranker) Rank(snapshot *Snapshot, bucket string, opts RankOptions) []Track {
	var filtered []Track
	for _, t := range snapshot.Tracks {
		if strings.ToLower(t.Mood) == bucket {
			filtered = append(filtered, t)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Popularity > filtered[j].Popularity
	})

	var ranked []Track
	if snapshot.HasSource {
		var priority, general []Track
		for _, t := range filtered {
			if strings.HasPrefix(strings.ToLower(t.Source), playlistSourcePrefix) {
				priority = append(priority, t)
			} else {
				general = append(general, t)
			}
		}
		if opts.Shuffle {
			r.shuffle(priority)
			r.shuffle(general)
		}
		ranked = append(priority, general...)
	} else {
		if opts.Shuffle {
			r.shuffle(filtered)
		}
		ranked = filtered
	}

	limit := clampLimit(opts.Limit)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func (r *Ranker) shuffle(tracks []Track) {
	if len(tracks) < 2 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(len(tracks), func(i, j int) {
		tracks[i], tracks[j] = tracks[j], tracks[i]
	})
}

func clampLimit(limit int) int {
	if limit == 0 {
		return DefaultLimit
	}
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
