package preview

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"
)

// DefaultLookupBudget caps new network lookups within one request.
const DefaultLookupBudget = 12

// lockStripes bounds the keyed-lock table. Two distinct ids sharing a stripe
// only serialize their lookups; correctness doesn't depend on the count.
const lockStripes = 64

// Budget is a shared, atomically decremented cap on new network lookups.
// Cache hits and empty-name short-circuits are free; once the budget is
// spent, remaining tracks in the request resolve to "no preview" without
// consulting providers and without negative caching.
type Budget struct {
	remaining atomic.Int64
}

// NewBudget creates a budget allowing n network lookups.
func NewBudget(n int) *Budget {
	b := &Budget{}
	b.remaining.Store(int64(n))
	return b
}

// acquire consumes one lookup if any remain.
func (b *Budget) acquire() bool {
	for {
		current := b.remaining.Load()
		if current <= 0 {
			return false
		}
		if b.remaining.CompareAndSwap(current, current-1) {
			return true
		}
	}
}

// Resolver finds preview URLs through a chain of providers, caching outcomes
// per track id.
type Resolver struct {
	cache     *Cache
	providers []Provider
	locks     [lockStripes]sync.Mutex
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCacheSize sets the bounded cache capacity.
func WithCacheSize(capacity int) ResolverOption {
	return func(r *Resolver) {
		r.cache = NewCache(capacity)
	}
}

// WithProviders replaces the provider chain. Providers are consulted in
// order; the first to yield a scored candidate with a usable URL wins.
func WithProviders(providers ...Provider) ResolverOption {
	return func(r *Resolver) {
		r.providers = providers
	}
}

// NewResolver creates a Resolver. Without options it searches iTunes first
// and falls back to Deezer, with the default cache size and timeouts.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		cache: NewCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(r)
	}
	if len(r.providers) == 0 {
		r.providers = []Provider{
			NewITunesClient(DefaultTimeout),
			NewDeezerClient(DefaultTimeout),
		}
	}
	return r
}

// Resolve returns the best-effort preview URL for a track. The second return
// is false when no preview could be found. Provider failures of any kind are
// absorbed and treated as "no result", never surfaced to the caller. A nil
// budget means unlimited lookups.
func (r *Resolver) Resolve(ctx context.Context, budget *Budget, trackID, trackName, artistName string) (string, bool) {
	key := strings.TrimSpace(trackID)

	if key != "" {
		if entry, ok := r.cache.Get(key); ok {
			return entry.URL, entry.Found
		}
	}

	// Serialize the check-then-insert sequence per key so concurrent
	// requests for the same untracked id don't all race to the network.
	lock := r.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	if key != "" {
		if entry, ok := r.cache.Get(key); ok {
			return entry.URL, entry.Found
		}
	}

	if trackName == "" {
		if key != "" {
			r.cache.Put(key, Entry{})
		}
		return "", false
	}

	if budget != nil && !budget.acquire() {
		return "", false
	}

	url := r.search(ctx, trackName, artistName)
	if key != "" {
		r.cache.Put(key, Entry{URL: url, Found: url != ""})
	}
	return url, url != ""
}

// search consults providers in order until one yields a usable candidate.
func (r *Resolver) search(ctx context.Context, trackName, artistName string) string {
	for _, provider := range r.providers {
		candidates, err := provider.Search(ctx, trackName, artistName)
		if err != nil {
			continue
		}
		if url := bestCandidateURL(trackName, artistName, candidates); url != "" {
			return url
		}
	}
	return ""
}

func (r *Resolver) lockFor(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &r.locks[h.Sum32()%lockStripes]
}
