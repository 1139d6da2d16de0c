package preview

import (
	"context"
	"sync"
)

// DefaultConcurrency is the number of concurrent resolution workers.
const DefaultConcurrency = 4

// Request identifies one track to resolve.
type Request struct {
	ID     string
	Name   string
	Artist string
}

// ResolveAll resolves previews for a page of tracks concurrently. Results
// align index-for-index with reqs; an empty string means no preview. All
// workers draw from the same budget, so the request as a whole never exceeds
// it.
func (r *Resolver) ResolveAll(ctx context.Context, budget *Budget, reqs []Request) []string {
	results := make([]string, len(reqs))
	if len(reqs) == 0 {
		return results
	}

	type workItem struct {
		index int
		req   Request
	}
	workCh := make(chan workItem, len(reqs))
	for i, req := range reqs {
		workCh <- workItem{index: i, req: req}
	}
	close(workCh)

	concurrency := DefaultConcurrency
	if len(reqs) < concurrency {
		concurrency = len(reqs)
	}

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for work := range workCh {
				select {
				case <-ctx.Done():
					continue
				default:
				}
				url, ok := r.Resolve(ctx, budget, work.req.ID, work.req.Name, work.req.Artist)
				if ok {
					results[work.index] = url
				}
			}
		}()
	}
	wg.Wait()

	return results
}
