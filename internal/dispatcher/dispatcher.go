package dispatcher

import (
	"context"
	"log"
	"sync"
)

// BatchLookup resolves a batch of drug names with a bounded fan-out of
// workerCount concurrent lookups. Every name produces exactly one result,
// in input order; individual failures are carried on their result so one
// broken branch cannot sink the batch.
func BatchLookup(ctx context.Context, names []string, workerCount int, lookup ApprovalLookup) []Result {
	if workerCount < 1 {
		workerCount = 1
	}
	log.Printf("Starting approval batch of %d names with %d workers...\n", len(names), workerCount)

	queue := make(chan Work, len(names))
	results := make(chan Result, len(names))

	var wg sync.WaitGroup
	for i := 1; i <= workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			Worker(ctx, id, queue, results, lookup)
		}(i)
	}

	expected := 0
	for _, name := range names {
		work := Work{Name: name}
		if !work.IsValid() {
			continue
		}
		queue <- work
		expected++
	}
	close(queue)

	go func() {
		wg.Wait()
		close(results)
	}()

	byName := make(map[string]Result, expected)
	for result := range results {
		byName[result.Name] = result
	}

	out := make([]Result, 0, expected)
	seen := make(map[string]bool, expected)
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, byName[name])
	}
	return out
}
