package dispatcher

import (
	"context"
	"log"
)

// ApprovalLookup resolves one drug name into a merged approval result. The
// pool stays agnostic of which upstream sources the lookup consults.
type ApprovalLookup func(ctx context.Context, name string) (Result, error)

// Worker drains the work queue until it closes, writing one Result per
// Work item. Lookup failures are recorded on the result, never fatal.
func Worker(ctx context.Context, id int, queue <-chan Work, results chan<- Result, lookup ApprovalLookup) {
	log.Printf("Starting approval worker %d...\n", id)
	for work := range queue {
		if !work.IsValid() {
			continue
		}
		result, err := lookup(ctx, work.Name)
		if err != nil {
			log.Printf("Worker %d: lookup failed for %q: %v\n", id, work.Name, err)
			results <- Result{Name: work.Name, Err: err}
			continue
		}
		results <- result
	}
}
