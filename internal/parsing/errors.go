package parsing

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the expected wrapper element of a document is
// absent or contains zero entries, e.g. no citation for a given PMID.
var ErrNotFound = errors.New("document not found")

// AggregateError reports that both sides of a two-source operation failed.
// Individual failure reasons are retained for diagnostics.
type AggregateError struct {
	US error
	UK error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("both sources failed: us: %v, uk: %v", e.US, e.UK)
}
