// ABOUTME: Error taxonomy for the storage adapter
// ABOUTME: Sentinel ErrNotFound plus typed dimension mismatch errors
package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a direct-by-id fetch for a required entity
// found nothing. Distinct from the context retrieval engine's silent-skip
// policy, which is a best-effort contract on a different operation.
var ErrNotFound = errors.New("not found")

// DimensionMismatchError reports an embedding whose length does not equal
// the collection's declared dimension. The offending batch is rejected as
// a whole; no partial writes happen.
type DimensionMismatchError struct {
	Collection string
	RecordID   string
	Want       int
	Got        int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch in collection %q: record %q has %d dimensions, want %d",
		e.Collection, e.RecordID, e.Got, e.Want)
}
