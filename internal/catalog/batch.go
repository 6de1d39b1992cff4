// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/odinsource/pkg/types"
)

// BatchOutcome is the per-entry result of a batch insert.
type BatchOutcome struct {
	// Index is the entry's position in the input sequence.
	Index int

	// Title echoes the draft title for reporting.
	Title string

	// ID is the new document id when Err is nil.
	ID int64

	// Err is the entry's failure, if any.
	Err error
}

// BatchSummary holds counts from a batch insert run.
type BatchSummary struct {
	Added  int
	Failed int
}

// Total returns the number of drafts processed.
func (s BatchSummary) Total() int {
	return s.Added + s.Failed
}

// BatchInsert applies Insert to each draft independently. One draft's
// failure (a duplicate, a bad path) never aborts or rolls back the others;
// the caller gets an outcome per entry so partial success is observable.
// Progress is written to w as entries are processed.
func (s *Store) BatchInsert(ctx context.Context, drafts []types.DocumentDraft, w io.Writer) ([]BatchOutcome, BatchSummary) {
	outcomes := make([]BatchOutcome, 0, len(drafts))
	var summary BatchSummary

	for i, draft := range drafts {
		select {
		case <-ctx.Done():
			outcomes = append(outcomes, BatchOutcome{Index: i, Title: draft.Title, Err: ctx.Err()})
			summary.Failed++
			continue
		default:
		}

		id, err := s.Insert(ctx, draft)
		if err != nil {
			fmt.Fprintf(w, "failed  %q: %v\n", draft.Title, err)
			outcomes = append(outcomes, BatchOutcome{Index: i, Title: draft.Title, Err: err})
			summary.Failed++
			continue
		}

		fmt.Fprintf(w, "added   %q as id %d\n", draft.Title, id)
		outcomes = append(outcomes, BatchOutcome{Index: i, Title: draft.Title, ID: id})
		summary.Added++
	}

	fmt.Fprintf(w, "\nadded: %d, failed: %d\n", summary.Added, summary.Failed)
	return outcomes, summary
}
