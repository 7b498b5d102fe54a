package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrZoneNotFound is returned when the configured zone is not hosted by the store.
var ErrZoneNotFound = errors.New("zone not found")

// ErrNotPropagated is returned when a batch never reports INSYNC.
var ErrNotPropagated = errors.New("change not propagated")

// PartialApplyError reports a run that stopped after mutating the zone.
// Committed lists the batches that are durable; re-running reconciliation is safe.
type PartialApplyError struct {
	// Committed lists the batches that reached INSYNC before the failure.
	Committed []BatchResult

	// Batch is the index of the batch that failed.
	Batch int

	// Err is the underlying failure.
	Err error
}

func (e *PartialApplyError) Error() string {
	ids := make([]string, 0, len(e.Committed))
	for _, b := range e.Committed {
		ids = append(ids, fmt.Sprintf("%d:%s", b.Index, b.ChangeID))
	}
	return fmt.Sprintf("batch %d failed after %d committed batches [%s]: %v",
		e.Batch, len(e.Committed), strings.Join(ids, " "), e.Err)
}

func (e *PartialApplyError) Unwrap() error {
	return e.Err
}
