package reconcile

import (
	"context"
)

// Store defines the remote zone operations the reconciler relies on.
// Implementations mark retryable failures with retry.Transient.
type Store interface {
	// ResolveZone returns the store identifier of the zone with the given name.
	// It returns an error wrapping ErrZoneNotFound when no such zone exists.
	ResolveZone(ctx context.Context, zoneName string) (string, error)

	// ListRecords returns every TXT record of the zone with decoded values.
	ListRecords(ctx context.Context, zoneID string) ([]Record, error)

	// Submit sends one batch of changes and returns a handle to poll.
	Submit(ctx context.Context, zoneID string, changes []Change) (string, error)

	// Status returns the propagation state of a submitted batch.
	Status(ctx context.Context, changeID string) (ChangeStatus, error)
}
