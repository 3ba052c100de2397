package ports

import (
	"context"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
)

// SnapshotStore persists the whole tracker state as a single blob.
// Save overwrites the previous snapshot; there is no incremental log.
type SnapshotStore interface {
	// Load returns the stored snapshot and whether one existed.
	Load(ctx context.Context) (domain.State, bool, error)
	Save(ctx context.Context, state domain.State) error
}

// Locator resolves the device position once. Implementations do not poll
// or retry; a failed lookup is reported to the caller as an error.
type Locator interface {
	Locate(ctx context.Context) (domain.Location, error)
}
