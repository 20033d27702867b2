package driven

import (
	"context"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

// CheckpointStore persists harvest progress keyed by run identifier.
type CheckpointStore interface {
	// Load returns the checkpoint for a run. A missing or corrupt
	// checkpoint yields an empty checkpoint and nil error; corruption
	// only discards stale progress, it never aborts a run.
	Load(ctx context.Context, runID string) (*domain.Checkpoint, error)

	// Save persists the checkpoint synchronously. Implementations
	// must replace atomically (write aside, then rename) so an
	// interrupted save never leaves a corrupt file in place.
	Save(ctx context.Context, runID string, cp *domain.Checkpoint) error

	// Clear removes the checkpoint after a run completes.
	Clear(ctx context.Context, runID string) error
}
