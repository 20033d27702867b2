package driving

import (
	"context"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

// HarvestOrchestrator coordinates a full feedback harvest of a project.
type HarvestOrchestrator interface {
	// Harvest walks the project tree, fetches feedback for every
	// eligible asset and returns the assembled report. Interrupted
	// runs resume from the last saved checkpoint.
	Harvest(ctx context.Context, in domain.HarvestInput) (*domain.Report, error)

	// Status returns progress for an in-flight harvest, keyed by the
	// input's run identifier. Returns nil when no harvest is active.
	Status(ctx context.Context, runID string) (*HarvestStatus, error)
}

// HarvestStatus represents the current state of a harvest run.
type HarvestStatus struct {
	// SessionID uniquely identifies this process's attempt at the run.
	SessionID string

	// RunID is the checkpoint key being processed.
	RunID string

	// Running indicates if the harvest is currently in progress.
	Running bool

	// AssetsFound is the number of eligible assets discovered.
	AssetsFound int

	// AssetsProcessed is the count of assets harvested so far,
	// including assets restored from a checkpoint.
	AssetsProcessed int

	// ErrorCount is the number of per-item errors encountered.
	ErrorCount int
}
