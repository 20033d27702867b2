package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// HarvestInput is the caller-supplied configuration for a run.
// The token is opaque and pre-validated by the caller.
type HarvestInput struct {
	// Token is the bearer token for the review service.
	Token string

	// ProjectID identifies the project to harvest.
	ProjectID string

	// Filter restricts which leaf assets are harvested.
	Filter NameFilter

	// IncludeReviewLinks also walks the project's review links,
	// which may reference assets outside the live folder tree.
	IncludeReviewLinks bool

	// Grouped selects the folder-grouped output shape; when false
	// the flat most-recent-first shape is produced.
	Grouped bool

	// Fresh discards any existing checkpoint for the run instead of
	// resuming from it. It does not participate in the run identifier.
	Fresh bool
}

// RunID derives the checkpoint key for this input. It hashes the full
// input tuple (project, filter, review-link flag) rather than the
// project ID alone, so changing the filter between runs starts a fresh
// run instead of resuming against stale filter assumptions.
func (in HarvestInput) RunID() string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%t",
		in.ProjectID, in.Filter.Canonical(), in.IncludeReviewLinks))
	return hex.EncodeToString(sum[:])[:16]
}

// Checkpoint is the persisted progress of a harvest run. It grows
// monotonically (asset IDs are only ever added) until the run
// completes, at which point the store clears it.
type Checkpoint struct {
	// ProcessedIDs is the set of asset IDs already harvested.
	ProcessedIDs map[string]bool `json:"processed_ids"`

	// Partial is the accumulated per-asset report data.
	Partial []AssetReport `json:"partial"`

	// SavedAt is when the checkpoint was last written.
	SavedAt time.Time `json:"saved_at"`
}

// NewCheckpoint returns an empty checkpoint.
func NewCheckpoint() *Checkpoint {
	return &Checkpoint{ProcessedIDs: make(map[string]bool)}
}

// Processed reports whether an asset ID has already been harvested.
// Membership alone decides: even if the partial report entry for the
// ID is missing, the asset is treated as processed with no feedback
// rather than re-fetched.
func (c *Checkpoint) Processed(assetID string) bool {
	return c.ProcessedIDs[assetID]
}

// MarkProcessed records an asset as harvested, optionally with its
// report entry. Assets with no feedback pass a nil entry.
func (c *Checkpoint) MarkProcessed(assetID string, entry *AssetReport) {
	if c.ProcessedIDs == nil {
		c.ProcessedIDs = make(map[string]bool)
	}
	c.ProcessedIDs[assetID] = true
	if entry != nil {
		c.Partial = append(c.Partial, *entry)
	}
}
