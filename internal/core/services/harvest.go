package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports/driven"
	"github.com/reelnotes/reelnotes/internal/core/ports/driving"
	"github.com/reelnotes/reelnotes/internal/logger"
	"github.com/reelnotes/reelnotes/internal/normalisers/feedback"
)

// Ensure Harvester implements the interface.
var _ driving.HarvestOrchestrator = (*Harvester)(nil)

// APIFactory builds a review API client for a token. The orchestrator
// never sees the token beyond handing it here.
type APIFactory func(ctx context.Context, token string) driven.ReviewAPI

// Options tunes a Harvester beyond the per-run input.
type Options struct {
	// Exclusion skips containers by name substring.
	Exclusion domain.ContainerExclusion

	// Frame is the annotation render target.
	Frame feedback.Frame

	// Palette overrides the default comment color palette.
	Palette []string

	// Now is the report clock. Defaults to time.Now.
	Now func() time.Time
}

// Harvester coordinates a full feedback harvest: walk the tree, skip
// checkpointed assets, normalise the rest one at a time (saving after
// each), then aggregate. A single logical thread drives each run; the
// provider's rate limit makes parallel fan-out counterproductive.
type Harvester struct {
	factory     APIFactory
	checkpoints driven.CheckpointStore
	opts        Options

	// Status tracking
	mu         sync.RWMutex
	activeRuns map[string]*driving.HarvestStatus
}

// NewHarvester creates a harvest orchestrator.
func NewHarvester(factory APIFactory, checkpoints driven.CheckpointStore, opts Options) *Harvester {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Harvester{
		factory:     factory,
		checkpoints: checkpoints,
		opts:        opts,
		activeRuns:  make(map[string]*driving.HarvestStatus),
	}
}

// Harvest runs a full harvest for the input, resuming from any
// checkpoint saved under the same run identifier.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (h *Harvester) Harvest(ctx context.Context, in domain.HarvestInput) (*domain.Report, error) {
	runID := in.RunID()

	status := &driving.HarvestStatus{
		SessionID: uuid.NewString(),
		RunID:     runID,
		Running:   true,
	}
	if err := h.claimRun(runID, status); err != nil {
		return nil, err
	}
	defer h.releaseRun(runID)

	logger.Section("Harvest " + in.ProjectID)
	logger.Info("Run %s (session %s)", runID, status.SessionID)

	api := h.factory(ctx, in.Token)

	// The project lookup is a required top-level call: exhausting its
	// retries is the one failure that aborts the harvest.
	rootID, err := api.ProjectRootFolder(ctx, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	// 1. Enumerate eligible assets.
	index := NewPathIndex(rootID)
	walker := NewTreeWalker(api, index, h.opts.Exclusion, in.Filter)

	assets, walkErrs := walker.Walk(ctx, rootID, "")
	h.countErrors(runID, len(walkErrs))

	if in.IncludeReviewLinks {
		linkAssets, linkErrs := h.walkReviewLinks(ctx, api, walker, index, in)
		assets = append(assets, linkAssets...)
		h.countErrors(runID, len(linkErrs))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Info("Found %d eligible assets", len(assets))
	h.updateStatus(runID, func(s *driving.HarvestStatus) { s.AssetsFound = len(assets) })

	// 2. Restore progress. A corrupt checkpoint only discards stale
	// progress; it never aborts the run.
	cp, err := h.checkpoints.Load(ctx, runID)
	if err != nil || cp == nil {
		cp = domain.NewCheckpoint()
	}
	if in.Fresh && len(cp.ProcessedIDs) > 0 {
		logger.Info("Discarding checkpoint (%d assets) for a fresh run", len(cp.ProcessedIDs))
		cp = domain.NewCheckpoint()
	}
	if len(cp.ProcessedIDs) > 0 {
		logger.Info("Resuming: %d assets already processed", len(cp.ProcessedIDs))
	}
	h.updateStatus(runID, func(s *driving.HarvestStatus) { s.AssetsProcessed = len(cp.ProcessedIDs) })

	// 3. Process remaining assets one at a time, checkpointing after
	// each so a crash loses at most the in-flight asset.
	normaliser := feedback.New(api, feedback.Config{
		ProjectID: in.ProjectID,
		Frame:     h.opts.Frame,
		Palette:   h.opts.Palette,
		Now:       h.opts.Now,
	})

	failed := 0
	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if cp.Processed(asset.ID) {
			continue
		}

		entry, err := normaliser.Normalise(ctx, asset)
		if err != nil {
			// Per-asset failure: skip, keep the run going. The asset
			// stays out of the processed set so a later run retries it.
			logger.Warn("Asset %s failed, skipping: %v", asset.ID, err)
			failed++
			h.countErrors(runID, 1)
			continue
		}
		if entry != nil {
			entry.FolderPath = index.Path(asset.ParentID)
		}
		cp.MarkProcessed(asset.ID, entry)
		cp.SavedAt = h.opts.Now().UTC()

		if err := h.checkpoints.Save(ctx, runID, cp); err != nil {
			logger.Warn("Checkpoint save failed: %v", err)
		}
		h.updateStatus(runID, func(s *driving.HarvestStatus) { s.AssetsProcessed++ })
	}

	// 4. Assemble the report.
	report := NewAggregator(h.opts.Now).Aggregate(in.ProjectID, cp.Partial, in.Grouped)

	// 5. The checkpoint is cleared only when nothing is left
	// unprocessed; failed assets keep it alive for the next run.
	if failed == 0 {
		if err := h.checkpoints.Clear(ctx, runID); err != nil {
			logger.Warn("Checkpoint clear failed: %v", err)
		}
	} else {
		logger.Warn("%d assets failed; checkpoint kept for retry", failed)
	}

	logger.Info("Harvest complete: %d assets with feedback, %d comments",
		len(cp.Partial), report.TotalComments())
	return report, nil
}

// walkReviewLinks enumerates assets reachable through the project's
// review links. Folders referenced by a link go through the shared
// walker, so containers already traversed are not fetched again.
func (h *Harvester) walkReviewLinks(
	ctx context.Context,
	api driven.ReviewAPI,
	walker *TreeWalker,
	index *PathIndex,
	in domain.HarvestInput,
) (assets []domain.Item, errs []error) {
	links, err := api.ReviewLinks(ctx, in.ProjectID)
	if err != nil {
		// Same semantics as a container fetch failure: the review
		// link subtree is skipped, the harvest continues.
		logger.Warn("Review links fetch failed, skipping: %v", err)
		return nil, []error{err}
	}

	for _, link := range links {
		if h.opts.Exclusion.Excludes(link.Name) {
			logger.Debug("Skipping excluded review link %q", link.Name)
			continue
		}

		items, err := api.ReviewLinkItems(ctx, link.ID)
		if err != nil {
			logger.Warn("Review link %s fetch failed, skipping: %v", link.ID, err)
			errs = append(errs, fmt.Errorf("review link %s: %w", link.ID, err))
			continue
		}

		for _, item := range items {
			index.Record(item)
			switch {
			case item.Kind.IsFolder():
				sub, subErrs := walker.Walk(ctx, item.ID, item.Name)
				assets = append(assets, sub...)
				errs = append(errs, subErrs...)
			case item.Kind.IsLeaf() && in.Filter.Matches(item.Name):
				assets = append(assets, item)
			}
		}
	}
	return assets, errs
}

// Status returns progress for an in-flight harvest run.
func (h *Harvester) Status(_ context.Context, runID string) (*driving.HarvestStatus, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status, ok := h.activeRuns[runID]
	if !ok {
		return nil, nil
	}
	// Return a copy to avoid races with the harvest goroutine.
	copied := *status
	return &copied, nil
}

func (h *Harvester) claimRun(runID string, status *driving.HarvestStatus) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.activeRuns[runID]; ok {
		return domain.ErrHarvestInProgress
	}
	h.activeRuns[runID] = status
	return nil
}

func (h *Harvester) releaseRun(runID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.activeRuns, runID)
}

func (h *Harvester) updateStatus(runID string, fn func(*driving.HarvestStatus)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if status, ok := h.activeRuns[runID]; ok {
		fn(status)
	}
}

func (h *Harvester) countErrors(runID string, n int) {
	if n == 0 {
		return
	}
	h.updateStatus(runID, func(s *driving.HarvestStatus) { s.ErrorCount += n })
}
