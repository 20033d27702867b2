package services

import (
	"context"
	"fmt"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports/driven"
	"github.com/reelnotes/reelnotes/internal/logger"
)

// TreeWalker enumerates the leaf assets under a container. A walker is
// created per harvest run and carries the run's visited-container set,
// so a container reachable through several paths (folders, review
// links, cycles) is fetched at most once. Walkers are not safe for
// reuse across runs.
type TreeWalker struct {
	api       driven.ReviewAPI
	index     *PathIndex
	exclusion domain.ContainerExclusion
	filter    domain.NameFilter
	visited   map[string]bool
}

// NewTreeWalker creates a walker for one run. Container and review
// link names matching exclusion are skipped before their contents are
// fetched; leaf assets must match every filter term to be included.
func NewTreeWalker(
	api driven.ReviewAPI,
	index *PathIndex,
	exclusion domain.ContainerExclusion,
	filter domain.NameFilter,
) *TreeWalker {
	return &TreeWalker{
		api:       api,
		index:     index,
		exclusion: exclusion,
		filter:    filter,
		visited:   make(map[string]bool),
	}
}

// Walk returns the eligible leaf assets under the container in the
// order a depth-first traversal meets them, which is the order the API
// returns children. A fetch failure skips that subtree and is reported
// in errs; siblings keep walking. Trees can be pathologically deep, so
// the traversal uses an explicit stack instead of recursion.
func (w *TreeWalker) Walk(ctx context.Context, containerID, containerName string) (assets []domain.Item, errs []error) {
	stack := []domain.Item{{ID: containerID, Name: containerName, Kind: domain.KindFolder}}

	for len(stack) > 0 {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			return assets, errs
		}

		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !cur.Kind.IsFolder() {
			assets = append(assets, cur)
			continue
		}

		if w.visited[cur.ID] {
			continue
		}
		w.visited[cur.ID] = true

		// The exclusion check runs before the fetch so a skipped
		// container costs zero requests.
		if w.exclusion.Excludes(cur.Name) {
			logger.Debug("Skipping excluded container %q (%s)", cur.Name, cur.ID)
			continue
		}

		children, err := w.api.Children(ctx, cur.ID)
		if err != nil {
			logger.Warn("Container %s fetch failed, skipping subtree: %v", cur.ID, err)
			errs = append(errs, fmt.Errorf("container %s: %w", cur.ID, err))
			continue
		}
		logger.Debug("Container %q has %d children", cur.Name, len(children))

		// Push in reverse so the stack pops children in API order,
		// matching a recursive traversal exactly.
		pending := make([]domain.Item, 0, len(children))
		for _, child := range children {
			if child.ParentID == "" {
				child.ParentID = cur.ID
			}
			w.index.Record(child)

			switch {
			case child.Kind.IsFolder():
				pending = append(pending, child)
			case child.Kind.IsLeaf() && w.filter.Matches(child.Name):
				pending = append(pending, child)
			default:
				// Filtered out or unrecognised kind.
			}
		}
		for i := len(pending) - 1; i >= 0; i-- {
			stack = append(stack, pending[i])
		}
	}

	return assets, errs
}

// Visited reports whether a container was already traversed this run.
func (w *TreeWalker) Visited(containerID string) bool {
	return w.visited[containerID]
}
