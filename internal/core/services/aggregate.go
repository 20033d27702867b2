package services

import (
	"sort"
	"time"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

// RootPath is the canonical marker for assets at the project root.
const RootPath = "/"

// PathIndex resolves an item's folder path by walking parent links to
// the root. It is scoped to one harvest run; resolved paths are
// memoised so no item ID is ever recomputed.
type PathIndex struct {
	rootID  string
	names   map[string]string
	parents map[string]string
	memo    map[string]string
}

// NewPathIndex creates an index rooted at the project root folder.
func NewPathIndex(rootID string) *PathIndex {
	return &PathIndex{
		rootID:  rootID,
		names:   make(map[string]string),
		parents: make(map[string]string),
		memo:    make(map[string]string),
	}
}

// Record registers an item's name and parent link. The walker calls
// this for every child it sees, so by the time paths are resolved every
// traversed folder is known.
func (x *PathIndex) Record(item domain.Item) {
	if item.ID == "" {
		return
	}
	x.names[item.ID] = item.Name
	x.parents[item.ID] = item.ParentID
}

// Path resolves the folder path of a container ID. The root, an empty
// ID and any ID the run never traversed all resolve to RootPath.
func (x *PathIndex) Path(containerID string) string {
	if containerID == "" || containerID == x.rootID {
		return RootPath
	}
	if p, ok := x.memo[containerID]; ok {
		return p
	}

	// Walk up the parent chain, guarding against cycles.
	var segments []string
	seen := make(map[string]bool)
	id := containerID
	for id != "" && id != x.rootID && !seen[id] {
		seen[id] = true
		name, ok := x.names[id]
		if !ok {
			break
		}
		segments = append(segments, name)
		id = x.parents[id]
	}

	path := RootPath
	for i := len(segments) - 1; i >= 0; i-- {
		if path == RootPath {
			path = "/" + segments[i]
		} else {
			path += "/" + segments[i]
		}
	}

	x.memo[containerID] = path
	return path
}

// Aggregator assembles processed assets into the final ordered report.
type Aggregator struct {
	now func() time.Time
}

// NewAggregator creates an aggregator. now defaults to time.Now.
func NewAggregator(now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{now: now}
}

// Aggregate orders the processed assets into a report. Grouped output
// buckets assets by folder path, sorts assets by name within a group
// and groups lexicographically by path. Flat output sorts by most
// recent comment, newest first. Both orderings are deterministic given
// identical input.
func (a *Aggregator) Aggregate(projectID string, assets []domain.AssetReport, grouped bool) *domain.Report {
	report := &domain.Report{
		ProjectID:   projectID,
		GeneratedAt: a.now().UTC().Format(time.RFC3339),
	}

	if grouped {
		report.Groups = groupByPath(assets)
	} else {
		report.Flat = sortByLatestComment(assets)
	}
	return report
}

func groupByPath(assets []domain.AssetReport) []domain.ReportGroup {
	buckets := make(map[string][]domain.AssetReport)
	for _, asset := range assets {
		path := asset.FolderPath
		if path == "" {
			path = RootPath
		}
		buckets[path] = append(buckets[path], asset)
	}

	paths := make([]string, 0, len(buckets))
	for path := range buckets {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	groups := make([]domain.ReportGroup, 0, len(paths))
	for _, path := range paths {
		group := domain.ReportGroup{FolderPath: path, Assets: buckets[path]}
		sort.Slice(group.Assets, func(i, j int) bool {
			if group.Assets[i].Name != group.Assets[j].Name {
				return group.Assets[i].Name < group.Assets[j].Name
			}
			return group.Assets[i].AssetID < group.Assets[j].AssetID
		})
		groups = append(groups, group)
	}
	return groups
}

func sortByLatestComment(assets []domain.AssetReport) []domain.AssetReport {
	sorted := make([]domain.AssetReport, len(assets))
	copy(sorted, assets)
	sort.Slice(sorted, func(i, j int) bool {
		ti, tj := sorted[i].LatestCommentTimestamp(), sorted[j].LatestCommentTimestamp()
		if ti != tj {
			return ti > tj
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}
