package domain

// ItemKind classifies a remote node in the review service's tree.
type ItemKind string

const (
	// KindFolder is a container that can hold other items.
	KindFolder ItemKind = "folder"

	// KindFile is a generic uploaded file.
	KindFile ItemKind = "file"

	// KindVersionStack is a stack of versions of the same asset.
	KindVersionStack ItemKind = "version_stack"

	// KindVideo is a video asset.
	KindVideo ItemKind = "video"

	// KindImage is a still-image asset.
	KindImage ItemKind = "image"

	// KindPDF is a document asset.
	KindPDF ItemKind = "pdf"

	// KindAudio is an audio asset.
	KindAudio ItemKind = "audio"

	// KindReview is a review-link item.
	KindReview ItemKind = "review"
)

// leafKinds are the item kinds eligible for feedback harvesting.
var leafKinds = map[ItemKind]bool{
	KindFile:         true,
	KindVersionStack: true,
	KindVideo:        true,
	KindImage:        true,
	KindPDF:          true,
	KindAudio:        true,
	KindReview:       true,
}

// IsLeaf reports whether the kind is a recognised leaf-asset kind.
// Unrecognised kinds are neither folders nor leaves and are skipped.
func (k ItemKind) IsLeaf() bool {
	return leafKinds[k]
}

// IsFolder reports whether the kind is a traversable container.
func (k ItemKind) IsFolder() bool {
	return k == KindFolder
}

// Item represents a remote node fetched from the review service.
// It is a read-only snapshot; items are never mutated after decoding.
type Item struct {
	// ID is the provider-assigned stable identifier.
	ID string

	// Name is the human-readable name.
	Name string

	// Kind classifies the node (folder or one of the leaf kinds).
	Kind ItemKind

	// ParentID links to the containing folder, empty at the root.
	ParentID string

	// Metadata is the raw provider payload for this item. The schema
	// varies across API responses (thumbnail fields, source URLs), so
	// everything beyond the typed fields is kept as an opaque bag for
	// the fallback-chain extractors.
	Metadata map[string]any
}

// Team is an account-level grouping of projects.
type Team struct {
	ID   string
	Name string
}

// Project is a harvestable project within a team.
type Project struct {
	ID           string
	Name         string
	RootFolderID string
}

// ReviewLink is a shareable collection of assets within a project.
// Review links can reference assets already reachable through the
// folder tree, so traversal must deduplicate.
type ReviewLink struct {
	ID   string
	Name string
}
