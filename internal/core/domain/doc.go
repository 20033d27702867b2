// Package domain defines the core business entities for Reelnotes.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Item: A remote node in the review service's tree (folder or asset)
//   - Comment: A piece of feedback attached to an asset
//   - Annotation: Normalized spatial drawing attached to a comment
//   - Report: The grouped, ordered harvest output
//   - Checkpoint: Persisted harvest progress for resumable runs
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
