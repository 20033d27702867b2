package driven

import (
	"context"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

// ReviewAPI is the harvester's view of the media-review service.
// All calls are serialised through the implementation's rate limiter;
// callers never fan out in parallel.
type ReviewAPI interface {
	// Teams lists the teams the token can access.
	Teams(ctx context.Context) ([]domain.Team, error)

	// TeamProjects lists the projects of a team.
	TeamProjects(ctx context.Context, teamID string) ([]domain.Project, error)

	// ProjectRootFolder resolves a project to its root folder ID.
	ProjectRootFolder(ctx context.Context, projectID string) (string, error)

	// Children lists the items directly inside a container, in the
	// order the service returns them.
	Children(ctx context.Context, containerID string) ([]domain.Item, error)

	// Comments fetches the raw comments of an asset.
	Comments(ctx context.Context, assetID string) ([]domain.RawComment, error)

	// ReviewLinks lists a project's review links.
	ReviewLinks(ctx context.Context, projectID string) ([]domain.ReviewLink, error)

	// ReviewLinkItems lists the items a review link references.
	ReviewLinkItems(ctx context.Context, linkID string) ([]domain.Item, error)

	// AssetThumbnail fetches a preview URL for an asset. A missing
	// preview is reported as ("", nil), not as an error.
	AssetThumbnail(ctx context.Context, assetID string) (string, error)
}
