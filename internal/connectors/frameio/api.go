package frameio

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.ReviewAPI = (*Service)(nil)

// Service exposes the typed review-service operations the harvester
// core consumes. It owns a rate-limited client and an endpoint prober;
// all calls are serialised through the client's throttle.
type Service struct {
	client *Client
	prober *Prober
}

// NewService creates a service over a bearer token.
func NewService(ctx context.Context, token string, cfg Config) *Service {
	client := NewClient(ctx, token, cfg)
	return &Service{
		client: client,
		prober: NewProber(client),
	}
}

// NewServiceWithClient creates a service over an existing client.
// Used by tests with httptest-backed clients.
func NewServiceWithClient(client *Client) *Service {
	return &Service{
		client: client,
		prober: NewProber(client),
	}
}

// Teams lists the teams the token can access.
func (s *Service) Teams(ctx context.Context) ([]domain.Team, error) {
	raw, err := s.client.Get(ctx, "/v2/teams")
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	var objs []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &objs); err != nil {
		return nil, fmt.Errorf("decode teams: %w", err)
	}

	teams := make([]domain.Team, 0, len(objs))
	for _, o := range objs {
		teams = append(teams, domain.Team{ID: o.ID, Name: o.Name})
	}
	return teams, nil
}

// TeamProjects lists the projects of a team.
func (s *Service) TeamProjects(ctx context.Context, teamID string) ([]domain.Project, error) {
	raw, err := s.client.Get(ctx, "/v2/teams/"+teamID+"/projects")
	if err != nil {
		return nil, fmt.Errorf("list projects for team %s: %w", teamID, err)
	}

	var objs []struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		RootFolderID string `json:"root_folder_id"`
	}
	if err := json.Unmarshal(raw, &objs); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}

	projects := make([]domain.Project, 0, len(objs))
	for _, o := range objs {
		projects = append(projects, domain.Project{ID: o.ID, Name: o.Name, RootFolderID: o.RootFolderID})
	}
	return projects, nil
}

// ProjectRootFolder resolves a project to its root folder ID.
func (s *Service) ProjectRootFolder(ctx context.Context, projectID string) (string, error) {
	raw, err := s.client.Get(ctx, "/v2/projects/"+projectID)
	if err != nil {
		return "", fmt.Errorf("get project %s: %w", projectID, err)
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("decode project %s: %w", projectID, err)
	}

	rootID := firstStringField(obj, "root_folder_id", "root_asset_id")
	if rootID == "" {
		return "", fmt.Errorf("%w: project %s", ErrNoRootFolder, projectID)
	}
	return rootID, nil
}

// Children lists the items directly inside a container, probing the
// candidate endpoint shapes.
func (s *Service) Children(ctx context.Context, containerID string) ([]domain.Item, error) {
	raw, err := s.prober.Children(ctx, containerID)
	if err != nil {
		return nil, err
	}

	items, err := decodeItems(raw)
	if err != nil {
		return nil, fmt.Errorf("decode children of %s: %w", containerID, err)
	}
	return items, nil
}

// Comments fetches the raw comments of an asset, probing the candidate
// endpoint shapes. The raw objects are kept whole for the normaliser's
// fallback chains.
func (s *Service) Comments(ctx context.Context, assetID string) ([]domain.RawComment, error) {
	raw, err := s.prober.Comments(ctx, assetID)
	if err != nil {
		return nil, err
	}

	var objs []map[string]any
	if err := json.Unmarshal(raw, &objs); err != nil {
		return nil, fmt.Errorf("decode comments of %s: %w", assetID, err)
	}

	comments := make([]domain.RawComment, 0, len(objs))
	for _, obj := range objs {
		comments = append(comments, domain.RawComment{AssetID: assetID, Fields: obj})
	}
	return comments, nil
}

// ReviewLinks lists a project's review links.
func (s *Service) ReviewLinks(ctx context.Context, projectID string) ([]domain.ReviewLink, error) {
	raw, err := s.client.Get(ctx, "/v2/projects/"+projectID+"/review_links")
	if err != nil {
		return nil, fmt.Errorf("list review links for %s: %w", projectID, err)
	}

	var objs []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &objs); err != nil {
		return nil, fmt.Errorf("decode review links: %w", err)
	}

	links := make([]domain.ReviewLink, 0, len(objs))
	for _, o := range objs {
		links = append(links, domain.ReviewLink{ID: o.ID, Name: o.Name})
	}
	return links, nil
}

// ReviewLinkItems lists the items a review link references. Entries
// arrive either as items directly or wrapped under an "asset" object.
func (s *Service) ReviewLinkItems(ctx context.Context, linkID string) ([]domain.Item, error) {
	raw, err := s.client.Get(ctx, "/v2/review_links/"+linkID+"/items")
	if err != nil {
		return nil, fmt.Errorf("list review link items for %s: %w", linkID, err)
	}

	var objs []map[string]any
	if err := json.Unmarshal(raw, &objs); err != nil {
		return nil, fmt.Errorf("decode review link items: %w", err)
	}

	items := make([]domain.Item, 0, len(objs))
	for _, obj := range objs {
		if wrapped, ok := obj["asset"].(map[string]any); ok {
			obj = wrapped
		}
		item := decodeItem(obj)
		if item.ID == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// AssetThumbnail fetches a preview URL for an asset. A 404 means the
// asset simply has no preview and is reported as ("", nil).
func (s *Service) AssetThumbnail(ctx context.Context, assetID string) (string, error) {
	raw, err := s.client.Get(ctx, "/v2/assets/"+assetID+"/thumbnail")
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("get thumbnail for %s: %w", assetID, err)
	}

	// The endpoint answers either {"url": "..."} or a bare string.
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		return firstStringField(obj, "url", "thumbnail_url"), nil
	}
	var s2 string
	if err := json.Unmarshal(raw, &s2); err == nil {
		return s2, nil
	}
	return "", nil
}
