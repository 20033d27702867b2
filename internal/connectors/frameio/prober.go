package frameio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/reelnotes/reelnotes/internal/logger"
)

// The remote API has shipped several endpoint shapes for the same
// logical operation over its lifetime. Each operation carries an
// ordered candidate list; the prober walks it and keeps the first
// shape that answers.
var (
	childrenCandidates = []string{
		"/v2/assets/{id}/children",
		"/v2/items/{id}/children",
		"/v2/folders/{id}/children",
	}

	commentCandidates = []string{
		"/v2/assets/{id}/comments",
		"/v2/items/{id}/comments",
	}
)

// Prober tries candidate endpoint templates in order and returns the
// first successful response. Each candidate gets the client's normal
// retry budget exactly once; probing never amplifies retries.
type Prober struct {
	client *Client
}

// NewProber creates a prober over the given client.
func NewProber(client *Client) *Prober {
	return &Prober{client: client}
}

// Probe runs the logical operation against each candidate template,
// substituting id for the {id} placeholder. If every candidate fails,
// the errors are joined into one failure naming the operation and id.
func (p *Prober) Probe(ctx context.Context, op, id string, candidates []string) (json.RawMessage, error) {
	var errs []error
	for _, tmpl := range candidates {
		path := strings.ReplaceAll(tmpl, "{id}", id)

		body, err := p.client.Get(ctx, path)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug("Endpoint %s failed for %s: %v", path, op, err)
		errs = append(errs, fmt.Errorf("%s: %w", path, err))
	}

	return nil, fmt.Errorf("%w: %s for %q: %w", ErrNoEndpoint, op, id, errors.Join(errs...))
}

// Children fetches a container's contents through the candidate list.
func (p *Prober) Children(ctx context.Context, containerID string) (json.RawMessage, error) {
	return p.Probe(ctx, "get container contents", containerID, childrenCandidates)
}

// Comments fetches an asset's comments through the candidate list.
func (p *Prober) Comments(ctx context.Context, assetID string) (json.RawMessage, error) {
	return p.Probe(ctx, "get asset comments", assetID, commentCandidates)
}
