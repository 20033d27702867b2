// Package feedback normalises raw review-service comments into the
// report's comment form: authors resolved through a fallback chain,
// timestamps split into raw and display forms, thumbnails located
// across the provider's varying schemas, and annotation geometry
// rescaled into frame-relative percentage units.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports/driven"
	"github.com/reelnotes/reelnotes/internal/logger"
)

const (
	// UnknownAuthor is the terminal fallback for author resolution.
	UnknownAuthor = "Unknown User"

	// DisplayTimeFormat renders timestamps for the report.
	DisplayTimeFormat = "2006-01-02 15:04"

	// DefaultFrameWidth and DefaultFrameHeight are the render
	// target's dimensions; annotation geometry is scaled against them.
	DefaultFrameWidth  = 200.0
	DefaultFrameHeight = 112.0
)

// DefaultPalette is the cyclic comment color palette. Colors are
// assigned by comment index, so re-runs are visually stable.
var DefaultPalette = []string{
	"#E74C3C", "#3498DB", "#2ECC71", "#F1C40F", "#9B59B6", "#E67E22",
}

// authorKeys is the display-name fallback chain, applied in order to
// the anonymous-user sub-object first and then the author object.
var authorKeys = []string{"name", "display_name", "full_name", "email"}

// Frame is the render target annotations are scaled against.
type Frame struct {
	Width  float64
	Height float64
}

// Config tunes a Normaliser.
type Config struct {
	// ProjectID builds the per-asset deep link.
	ProjectID string

	// Frame is the render target; zero values take the defaults.
	Frame Frame

	// Palette overrides DefaultPalette when non-empty.
	Palette []string

	// Now is the clock used when a comment has no timestamp.
	// Defaults to time.Now.
	Now func() time.Time
}

// Normaliser turns one asset's raw feedback into an AssetReport.
type Normaliser struct {
	api     driven.ReviewAPI
	project string
	frame   Frame
	palette []string
	now     func() time.Time
}

// New creates a normaliser over the review API.
func New(api driven.ReviewAPI, cfg Config) *Normaliser {
	frame := cfg.Frame
	if frame.Width <= 0 {
		frame.Width = DefaultFrameWidth
	}
	if frame.Height <= 0 {
		frame.Height = DefaultFrameHeight
	}
	palette := cfg.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Normaliser{
		api:     api,
		project: cfg.ProjectID,
		frame:   frame,
		palette: palette,
		now:     now,
	}
}

// Normalise fetches and normalises the feedback of one asset. A nil
// report with nil error means the asset has no feedback; it still
// counts as processed. A single comment failing to normalise skips
// that comment, never the asset.
func (n *Normaliser) Normalise(ctx context.Context, asset domain.Item) (*domain.AssetReport, error) {
	raw, err := n.api.Comments(ctx, asset.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch comments for %s: %w", asset.ID, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	report := &domain.AssetReport{
		AssetID:      asset.ID,
		Name:         asset.Name,
		Kind:         asset.Kind,
		ThumbnailURL: n.resolveThumbnail(ctx, asset),
		ViewURL:      fmt.Sprintf("https://app.frame.io/presentation/%s?item=%s", n.project, asset.ID),
	}

	for i, rc := range raw {
		comment, err := n.normaliseComment(rc, i)
		if err != nil {
			logger.Warn("Skipping malformed comment on %s: %v", asset.ID, err)
			continue
		}
		report.Comments = append(report.Comments, comment)
	}

	if len(report.Comments) == 0 {
		return nil, nil
	}
	return report, nil
}

func (n *Normaliser) normaliseComment(rc domain.RawComment, index int) (domain.Comment, error) {
	text, ok := rc.Fields["text"].(string)
	if !ok {
		return domain.Comment{}, fmt.Errorf("comment has no text field")
	}

	color := n.palette[index%len(n.palette)]
	rawTS, displayTS := n.resolveTimestamp(rc.Fields)

	return domain.Comment{
		Text:             text,
		Author:           resolveAuthor(rc.Fields),
		RawTimestamp:     rawTS,
		DisplayTimestamp: displayTS,
		Annotations:      n.normaliseAnnotations(rc.Fields, color),
		ColorTag:         color,
	}, nil
}

// resolveAuthor walks the fallback chain over the comment's author
// representations. Anonymous-user sub-objects take precedence when
// present; the terminal fallback is UnknownAuthor.
func resolveAuthor(fields map[string]any) string {
	var candidates []map[string]any

	if anon, ok := fields["anonymous_user"].(map[string]any); ok {
		candidates = append(candidates, anon)
	}
	if author, ok := fields["author"].(map[string]any); ok {
		if anon, ok := author["anonymous_user"].(map[string]any); ok {
			candidates = append(candidates, anon)
		}
		candidates = append(candidates, author)
	}

	for _, obj := range candidates {
		for _, key := range authorKeys {
			if s, ok := obj[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return UnknownAuthor
}

// resolveTimestamp returns the raw ISO timestamp and its display form.
// A missing timestamp substitutes the current time rather than failing
// the comment; an unparsable one is displayed as-is.
func (n *Normaliser) resolveTimestamp(fields map[string]any) (raw, display string) {
	raw, _ = fields["created_at"].(string)
	if raw == "" {
		now := n.now().UTC()
		return now.Format(time.RFC3339), now.Format(DisplayTimeFormat)
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw, raw
	}
	return raw, t.Format(DisplayTimeFormat)
}

// resolveThumbnail walks the thumbnail strategies in priority order:
// explicit size map, list form, string form, then the dedicated
// preview fetch. A missing preview is expected absence, not an error.
func (n *Normaliser) resolveThumbnail(ctx context.Context, asset domain.Item) string {
	for _, key := range []string{"thumbs", "thumbnail"} {
		if m, ok := asset.Metadata[key].(map[string]any); ok {
			for _, size := range []string{"medium", "large", "small"} {
				if s := asStringOrURL(m[size]); s != "" {
					return s
				}
			}
		}
	}

	if list, ok := asset.Metadata["thumbnails"].([]any); ok {
		for _, entry := range list {
			if s := asStringOrURL(entry); s != "" {
				return s
			}
		}
	}

	for _, key := range []string{"thumbnail_url", "thumb_url", "cover_url"} {
		if s, ok := asset.Metadata[key].(string); ok && s != "" {
			return s
		}
	}

	url, err := n.api.AssetThumbnail(ctx, asset.ID)
	if err != nil {
		logger.Debug("Thumbnail fetch for %s failed: %v", asset.ID, err)
		return ""
	}
	return url
}

// asStringOrURL accepts either a bare URL string or {"url": "..."}.
func asStringOrURL(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		s, _ := t["url"].(string)
		return s
	default:
		return ""
	}
}

// normaliseAnnotations extracts and rescales a comment's drawings.
// Annotations arrive either as a decoded list or as a JSON string
// under "annotation"; unrecognised shapes are dropped silently.
func (n *Normaliser) normaliseAnnotations(fields map[string]any, color string) []domain.Annotation {
	var entries []any

	switch v := fields["annotations"].(type) {
	case []any:
		entries = v
	}
	if entries == nil {
		if s, ok := fields["annotation"].(string); ok && s != "" {
			var decoded []any
			if err := json.Unmarshal([]byte(s), &decoded); err == nil {
				entries = decoded
			} else {
				logger.Debug("Undecodable annotation payload: %v", err)
			}
		}
	}

	var out []domain.Annotation
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if a, ok := n.normaliseAnnotation(obj, color); ok {
			out = append(out, a)
		}
	}
	return out
}

func (n *Normaliser) normaliseAnnotation(obj map[string]any, color string) (domain.Annotation, bool) {
	shape := domain.AnnotationShape(firstString(obj, "type", "tool"))

	switch shape {
	case domain.ShapeRectangle, domain.ShapeCircle:
		return domain.Annotation{
			Shape:  shape,
			X:      n.scaleX(numField(obj, "x")),
			Y:      n.scaleY(numField(obj, "y")),
			Width:  n.scaleX(numField(obj, "width")),
			Height: n.scaleY(numField(obj, "height")),
			Color:  color,
		}, true

	case domain.ShapeArrow, domain.ShapeLine:
		points := pointList(obj)
		if len(points) < 2 {
			return domain.Annotation{}, false
		}
		start := n.scalePoint(points[0])
		end := n.scalePoint(points[len(points)-1])
		return domain.Annotation{
			Shape: shape,
			Start: &start,
			End:   &end,
			Color: color,
		}, true

	case domain.ShapeFreehand:
		points := pointList(obj)
		if len(points) == 0 {
			return domain.Annotation{}, false
		}
		path := make([]domain.Point, 0, len(points))
		for _, p := range points {
			path = append(path, n.scalePoint(p))
		}
		return domain.Annotation{
			Shape: shape,
			Path:  path,
			Color: color,
		}, true

	default:
		return domain.Annotation{}, false
	}
}

// scaleX converts an absolute pixel coordinate into a percentage of
// the frame width: value * 100 / dimension.
func (n *Normaliser) scaleX(v float64) float64 {
	return v * 100.0 / n.frame.Width
}

func (n *Normaliser) scaleY(v float64) float64 {
	return v * 100.0 / n.frame.Height
}

func (n *Normaliser) scalePoint(p domain.Point) domain.Point {
	return domain.Point{X: n.scaleX(p.X), Y: n.scaleY(p.Y)}
}

// pointList decodes the annotation's point list.
func pointList(obj map[string]any) []domain.Point {
	raw, ok := obj["points"].([]any)
	if !ok {
		return nil
	}

	points := make([]domain.Point, 0, len(raw))
	for _, entry := range raw {
		p, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		points = append(points, domain.Point{
			X: numField(p, "x"),
			Y: numField(p, "y"),
		})
	}
	return points
}

func numField(obj map[string]any, key string) float64 {
	switch v := obj[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
