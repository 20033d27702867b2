package domain

// AnnotationShape identifies the geometry of a drawing.
type AnnotationShape string

const (
	// ShapeRectangle is an axis-aligned box.
	ShapeRectangle AnnotationShape = "rectangle"

	// ShapeCircle is an ellipse bounded by a box.
	ShapeCircle AnnotationShape = "circle"

	// ShapeArrow is a directed segment from start to end.
	ShapeArrow AnnotationShape = "arrow"

	// ShapeLine is an undirected segment from start to end.
	ShapeLine AnnotationShape = "line"

	// ShapeFreehand is a free-form path of points.
	ShapeFreehand AnnotationShape = "freehand"
)

// Point is a single coordinate in frame-relative percentage units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Annotation is a drawing attached to a comment, with geometry
// normalised to percentage-of-frame units so it renders identically
// at any resolution.
type Annotation struct {
	// Shape is the drawing type.
	Shape AnnotationShape `json:"shape"`

	// X, Y, Width and Height bound rectangle and circle shapes.
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Start and End are the endpoints of arrow and line shapes.
	Start *Point `json:"start,omitempty"`
	End   *Point `json:"end,omitempty"`

	// Path is the full point list of freehand shapes.
	Path []Point `json:"path,omitempty"`

	// Color is the hex color inherited from the parent comment.
	Color string `json:"color"`
}

// Comment is a single piece of feedback on an asset.
type Comment struct {
	// Text is the comment body.
	Text string `json:"text"`

	// Author is the resolved display name of the comment author.
	Author string `json:"author"`

	// DisplayTimestamp is the formatted creation time for rendering.
	DisplayTimestamp string `json:"display_timestamp"`

	// RawTimestamp is the original ISO timestamp, kept separately
	// because it drives sorting while DisplayTimestamp drives display.
	RawTimestamp string `json:"raw_timestamp"`

	// Annotations are the normalised drawings, if any.
	Annotations []Annotation `json:"annotations,omitempty"`

	// ColorTag is the stable hex color assigned to this comment.
	ColorTag string `json:"color_tag"`
}

// AssetReport is the harvested feedback for a single leaf asset.
type AssetReport struct {
	// AssetID is the provider identifier teams use to deep-link.
	AssetID string `json:"asset_id"`

	// Name is the asset's display name.
	Name string `json:"name"`

	// Kind is the asset's item kind.
	Kind ItemKind `json:"kind"`

	// FolderPath is the resolved ancestry path ("/" at the root).
	FolderPath string `json:"folder_path"`

	// ThumbnailURL is the resolved preview image, empty when absent.
	ThumbnailURL string `json:"thumbnail_url,omitempty"`

	// ViewURL deep-links to the asset in the review service.
	ViewURL string `json:"view_url"`

	// Comments are ordered as returned by the provider.
	Comments []Comment `json:"comments"`
}

// LatestCommentTimestamp returns the most recent raw comment timestamp,
// or the empty string when the asset has no comments. ISO-8601
// timestamps compare correctly as strings.
func (a AssetReport) LatestCommentTimestamp() string {
	var latest string
	for _, c := range a.Comments {
		if c.RawTimestamp > latest {
			latest = c.RawTimestamp
		}
	}
	return latest
}

// ReportGroup is a set of asset reports sharing a folder path.
type ReportGroup struct {
	// FolderPath is the shared ancestry path.
	FolderPath string `json:"folder_path"`

	// Assets are ordered by name within the group.
	Assets []AssetReport `json:"assets"`
}

// Report is the final ordered harvest output handed to the renderer.
// Exactly one of Groups or Flat is populated, depending on the
// requested view.
type Report struct {
	// ProjectID identifies the harvested project.
	ProjectID string `json:"project_id"`

	// GeneratedAt is the ISO timestamp of report assembly.
	GeneratedAt string `json:"generated_at"`

	// Groups is the folder-grouped view, sorted by path.
	Groups []ReportGroup `json:"groups,omitempty"`

	// Flat is the ungrouped view, sorted by most recent comment.
	Flat []AssetReport `json:"flat,omitempty"`
}

// TotalComments returns the number of comments across the report.
func (r Report) TotalComments() int {
	n := 0
	for _, g := range r.Groups {
		for _, a := range g.Assets {
			n += len(a.Comments)
		}
	}
	for _, a := range r.Flat {
		n += len(a.Comments)
	}
	return n
}
