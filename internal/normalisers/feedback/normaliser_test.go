package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

// fakeAPI implements driven.ReviewAPI for normaliser tests.
type fakeAPI struct {
	comments    []domain.RawComment
	commentsErr error
	thumb       string
	thumbCalls  int
}

func (f *fakeAPI) Teams(_ context.Context) ([]domain.Team, error)      { return nil, nil }
func (f *fakeAPI) TeamProjects(_ context.Context, _ string) ([]domain.Project, error) {
	return nil, nil
}
func (f *fakeAPI) ProjectRootFolder(_ context.Context, _ string) (string, error) { return "", nil }
func (f *fakeAPI) Children(_ context.Context, _ string) ([]domain.Item, error)   { return nil, nil }
func (f *fakeAPI) ReviewLinks(_ context.Context, _ string) ([]domain.ReviewLink, error) {
	return nil, nil
}
func (f *fakeAPI) ReviewLinkItems(_ context.Context, _ string) ([]domain.Item, error) {
	return nil, nil
}

func (f *fakeAPI) Comments(_ context.Context, assetID string) ([]domain.RawComment, error) {
	return f.comments, f.commentsErr
}

func (f *fakeAPI) AssetThumbnail(_ context.Context, _ string) (string, error) {
	f.thumbCalls++
	return f.thumb, nil
}

func comment(fields map[string]any) domain.RawComment {
	return domain.RawComment{AssetID: "a1", Fields: fields}
}

func newTestNormaliser(api *fakeAPI) *Normaliser {
	return New(api, Config{
		ProjectID: "p1",
		Now:       func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func TestNormalise_NoComments(t *testing.T) {
	n := newTestNormaliser(&fakeAPI{})

	report, err := n.Normalise(context.Background(), domain.Item{ID: "a1"})

	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestNormalise_CommentFetchError(t *testing.T) {
	n := newTestNormaliser(&fakeAPI{commentsErr: errors.New("boom")})

	_, err := n.Normalise(context.Background(), domain.Item{ID: "a1"})

	assert.Error(t, err)
}

func TestNormalise_BasicComment(t *testing.T) {
	api := &fakeAPI{comments: []domain.RawComment{
		comment(map[string]any{
			"text":       "too dark in the corner",
			"author":     map[string]any{"name": "Ana"},
			"created_at": "2024-03-01T08:30:00Z",
		}),
	}}
	n := newTestNormaliser(api)

	report, err := n.Normalise(context.Background(), domain.Item{ID: "a1", Name: "shot.mov", Kind: domain.KindVideo})

	require.NoError(t, err)
	require.NotNil(t, report)
	require.Len(t, report.Comments, 1)
	c := report.Comments[0]
	assert.Equal(t, "too dark in the corner", c.Text)
	assert.Equal(t, "Ana", c.Author)
	assert.Equal(t, "2024-03-01T08:30:00Z", c.RawTimestamp)
	assert.Equal(t, "2024-03-01 08:30", c.DisplayTimestamp)
	assert.Equal(t, DefaultPalette[0], c.ColorTag)
	assert.Equal(t, "https://app.frame.io/presentation/p1?item=a1", report.ViewURL)
}

func TestNormalise_MalformedCommentSkipped(t *testing.T) {
	api := &fakeAPI{comments: []domain.RawComment{
		comment(map[string]any{"no_text": true}),
		comment(map[string]any{"text": "keeps going"}),
	}}
	n := newTestNormaliser(api)

	report, err := n.Normalise(context.Background(), domain.Item{ID: "a1"})

	require.NoError(t, err)
	require.NotNil(t, report)
	require.Len(t, report.Comments, 1)
	assert.Equal(t, "keeps going", report.Comments[0].Text)
}

func TestNormalise_ColorCyclesOverPalette(t *testing.T) {
	var comments []domain.RawComment
	for i := 0; i < len(DefaultPalette)+1; i++ {
		comments = append(comments, comment(map[string]any{"text": "x"}))
	}
	n := newTestNormaliser(&fakeAPI{comments: comments})

	report, err := n.Normalise(context.Background(), domain.Item{ID: "a1"})

	require.NoError(t, err)
	assert.Equal(t, DefaultPalette[0], report.Comments[0].ColorTag)
	assert.Equal(t, DefaultPalette[1], report.Comments[1].ColorTag)
	assert.Equal(t, DefaultPalette[0], report.Comments[len(DefaultPalette)].ColorTag)
}

func TestResolveAuthor_FallbackChain(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		want   string
	}{
		{
			name:   "explicit name wins",
			fields: map[string]any{"author": map[string]any{"name": "Ana", "email": "a@b.com"}},
			want:   "Ana",
		},
		{
			name:   "display name",
			fields: map[string]any{"author": map[string]any{"display_name": "ana.r"}},
			want:   "ana.r",
		},
		{
			name:   "full name",
			fields: map[string]any{"author": map[string]any{"full_name": "Ana Ruiz"}},
			want:   "Ana Ruiz",
		},
		{
			name:   "email as last resort",
			fields: map[string]any{"author": map[string]any{"email": "a@b.com"}},
			want:   "a@b.com",
		},
		{
			name: "anonymous user checked first",
			fields: map[string]any{"author": map[string]any{
				"anonymous_user": map[string]any{"email": "a@b.com"},
			}},
			want: "a@b.com",
		},
		{
			name: "anonymous beats author name",
			fields: map[string]any{
				"anonymous_user": map[string]any{"name": "Guest"},
				"author":         map[string]any{"name": "Ana"},
			},
			want: "Guest",
		},
		{
			name:   "no author at all",
			fields: map[string]any{},
			want:   UnknownAuthor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveAuthor(tt.fields))
		})
	}
}

func TestResolveTimestamp_MissingUsesClock(t *testing.T) {
	api := &fakeAPI{comments: []domain.RawComment{
		comment(map[string]any{"text": "no timestamp"}),
	}}
	n := newTestNormaliser(api)

	report, err := n.Normalise(context.Background(), domain.Item{ID: "a1"})

	require.NoError(t, err)
	c := report.Comments[0]
	assert.Equal(t, "2024-06-01T12:00:00Z", c.RawTimestamp)
	assert.Equal(t, "2024-06-01 12:00", c.DisplayTimestamp)
}

func TestResolveTimestamp_UnparsableKeptVerbatim(t *testing.T) {
	n := newTestNormaliser(&fakeAPI{})

	raw, display := n.resolveTimestamp(map[string]any{"created_at": "yesterday-ish"})

	assert.Equal(t, "yesterday-ish", raw)
	assert.Equal(t, "yesterday-ish", display)
}

func TestResolveThumbnail_Priorities(t *testing.T) {
	n := newTestNormaliser(&fakeAPI{})

	tests := []struct {
		name     string
		metadata map[string]any
		want     string
	}{
		{
			name: "size map preferred",
			metadata: map[string]any{
				"thumbs":        map[string]any{"medium": "http://x/m.jpg", "small": "http://x/s.jpg"},
				"thumbnail_url": "http://x/plain.jpg",
			},
			want: "http://x/m.jpg",
		},
		{
			name: "size map falls back across sizes",
			metadata: map[string]any{
				"thumbs": map[string]any{"small": map[string]any{"url": "http://x/s.jpg"}},
			},
			want: "http://x/s.jpg",
		},
		{
			name: "list form",
			metadata: map[string]any{
				"thumbnails": []any{map[string]any{"url": "http://x/0.jpg"}},
			},
			want: "http://x/0.jpg",
		},
		{
			name:     "string form",
			metadata: map[string]any{"thumbnail_url": "http://x/plain.jpg"},
			want:     "http://x/plain.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.resolveThumbnail(context.Background(), domain.Item{ID: "a1", Metadata: tt.metadata})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveThumbnail_FallsBackToPreviewFetch(t *testing.T) {
	api := &fakeAPI{thumb: "http://cdn/p.jpg"}
	n := newTestNormaliser(api)

	got := n.resolveThumbnail(context.Background(), domain.Item{ID: "a1", Metadata: map[string]any{}})

	assert.Equal(t, "http://cdn/p.jpg", got)
	assert.Equal(t, 1, api.thumbCalls)
}

func TestResolveThumbnail_AbsentPreviewIsEmpty(t *testing.T) {
	api := &fakeAPI{thumb: ""}
	n := newTestNormaliser(api)

	got := n.resolveThumbnail(context.Background(), domain.Item{ID: "a1", Metadata: map[string]any{}})

	assert.Equal(t, "", got)
}

func TestNormaliseAnnotation_RectangleScaling(t *testing.T) {
	// Frame 200x112, rectangle {x:50 y:25 w:20 h:10}:
	// x=25%, y=22.32...%, w=10%, h=8.92...%.
	n := newTestNormaliser(&fakeAPI{})

	a, ok := n.normaliseAnnotation(map[string]any{
		"type": "rectangle", "x": 50.0, "y": 25.0, "width": 20.0, "height": 10.0,
	}, "#fff")

	require.True(t, ok)
	assert.InDelta(t, 25.0, a.X, 1e-9)
	assert.InDelta(t, 22.321428571, a.Y, 1e-6)
	assert.InDelta(t, 10.0, a.Width, 1e-9)
	assert.InDelta(t, 8.928571428, a.Height, 1e-6)
	assert.Equal(t, "#fff", a.Color)
}

func TestNormaliseAnnotation_ArrowUsesFirstAndLastPoint(t *testing.T) {
	n := newTestNormaliser(&fakeAPI{})

	a, ok := n.normaliseAnnotation(map[string]any{
		"type": "arrow",
		"points": []any{
			map[string]any{"x": 0.0, "y": 0.0},
			map[string]any{"x": 100.0, "y": 56.0},
			map[string]any{"x": 200.0, "y": 112.0},
		},
	}, "#fff")

	require.True(t, ok)
	assert.Equal(t, domain.Point{X: 0, Y: 0}, *a.Start)
	assert.Equal(t, domain.Point{X: 100, Y: 100}, *a.End)
}

func TestNormaliseAnnotation_FreehandScalesWholePath(t *testing.T) {
	n := newTestNormaliser(&fakeAPI{})

	a, ok := n.normaliseAnnotation(map[string]any{
		"type": "freehand",
		"points": []any{
			map[string]any{"x": 20.0, "y": 28.0},
			map[string]any{"x": 40.0, "y": 56.0},
		},
	}, "#fff")

	require.True(t, ok)
	require.Len(t, a.Path, 2)
	assert.Equal(t, domain.Point{X: 10, Y: 25}, a.Path[0])
	assert.Equal(t, domain.Point{X: 20, Y: 50}, a.Path[1])
}

func TestNormaliseAnnotation_UnknownShapeDropped(t *testing.T) {
	n := newTestNormaliser(&fakeAPI{})

	_, ok := n.normaliseAnnotation(map[string]any{"type": "sparkles"}, "#fff")

	assert.False(t, ok)
}

func TestNormaliseAnnotations_StringPayload(t *testing.T) {
	n := newTestNormaliser(&fakeAPI{})
	payload, err := json.Marshal([]map[string]any{
		{"type": "rectangle", "x": 50.0, "y": 25.0, "width": 20.0, "height": 10.0},
	})
	require.NoError(t, err)

	out := n.normaliseAnnotations(map[string]any{"annotation": string(payload)}, "#abc")

	require.Len(t, out, 1)
	assert.Equal(t, domain.ShapeRectangle, out[0].Shape)
	assert.Equal(t, "#abc", out[0].Color)
}
