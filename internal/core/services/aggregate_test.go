package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestPathIndex_Path(t *testing.T) {
	x := NewPathIndex("root")
	x.Record(folder("fA", "Cut A", "root"))
	x.Record(folder("fSub", "Selects", "fA"))

	assert.Equal(t, "/", x.Path("root"))
	assert.Equal(t, "/", x.Path(""))
	assert.Equal(t, "/Cut A", x.Path("fA"))
	assert.Equal(t, "/Cut A/Selects", x.Path("fSub"))
}

func TestPathIndex_Path_UnknownIDIsRoot(t *testing.T) {
	x := NewPathIndex("root")

	assert.Equal(t, "/", x.Path("never-seen"))
}

func TestPathIndex_Path_Memoised(t *testing.T) {
	x := NewPathIndex("root")
	x.Record(folder("fA", "Cut A", "root"))

	first := x.Path("fA")
	// Mutating the underlying links must not change a resolved path.
	x.parents["fA"] = "elsewhere"
	second := x.Path("fA")

	assert.Equal(t, first, second)
}

func TestPathIndex_Path_CycleSafe(t *testing.T) {
	x := NewPathIndex("root")
	x.Record(folder("fA", "A", "fB"))
	x.Record(folder("fB", "B", "fA"))

	// Must terminate; exact path shape is secondary.
	assert.NotPanics(t, func() { x.Path("fA") })
}

func TestAggregator_Grouped_AssetsSortedByNameWithinGroup(t *testing.T) {
	// Two assets, same folder path, names "Bravo" and "Alpha":
	// expected group order ["Alpha", "Bravo"].
	assets := []domain.AssetReport{
		{AssetID: "a2", Name: "Bravo", FolderPath: "/Cuts"},
		{AssetID: "a1", Name: "Alpha", FolderPath: "/Cuts"},
	}

	report := NewAggregator(fixedNow).Aggregate("p1", assets, true)

	require.Len(t, report.Groups, 1)
	assert.Equal(t, "Alpha", report.Groups[0].Assets[0].Name)
	assert.Equal(t, "Bravo", report.Groups[0].Assets[1].Name)
	assert.Equal(t, "2024-06-01T12:00:00Z", report.GeneratedAt)
}

func TestAggregator_Grouped_GroupsSortedByPath(t *testing.T) {
	assets := []domain.AssetReport{
		{AssetID: "a1", Name: "x", FolderPath: "/Zulu"},
		{AssetID: "a2", Name: "y", FolderPath: "/Alpha"},
		{AssetID: "a3", Name: "z"}, // no path resolves to root
	}

	report := NewAggregator(fixedNow).Aggregate("p1", assets, true)

	require.Len(t, report.Groups, 3)
	assert.Equal(t, "/", report.Groups[0].FolderPath)
	assert.Equal(t, "/Alpha", report.Groups[1].FolderPath)
	assert.Equal(t, "/Zulu", report.Groups[2].FolderPath)
	assert.Empty(t, report.Flat)
}

func TestAggregator_Flat_MostRecentCommentFirst(t *testing.T) {
	assets := []domain.AssetReport{
		{AssetID: "a1", Name: "older", Comments: []domain.Comment{{RawTimestamp: "2024-01-01T00:00:00Z"}}},
		{AssetID: "a2", Name: "newest", Comments: []domain.Comment{
			{RawTimestamp: "2023-01-01T00:00:00Z"},
			{RawTimestamp: "2024-05-01T00:00:00Z"},
		}},
		{AssetID: "a3", Name: "middle", Comments: []domain.Comment{{RawTimestamp: "2024-02-01T00:00:00Z"}}},
	}

	report := NewAggregator(fixedNow).Aggregate("p1", assets, false)

	require.Len(t, report.Flat, 3)
	assert.Equal(t, "newest", report.Flat[0].Name)
	assert.Equal(t, "middle", report.Flat[1].Name)
	assert.Equal(t, "older", report.Flat[2].Name)
	assert.Empty(t, report.Groups)
}

func TestAggregator_Deterministic(t *testing.T) {
	assets := []domain.AssetReport{
		{AssetID: "a1", Name: "b", FolderPath: "/x"},
		{AssetID: "a2", Name: "a", FolderPath: "/x"},
		{AssetID: "a3", Name: "c", FolderPath: "/y"},
	}

	first := NewAggregator(fixedNow).Aggregate("p1", assets, true)
	second := NewAggregator(fixedNow).Aggregate("p1", assets, true)

	assert.Equal(t, first, second)
}
