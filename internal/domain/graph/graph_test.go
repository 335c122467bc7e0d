package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convroute/internal/domain/format"
	"convroute/internal/domain/handler"
	"convroute/internal/domain/handler/handlertest"
)

func mustFormat(t *testing.T, g *Graph, mime string) format.Descriptor {
	t.Helper()
	require.True(t, g.HasVertex(mime), "expected vertex for %s", mime)
	for _, v := range g.vertices {
		if v.MIME == mime {
			return format.Descriptor{MIME: mime}
		}
	}
	return format.Descriptor{MIME: mime}
}

func TestBuildCreatesVerticesAndEdges(t *testing.T) {
	canvas := handlertest.CanvasToBlob()
	g := Build([]handler.Handler{canvas}, DefaultCostTables(), false)

	assert.True(t, g.HasVertex("image/png"))
	assert.True(t, g.HasVertex("image/jpeg"))
	assert.True(t, g.HasVertex("image/webp"))
	assert.False(t, g.HasVertex("audio/wav"))
}

func TestSearchFindsDirectConversion(t *testing.T) {
	canvas := handlertest.CanvasToBlob()
	g := Build([]handler.Handler{canvas}, DefaultCostTables(), false)

	from := mustFormat(t, g, "image/png")
	to := mustFormat(t, g, "image/jpeg")

	s, err := NewSearch(g, from, handler.Option{Format: to}, true)
	require.NoError(t, err)

	path, ok := s.Next(context.Background())
	require.True(t, ok)
	require.Len(t, path, 2)
	assert.Equal(t, "image/jpeg", path[1].Format.MIME)
	assert.Equal(t, "canvasToBlob", path[1].Handler.Name())
}

func TestSearchReturnsPathsInNonDecreasingCost(t *testing.T) {
	ffmpeg := handlertest.FFmpeg()
	g := Build([]handler.Handler{ffmpeg}, DefaultCostTables(), false)

	from := mustFormat(t, g, "image/png")
	to := mustFormat(t, g, "video/mp4")

	s, err := NewSearch(g, from, handler.Option{Format: to}, true)
	require.NoError(t, err)

	var last float64 = -1
	count := 0
	for {
		path, ok := s.Next(context.Background())
		if !ok {
			break
		}
		cost := 0.0
		for i := 1; i < len(path); i++ {
			for _, e := range g.edges {
				if e.From.MIME == path[i-1].Format.MIME && e.To.MIME == path[i].Format.MIME && e.HandlerName == path[i].Handler.Name() {
					cost += e.Cost
					break
				}
			}
			cost += adaptiveCost(g.tables, path[:i+1].Categories())
		}
		assert.GreaterOrEqual(t, cost, last)
		last = cost
		count++
		if count > 10 {
			break
		}
	}
	assert.GreaterOrEqual(t, count, 1)
}

func TestSearchMissingVertexErrors(t *testing.T) {
	canvas := handlertest.CanvasToBlob()
	g := Build([]handler.Handler{canvas}, DefaultCostTables(), false)

	_, err := NewSearch(g, format.Descriptor{MIME: "application/octet-stream"}, handler.Option{Format: format.Descriptor{MIME: "image/jpeg"}}, true)
	assert.Error(t, err)
}

func TestSafetyFilterRejectsImageVideoAudio(t *testing.T) {
	assert.True(t, pathViolatesSafety([]string{format.CategoryImage, format.CategoryVideo, format.CategoryAudio}))
	assert.False(t, pathViolatesSafety([]string{format.CategoryVideo, format.CategoryImage, format.CategoryAudio}))
	assert.False(t, pathViolatesSafety([]string{format.CategoryImage, format.CategoryVideo}))
}

func TestAdaptiveCostMatchesTrailingSuffix(t *testing.T) {
	tables := DefaultCostTables()
	cost := adaptiveCost(tables, []string{format.CategoryText, format.CategoryImage, format.CategoryAudio})
	assert.Equal(t, 15.0, cost)

	cost = adaptiveCost(tables, []string{format.CategoryAudio, format.CategoryText, format.CategoryImage, format.CategoryAudio})
	assert.Equal(t, 15.0, cost)

	cost = adaptiveCost(tables, []string{format.CategoryImage, format.CategoryAudio})
	assert.Equal(t, 0.0, cost)
}

func TestCategoryChangeTableMutation(t *testing.T) {
	tables := DefaultCostTables()
	assert.False(t, tables.HasCategoryChangeCost(format.CategoryData, format.CategoryDatabase, ""))

	tables.AddCategoryChangeCost(format.CategoryData, format.CategoryDatabase, "", 2.5)
	assert.True(t, tables.HasCategoryChangeCost(format.CategoryData, format.CategoryDatabase, ""))

	tables.UpdateCategoryChangeCost(format.CategoryData, format.CategoryDatabase, "", 3.5)
	found := false
	for _, e := range tables.categoryChange {
		if e.From == format.CategoryData && e.To == format.CategoryDatabase && e.Handler == "" {
			found = true
			assert.Equal(t, 3.5, e.Cost)
		}
	}
	assert.True(t, found)

	tables.RemoveCategoryChangeCost(format.CategoryData, format.CategoryDatabase, "")
	assert.False(t, tables.HasCategoryChangeCost(format.CategoryData, format.CategoryDatabase, ""))
}

func TestConnectedFormatsBFS(t *testing.T) {
	ffmpeg := handlertest.FFmpeg()
	g := Build([]handler.Handler{ffmpeg}, DefaultCostTables(), false)

	reachable := g.ConnectedFormats("image/png")
	assert.Contains(t, reachable, "video/mp4")
	assert.Contains(t, reachable, "audio/wav")
}

func TestAnyInputHandlerReachableFromEveryVertex(t *testing.T) {
	canvas := handlertest.CanvasToBlob()
	any := &handlertest.Mock{
		NameValue: "universal-thumbnailer",
		AnyInput:  true,
		Formats: []format.Descriptor{
			format.New("Thumbnail", "thumb", "thumb", "image/vnd.thumb", false, true).WithCategory(format.CategoryImage),
		},
	}
	g := Build([]handler.Handler{canvas, any}, DefaultCostTables(), false)

	from := mustFormat(t, g, "image/webp")
	to := format.Descriptor{MIME: "image/vnd.thumb"}
	s, err := NewSearch(g, from, handler.Option{Format: to}, true)
	require.NoError(t, err)

	path, ok := s.Next(context.Background())
	require.True(t, ok)
	assert.Equal(t, "universal-thumbnailer", path[len(path)-1].Handler.Name())
}

func TestSearchWithTargetHandlerSkipsMismatchedArrival(t *testing.T) {
	canvas := handlertest.CanvasToBlob()
	rival := &handlertest.Mock{
		NameValue: "rival-encoder",
		Formats: []format.Descriptor{
			format.New("PNG image", "png", "png", "image/png", true, true).WithCategory(format.CategoryImage).WithLossless(true),
			format.New("JPEG image", "jpg", "jpg", "image/jpeg", true, true).WithCategory(format.CategoryImage),
		},
	}
	g := Build([]handler.Handler{canvas, rival}, DefaultCostTables(), false)

	from := mustFormat(t, g, "image/png")
	to := mustFormat(t, g, "image/jpeg")

	// Strict mode: only a path whose last hop was produced by rival-encoder
	// counts as found.
	s, err := NewSearch(g, from, handler.Option{Handler: rival, Format: to}, false)
	require.NoError(t, err)

	path, ok := s.Next(context.Background())
	require.True(t, ok)
	assert.Equal(t, "rival-encoder", path[len(path)-1].Handler.Name())
}
