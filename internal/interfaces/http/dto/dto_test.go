package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"convroute/internal/domain/format"
	"convroute/internal/domain/graph"
	"convroute/internal/domain/handler"
	"convroute/internal/domain/handler/handlertest"
	"convroute/pkg/api"
)

func TestFilesRoundTrip(t *testing.T) {
	req := []api.FileDTO{{Name: "a.png", Content: []byte("bytes")}}
	files := FilesFromRequest(req)
	assert.Equal(t, []handler.File{{Name: "a.png", Bytes: []byte("bytes")}}, files)

	resp := FilesToResponse(files)
	assert.Equal(t, req, resp)
}

func TestPathToResponseNamesEachHop(t *testing.T) {
	h := handlertest.CanvasToBlob()
	path := handler.Path{
		{Handler: nil, Format: format.Descriptor{MIME: "image/png"}},
		{Handler: h, Format: format.Descriptor{MIME: "image/webp"}},
	}

	hops := PathToResponse(path)
	assert.Equal(t, []api.PathHop{
		{Handler: "", MIME: "image/png"},
		{Handler: "canvasToBlob", MIME: "image/webp"},
	}, hops)
}

func TestOptionToResponseHandlesNilHandler(t *testing.T) {
	opt := handler.Option{Format: format.Descriptor{Name: "PNG", MIME: "image/png"}}
	resp := OptionToResponse(opt)
	assert.Equal(t, "", resp.Handler)
	assert.Equal(t, "image/png", resp.MIME)
}

func TestGraphToResponseFlattensVerticesAndEdges(t *testing.T) {
	data := graph.Data{
		Vertices: []graph.Vertex{{MIME: "image/png"}, {MIME: "image/webp"}},
		Edges: []graph.Edge{
			{
				From:        format.Descriptor{MIME: "image/png"},
				To:          format.Descriptor{MIME: "image/webp"},
				HandlerName: "canvasToBlob",
				Cost:        1.2,
			},
		},
	}

	resp := GraphToResponse(data)
	assert.Equal(t, []string{"image/png", "image/webp"}, resp.Vertices)
	assert.Equal(t, []api.GraphEdgeDTO{{From: "image/png", To: "image/webp", Handler: "canvasToBlob", Cost: 1.2}}, resp.Edges)
}

func TestDescriptorFromMIMENormalizes(t *testing.T) {
	d := DescriptorFromMIME("image/x-png")
	assert.Equal(t, "image/png", d.MIME)
}
