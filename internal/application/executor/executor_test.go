package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convroute/internal/domain/format"
	"convroute/internal/domain/handler"
	"convroute/internal/domain/handler/handlertest"
)

type fixedSearch struct {
	paths []handler.Path
	i     int
}

func (f *fixedSearch) Next(ctx context.Context) (handler.Path, bool) {
	if f.i >= len(f.paths) {
		return nil, false
	}
	p := f.paths[f.i]
	f.i++
	return p, true
}

func pngFormat() format.Descriptor {
	return format.New("PNG", "png", "png", "image/png", true, true).WithCategory(format.CategoryImage).WithLossless(true)
}

func jpegFormat() format.Descriptor {
	return format.New("JPEG", "jpg", "jpg", "image/jpeg", true, true).WithCategory(format.CategoryImage)
}

func TestTryConvertSucceedsOnFirstPath(t *testing.T) {
	canvas := handlertest.CanvasToBlob()
	path := handler.Path{
		{Handler: nil, Format: pngFormat()},
		{Handler: canvas, Format: jpegFormat()},
	}
	s := &fixedSearch{paths: []handler.Path{path}}

	e := New(nil)
	res, err := e.TryConvert(context.Background(), s, []handler.File{{Name: "in.png", Bytes: []byte("x")}}, handler.Option{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Files)
}

func TestTryConvertFallsBackToNextPathOnFailure(t *testing.T) {
	failing := &handlertest.Mock{
		NameValue: "flaky",
		Formats:   []format.Descriptor{pngFormat(), jpegFormat()},
		ConvertFunc: func(ctx context.Context, files []handler.File, in, out format.Descriptor) ([]handler.File, error) {
			return nil, errors.New("boom")
		},
	}
	working := handlertest.CanvasToBlob()

	badPath := handler.Path{{Handler: nil, Format: pngFormat()}, {Handler: failing, Format: jpegFormat()}}
	goodPath := handler.Path{{Handler: nil, Format: pngFormat()}, {Handler: working, Format: jpegFormat()}}
	s := &fixedSearch{paths: []handler.Path{badPath, goodPath}}

	e := New(nil)
	res, err := e.TryConvert(context.Background(), s, []handler.File{{Name: "in.png", Bytes: []byte("x")}}, handler.Option{})
	require.NoError(t, err)
	assert.Equal(t, "canvasToBlob", res.Path[len(res.Path)-1].Handler.Name())
}

func TestTryConvertFailsWhenNoPathExists(t *testing.T) {
	s := &fixedSearch{}
	e := New(nil)
	_, err := e.TryConvert(context.Background(), s, nil, handler.Option{})
	assert.Error(t, err)
}

func TestTryConvertTreatsEmptyOutputAsFailure(t *testing.T) {
	empty := &handlertest.Mock{
		NameValue: "empty",
		Formats:   []format.Descriptor{pngFormat(), jpegFormat()},
		ConvertFunc: func(ctx context.Context, files []handler.File, in, out format.Descriptor) ([]handler.File, error) {
			return nil, nil
		},
	}
	path := handler.Path{{Handler: nil, Format: pngFormat()}, {Handler: empty, Format: jpegFormat()}}
	s := &fixedSearch{paths: []handler.Path{path}}

	e := New(nil)
	_, err := e.TryConvert(context.Background(), s, []handler.File{{Name: "in.png"}}, handler.Option{})
	assert.Error(t, err)
}

// TestTryConvertSubstitutesExactTargetFormatOnMatchingHandler exercises the
// PNG-vs-APNG scenario the Internal discriminator exists for: the graph's
// cost-optimal edge and the caller's requested target agree on handler and
// MIME but differ on which same-MIME variant the handler should emit.
func TestTryConvertSubstitutesExactTargetFormatOnMatchingHandler(t *testing.T) {
	pngVariant := format.New("PNG image", "png", "png", "image/png", true, true).WithInternal("png")
	apngVariant := format.New("Animated PNG", "png", "png", "image/png", true, true).WithInternal("apng")

	encoder := &handlertest.Mock{
		NameValue: "encoder",
		Formats:   []format.Descriptor{pngVariant, apngVariant},
		ConvertFunc: func(ctx context.Context, files []handler.File, in, out format.Descriptor) ([]handler.File, error) {
			return []handler.File{{Name: "out." + out.Internal, Bytes: []byte("y")}}, nil
		},
	}

	// The graph's winning edge happened to land on the apng variant.
	path := handler.Path{{Handler: nil, Format: pngFormat()}, {Handler: encoder, Format: apngVariant}}
	s := &fixedSearch{paths: []handler.Path{path}}

	e := New(nil)
	res, err := e.TryConvert(context.Background(), s, []handler.File{{Name: "in.png"}},
		handler.Option{Handler: encoder, Format: pngVariant})
	require.NoError(t, err)
	assert.Equal(t, "png", res.Path[len(res.Path)-1].Format.Internal)
	assert.Equal(t, "out.png", res.Files[0].Name)
}

func TestTryConvertDoesNotSubstituteWhenGraphChoseADifferentHandler(t *testing.T) {
	graphChosen := &handlertest.Mock{
		NameValue: "graph-chosen",
		Formats:   []format.Descriptor{pngFormat(), jpegFormat()},
		ConvertFunc: func(ctx context.Context, files []handler.File, in, out format.Descriptor) ([]handler.File, error) {
			return []handler.File{{Name: "graph-chosen.jpg", Bytes: []byte("x")}}, nil
		},
	}
	preferred := &handlertest.Mock{
		NameValue: "preferred",
		Formats:   []format.Descriptor{jpegFormat()},
	}

	path := handler.Path{{Handler: nil, Format: pngFormat()}, {Handler: graphChosen, Format: jpegFormat()}}
	s := &fixedSearch{paths: []handler.Path{path}}

	e := New(nil)
	res, err := e.TryConvert(context.Background(), s, []handler.File{{Name: "in.png"}},
		handler.Option{Handler: preferred, Format: jpegFormat()})
	require.NoError(t, err)
	assert.Equal(t, "graph-chosen", res.Path[len(res.Path)-1].Handler.Name())
	assert.Equal(t, "graph-chosen.jpg", res.Files[0].Name)
}
