package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"convroute/internal/domain/format"
	"convroute/internal/domain/handler"
	"convroute/internal/domain/handler/handlertest"
)

func TestNewRejectsDuplicateHandlerNames(t *testing.T) {
	a := handlertest.CanvasToBlob()
	b := handlertest.CanvasToBlob()
	_, err := New([]handler.Handler{a, b}, zap.NewNop())
	assert.Error(t, err)
}

func TestInitSkipsFailingHandlers(t *testing.T) {
	good := handlertest.CanvasToBlob()
	bad := &handlertest.Mock{NameValue: "broken", InitErr: errors.New("boom")}

	r, err := New([]handler.Handler{good, bad}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Init(context.Background()))

	assert.NotEmpty(t, r.Options())
	_, ok := r.HandlerByName("broken")
	assert.True(t, ok, "broken handler stays in the roster")
	assert.Empty(t, r.ByExtension("nonexistent"))
}

func TestByExtensionAndByMIMELookup(t *testing.T) {
	r, err := New([]handler.Handler{handlertest.CanvasToBlob()}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Init(context.Background()))

	opts := r.ByExtension("png")
	require.Len(t, opts, 1)
	assert.Equal(t, "image/png", opts[0].Format.MIME)

	opts = r.ByMIME("image/x-png") // synonym, should normalize to image/png
	require.Len(t, opts, 1)
	assert.Equal(t, "png", opts[0].Format.Extension)
}

func TestByExtensionAndByMIMEExcludeOutputOnlyFormats(t *testing.T) {
	r, err := New([]handler.Handler{handlertest.Meyda()}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Init(context.Background()))

	// Meyda's "Plain text" format is to=true, from=false: a source lookup
	// must never surface it.
	assert.Empty(t, r.ByExtension("txt"))
	assert.Empty(t, r.ByMIME("text/plain"))

	assert.NotEmpty(t, r.ByExtension("wav"))
	assert.NotEmpty(t, r.ByMIME("audio/mpeg"))
}

func TestTargetsByMIMEReturnsOnlyOutputCapableOptions(t *testing.T) {
	r, err := New([]handler.Handler{handlertest.Meyda()}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Init(context.Background()))

	targets := r.TargetsByMIME("text/plain")
	require.Len(t, targets, 1)
	assert.Equal(t, "meyda", targets[0].Handler.Name())

	assert.Empty(t, r.TargetsByMIME("audio/wav"))
}

func TestInitSkipsFormatsWithMissingMIME(t *testing.T) {
	blank := &handlertest.Mock{
		NameValue: "blank",
		Formats: []format.Descriptor{
			{Name: "no mime", From: true, To: true},
		},
	}
	r, err := New([]handler.Handler{blank}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Init(context.Background()))

	assert.Empty(t, r.Options())
}

func TestSerializeAndRestoreCacheRoundTrip(t *testing.T) {
	r, err := New([]handler.Handler{handlertest.CanvasToBlob(), handlertest.FFmpeg()}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Init(context.Background()))

	data, err := r.SerializeCache()
	require.NoError(t, err)

	r2, err := New([]handler.Handler{handlertest.CanvasToBlob(), handlertest.FFmpeg()}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, r2.RestoreCache(data))

	assert.Equal(t, len(r.Options()), len(r2.Options()))
	assert.NotEmpty(t, r2.ByExtension("mp4"))
}

func TestRestoreCacheAcceptsBarePairArray(t *testing.T) {
	r, err := New([]handler.Handler{handlertest.CanvasToBlob()}, zap.NewNop())
	require.NoError(t, err)

	doc := `[["canvasToBlob", [{"mime": "image/png", "from": true, "to": true}]]]`
	require.NoError(t, r.RestoreCache([]byte(doc)))
	require.NotEmpty(t, r.Options())
	assert.Equal(t, "canvasToBlob", r.Options()[0].Handler.Name())
}

func TestRestoreCacheRejectsMalformedDocument(t *testing.T) {
	r, err := New([]handler.Handler{handlertest.CanvasToBlob()}, zap.NewNop())
	require.NoError(t, err)

	err = r.RestoreCache([]byte(`{"cache": [{"handler": ""}]}`))
	assert.Error(t, err)
}

func TestRestoreCacheSkipsUnknownHandler(t *testing.T) {
	r, err := New([]handler.Handler{handlertest.CanvasToBlob()}, zap.NewNop())
	require.NoError(t, err)

	doc := `{"cache": [["not-registered", [{"mime": "image/png"}]]]}`
	require.NoError(t, r.RestoreCache([]byte(doc)))
	assert.Empty(t, r.Options())
}
