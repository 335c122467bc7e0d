package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"convroute/internal/domain/handler"
	"convroute/internal/domain/handler/handlertest"
)

func TestConversionCoreConvertsAcrossDirectEdge(t *testing.T) {
	canvas := handlertest.CanvasToBlob()
	c, err := New(Config{}, []handler.Handler{canvas}, zap.NewNop())
	require.NoError(t, err)

	opts := c.Registry().ByExtension("png")
	require.NotEmpty(t, opts)
	from := opts[0]

	jpegOpts := c.Registry().ByExtension("jpg")
	require.NotEmpty(t, jpegOpts)
	to := jpegOpts[0]

	res, err := c.Convert(context.Background(), []handler.File{{Name: "in.png", Bytes: []byte("x")}}, from, to, false)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Files)
}

func TestConversionCoreRebuildIsSafeAfterConvert(t *testing.T) {
	canvas := handlertest.CanvasToBlob()
	c, err := New(Config{}, []handler.Handler{canvas}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, c.Rebuild(context.Background()))
	assert.NotEmpty(t, c.Registry().Options())
}
