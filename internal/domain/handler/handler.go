// Package handler defines the contract every conversion handler (FFmpeg,
// ImageMagick, Pandoc, ...) must satisfy. Handlers are opaque actors to the
// core: they may be slow, may fail, and may produce empty output — the core
// never trusts a handler further than this interface allows.
package handler

import (
	"context"

	"convroute/internal/domain/format"
)

// File is one input or output file flowing through the handler protocol.
type File struct {
	Name  string
	Bytes []byte
}

// Handler is the five-member capability interface every conversion
// implementation sits behind.
type Handler interface {
	// Name is a non-empty, globally unique identifier.
	Name() string

	// SupportedFormats returns the handler's declared formats. It is only
	// meaningful after Init has succeeded; callers must not rely on it
	// beforehand.
	SupportedFormats() []format.Descriptor

	// Ready reports whether Init has succeeded at least once.
	Ready() bool

	// Init is idempotent and safe to call multiple times; a failed attempt
	// may be retried lazily on next use. It populates SupportedFormats.
	Init(ctx context.Context) error

	// DoConvert performs one conversion step. inputFormat and outputFormat
	// must be formats this handler previously declared. Output files must
	// be non-empty on success; errors may be returned for any failure.
	DoConvert(ctx context.Context, files []File, inputFormat, outputFormat format.Descriptor) ([]File, error)
}

// AnyInputHandler is an optional extension: handlers that accept it are
// considered as fallbacks when no direct edge matches the input MIME. The
// graph build records each output format of such a handler, and the search
// offers it as a hop out of every vertex whose MIME differs from it, in
// addition to the handler's ordinary edges.
type AnyInputHandler interface {
	Handler
	SupportAnyInput() bool
}

// SupportsAnyInput reports whether h opts into the any-input fallback.
func SupportsAnyInput(h Handler) bool {
	aih, ok := h.(AnyInputHandler)
	return ok && aih.SupportAnyInput()
}
