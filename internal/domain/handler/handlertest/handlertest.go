// Package handlertest provides small deterministic handler.Handler
// implementations for use in graph, registry, and executor tests. They model
// three real conversion tools by name only: a browser canvas encoder, an
// audio feature extractor, and a general-purpose transcoder.
package handlertest

import (
	"context"
	"fmt"

	"convroute/internal/domain/format"
	"convroute/internal/domain/handler"
)

// Mock is a configurable handler.Handler. Formats is returned verbatim by
// SupportedFormats after Init succeeds. ConvertFunc, if set, overrides the
// default behavior of returning one output file per output-format request.
type Mock struct {
	NameValue    string
	Formats      []format.Descriptor
	InitErr      error
	ConvertFunc  func(ctx context.Context, files []handler.File, in, out format.Descriptor) ([]handler.File, error)
	AnyInput     bool
	ready        bool
	initCalls    int
}

func (m *Mock) Name() string { return m.NameValue }

func (m *Mock) SupportedFormats() []format.Descriptor { return m.Formats }

func (m *Mock) Ready() bool { return m.ready }

func (m *Mock) Init(ctx context.Context) error {
	m.initCalls++
	if m.InitErr != nil {
		return m.InitErr
	}
	m.ready = true
	return nil
}

func (m *Mock) InitCalls() int { return m.initCalls }

func (m *Mock) SupportAnyInput() bool { return m.AnyInput }

func (m *Mock) DoConvert(ctx context.Context, files []handler.File, in, out format.Descriptor) ([]handler.File, error) {
	if m.ConvertFunc != nil {
		return m.ConvertFunc(ctx, files, in, out)
	}
	return []handler.File{{Name: fmt.Sprintf("out.%s", out.Extension), Bytes: []byte("converted")}}, nil
}

// CanvasToBlob mimics a browser-side image re-encoder: image formats in,
// image formats out, all lossless declared false except PNG.
func CanvasToBlob() *Mock {
	return &Mock{
		NameValue: "canvasToBlob",
		Formats: []format.Descriptor{
			format.New("PNG image", "png", "png", "image/png", true, true).WithCategory(format.CategoryImage).WithLossless(true),
			format.New("JPEG image", "jpg", "jpg", "image/jpeg", true, true).WithCategory(format.CategoryImage),
			format.New("WebP image", "webp", "webp", "image/webp", true, true).WithCategory(format.CategoryImage),
		},
	}
}

// Meyda mimics an audio feature-extraction library repurposed here as an
// audio-to-text (transcript-like) handler, input only for audio, output only
// for text.
func Meyda() *Mock {
	return &Mock{
		NameValue: "meyda",
		Formats: []format.Descriptor{
			format.New("WAV audio", "wav", "wav", "audio/wav", true, false).WithCategory(format.CategoryAudio).WithLossless(true),
			format.New("MP3 audio", "mp3", "mp3", "audio/mpeg", true, false).WithCategory(format.CategoryAudio),
			format.New("Plain text", "txt", "txt", "text/plain", false, true).WithCategory(format.CategoryText).WithLossless(true),
		},
	}
}

// FFmpeg mimics a general-purpose transcoder spanning image, video, and
// audio, both directions.
func FFmpeg() *Mock {
	return &Mock{
		NameValue: "ffmpeg",
		Formats: []format.Descriptor{
			format.New("PNG image", "png", "png", "image/png", true, true).WithCategory(format.CategoryImage).WithLossless(true),
			format.New("MP4 video", "mp4", "mp4", "video/mp4", true, true).WithCategory(format.CategoryVideo),
			format.New("AVI video", "avi", "avi", "video/avi", true, true).WithCategory(format.CategoryVideo),
			format.New("WAV audio", "wav", "wav", "audio/wav", true, true).WithCategory(format.CategoryAudio).WithLossless(true),
			format.New("MP3 audio", "mp3", "mp3", "audio/mpeg", true, true).WithCategory(format.CategoryAudio),
		},
	}
}
