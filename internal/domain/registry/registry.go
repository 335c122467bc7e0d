// Package registry owns the handler roster: initialization, the dense
// (handler, format) option list used for UI binding, and extension/MIME
// lookup indexes built from each handler's declared formats.
package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"convroute/internal/domain/format"
	"convroute/internal/domain/handler"
	rerrors "convroute/pkg/errors"
)

// Registry holds an ordered, initialized handler roster and the lookup
// indexes derived from it.
type Registry struct {
	logger   *zap.Logger
	handlers []handler.Handler
	options  []handler.Option

	byExtension map[string][]handler.Option
	byMIME      map[string][]handler.Option
}

// New validates handler names are unique and returns an uninitialized
// Registry. Call Init before using any lookup method.
func New(handlers []handler.Handler, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	seen := make(map[string]bool, len(handlers))
	for _, h := range handlers {
		if seen[h.Name()] {
			return nil, rerrors.Configuration("duplicate_handler_name", fmt.Sprintf("handler name %q registered twice", h.Name())).
				WithResource(h.Name()).Build()
		}
		seen[h.Name()] = true
	}
	return &Registry{
		logger:      logger,
		handlers:    append([]handler.Handler(nil), handlers...),
		byExtension: make(map[string][]handler.Option),
		byMIME:      make(map[string][]handler.Option),
	}, nil
}

// Init calls Init on every handler. A handler whose Init fails is logged and
// excluded from the option list and lookup indexes for this cycle; it does
// not fail Init as a whole. Init clears and rebuilds the option list and
// indexes each time it is called, so it is safe to call again after a
// handler recovers.
func (r *Registry) Init(ctx context.Context) error {
	r.options = nil
	r.byExtension = make(map[string][]handler.Option)
	r.byMIME = make(map[string][]handler.Option)

	idx := 0
	for _, h := range r.handlers {
		if err := h.Init(ctx); err != nil {
			r.logger.Warn("handler init failed, skipping",
				zap.String("handler", h.Name()), zap.Error(err))
			continue
		}
		for _, fd := range h.SupportedFormats() {
			if fd.MIME == "" {
				continue
			}
			opt := handler.Option{Handler: h, Format: fd, Index: idx}
			idx++
			r.options = append(r.options, opt)
			if fd.Extension != "" {
				ext := strings.ToLower(fd.Extension)
				r.byExtension[ext] = append(r.byExtension[ext], opt)
			}
			r.byMIME[fd.MIME] = append(r.byMIME[fd.MIME], opt)
		}
	}
	return nil
}

// MergeHandlerFormats folds h's currently declared formats into the option
// list and lookup indexes, skipping any (handler, MIME, extension, internal
// variant) combination already present. It never removes or overwrites an
// existing entry, matching the process-global format cache's
// fill-gaps-only, idempotent update contract: callers can invoke it
// repeatedly, such as after lazily initializing a handler mid-conversion,
// without risking a duplicate or stale option.
func (r *Registry) MergeHandlerFormats(h handler.Handler) {
	existing := make(map[string]bool, len(r.options))
	for _, opt := range r.options {
		if opt.Handler.Name() == h.Name() {
			existing[formatKey(opt.Format)] = true
		}
	}

	idx := len(r.options)
	for _, fd := range h.SupportedFormats() {
		if fd.MIME == "" || existing[formatKey(fd)] {
			continue
		}
		opt := handler.Option{Handler: h, Format: fd, Index: idx}
		idx++
		r.options = append(r.options, opt)
		if fd.Extension != "" {
			ext := strings.ToLower(fd.Extension)
			r.byExtension[ext] = append(r.byExtension[ext], opt)
		}
		r.byMIME[fd.MIME] = append(r.byMIME[fd.MIME], opt)
		existing[formatKey(fd)] = true
	}
}

func formatKey(fd format.Descriptor) string {
	return fd.MIME + "|" + fd.Extension + "|" + fd.Internal
}

// Handlers returns the registry's handler roster in registration order.
func (r *Registry) Handlers() []handler.Handler {
	return append([]handler.Handler(nil), r.handlers...)
}

// Options returns the dense (handler, format) option list as last built by
// Init or RestoreCache, including any formats MergeHandlerFormats added
// since.
func (r *Registry) Options() []handler.Option {
	return append([]handler.Option(nil), r.options...)
}

// ByExtension returns every option declaring the given filename extension
// (without leading dot), matched case-insensitively, that can serve as a
// conversion source. Options whose format is output-only (from=false) are
// never source candidates and are excluded.
func (r *Registry) ByExtension(ext string) []handler.Option {
	return filterFromTrue(r.byExtension[strings.ToLower(ext)])
}

// ByMIME returns every option declaring the given MIME after normalization
// that can serve as a conversion source. Options whose format is
// output-only (from=false) are excluded, mirroring ByExtension.
func (r *Registry) ByMIME(mime string) []handler.Option {
	return filterFromTrue(r.byMIME[format.Normalize(mime)])
}

// TargetsByMIME returns every option declaring the given MIME after
// normalization that can serve as a conversion target (to=true). This is
// the counterpart ByMIME/ByExtension omit: those two are source-only per
// the routing registry's lookup contract, but resolving a target format
// from a bare MIME (as the HTTP and CLI entry points do) needs the opposite
// filter.
func (r *Registry) TargetsByMIME(mime string) []handler.Option {
	return lo.Filter(r.byMIME[format.Normalize(mime)], func(opt handler.Option, _ int) bool {
		return opt.Format.To
	})
}

func filterFromTrue(opts []handler.Option) []handler.Option {
	return lo.Filter(opts, func(opt handler.Option, _ int) bool {
		return opt.Format.From
	})
}

// HandlerByName returns the handler with the given name, if registered.
func (r *Registry) HandlerByName(name string) (handler.Handler, bool) {
	return lo.Find(r.handlers, func(h handler.Handler) bool {
		return h.Name() == name
	})
}
