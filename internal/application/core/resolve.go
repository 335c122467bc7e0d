package core

import (
	"convroute/internal/domain/format"
	"convroute/internal/domain/handler"
	"convroute/internal/domain/registry"
)

// ResolveSource picks a registry option to use as a conversion source for a
// bare MIME type, as reported by an HTTP request body or a CLI --from flag.
// If no handler declares mime as an input format, a bare descriptor is
// returned so the caller still gets a definite MIME-normalized vertex to
// search from; NewSearch reports MissingVertex if that MIME turns out not
// to exist in the graph either.
func ResolveSource(reg *registry.Registry, mime string) handler.Option {
	if opts := reg.ByMIME(mime); len(opts) > 0 {
		return opts[0]
	}
	return handler.Option{Format: format.Descriptor{MIME: format.Normalize(mime)}}
}

// ResolveTarget picks a registry option to use as a conversion target for a
// bare MIME type, plus the simpleMode flag Convert should search with.
//
// If preferred is non-nil and some handler declares mime as an output
// format, the option belonging to that handler is used and the search runs
// in strict mode: a candidate path must arrive via that exact handler.
// Otherwise the first output-capable option for mime is used as a format
// template only (its handler carries no weight) and the search runs in
// simple mode, so arrival is judged by MIME identity alone.
func ResolveTarget(reg *registry.Registry, mime string, preferred handler.Handler) (handler.Option, bool) {
	opts := reg.TargetsByMIME(mime)
	if preferred != nil {
		for _, opt := range opts {
			if opt.Handler != nil && opt.Handler.Name() == preferred.Name() {
				return opt, false
			}
		}
	}
	if len(opts) > 0 {
		return opts[0], true
	}
	return handler.Option{Format: format.Descriptor{MIME: format.Normalize(mime)}}, true
}
