// Package executor drives the handler protocol along a candidate path: it
// asks a graph.Search for successive paths and attempts each in turn,
// stopping at the first one that produces non-empty output.
package executor

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"convroute/internal/domain/format"
	"convroute/internal/domain/handler"
	rerrors "convroute/pkg/errors"
)

// Result is the outcome of a successful conversion: the produced files and
// the path that produced them.
type Result struct {
	Files []handler.File
	Path  handler.Path
}

// Searcher is the subset of graph.Search the executor depends on, kept
// narrow so executor tests can supply a canned sequence of paths without
// building a real graph.
type Searcher interface {
	Next(ctx context.Context) (handler.Path, bool)
}

// Executor attempts candidate paths against the handler protocol. It is safe
// for concurrent use; a private circuit breaker guards each handler.
type Executor struct {
	logger         *zap.Logger
	onBreakerTrip  func(handlerName string)
	onHandlerReady func(h handler.Handler)

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// New returns an Executor. logger may be nil.
func New(logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		logger:   logger,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// OnBreakerTrip registers a callback invoked whenever a handler's circuit
// breaker transitions into the open state. Used to feed the breaker-trip
// metric without this package importing the observability package.
func (e *Executor) OnBreakerTrip(fn func(handlerName string)) {
	e.onBreakerTrip = fn
}

// OnHandlerReady registers a callback invoked whenever attemptPath has to
// lazily initialize a handler that wasn't ready. Used to merge the
// handler's now-populated SupportedFormats back into the process-global
// format cache without this package importing the registry package.
func (e *Executor) OnHandlerReady(fn func(h handler.Handler)) {
	e.onHandlerReady = fn
}

// TryConvert pulls candidate paths from s in increasing cost order and
// attempts each with attemptPath until one succeeds or the search is
// exhausted. target is the caller's resolved (handler, format) pair for the
// destination: whenever a candidate path's last hop was already produced by
// target.Handler, its format is substituted for the exact target.Format
// (preserving the caller's requested format variant, e.g. PNG vs APNG under
// one MIME, over whatever the graph's cost-optimal edge happened to carry).
func (e *Executor) TryConvert(ctx context.Context, s Searcher, files []handler.File, target handler.Option) (*Result, error) {
	attemptCache := newAttemptCache()

	var lastErr error
	attempted := 0
	for {
		path, ok := s.Next(ctx)
		if !ok {
			break
		}
		attempted++

		path = substituteLastHop(path, target)

		out, err := e.attemptPath(ctx, path, files, attemptCache)
		if err != nil {
			e.logger.Debug("path attempt failed", zap.Error(err))
			lastErr = err
			continue
		}
		return &Result{Files: out, Path: path}, nil
	}

	if attempted == 0 {
		return nil, rerrors.Routing("no_path_found", "no candidate path exists between the requested formats").Build()
	}
	return nil, rerrors.Routing("all_paths_failed", "every candidate path failed").WithCause(lastErr).Build()
}

func substituteLastHop(path handler.Path, target handler.Option) handler.Path {
	if target.Handler == nil || len(path) < 2 {
		return path
	}
	last := path[len(path)-1]
	if last.Handler == nil || last.Handler.Name() != target.Handler.Name() {
		return path
	}
	out := path.Clone()
	out[len(out)-1] = handler.PathNode{Handler: target.Handler, Format: target.Format}
	return out
}

// attemptPath drives the handler protocol across every hop of path. A step
// producing an error or empty output fails the whole attempt; the caller
// moves on to the next candidate path rather than partially applying one.
func (e *Executor) attemptPath(ctx context.Context, path handler.Path, files []handler.File, cache *attemptCache) ([]handler.File, error) {
	current := files
	for i := 1; i < len(path); i++ {
		node := path[i]
		outFormat := node.Format

		if !node.Handler.Ready() {
			if err := node.Handler.Init(ctx); err != nil {
				return nil, rerrors.PathStep("handler_init_failed", err.Error()).
					WithResource(node.Handler.Name()).WithCause(err).Build()
			}
			if e.onHandlerReady != nil {
				e.onHandlerReady(node.Handler)
			}
		}

		inFormat, ok := resolveInputFormat(node.Handler, path[i-1].Format.MIME)
		if !ok {
			return nil, rerrors.PathStep("input_format_not_declared", "handler does not declare an input format for the prior hop's MIME").
				WithResource(node.Handler.Name()).Build()
		}

		key := cache.key(node.Handler.Name(), inFormat.MIME, outFormat.MIME, current)
		if cached, ok := cache.get(key); ok {
			current = cached
			continue
		}

		out, err := e.runStep(ctx, node.Handler, current, inFormat, outFormat)
		if err != nil {
			return nil, rerrors.PathStep("handler_step_failed", err.Error()).
				WithResource(node.Handler.Name()).WithCause(err).Build()
		}
		if len(out) == 0 {
			return nil, rerrors.PathStep("empty_output", "handler produced no output files").
				WithResource(node.Handler.Name()).Build()
		}
		for _, f := range out {
			if len(f.Bytes) == 0 {
				return nil, rerrors.PathStep("empty_output", "handler produced an empty output file").
					WithResource(node.Handler.Name()).Build()
			}
		}
		cache.put(key, out)
		current = out
	}
	return current, nil
}

// resolveInputFormat locates the descriptor h itself declares for mime as a
// source format. DoConvert's contract requires both formats it is given to
// be ones the handler previously declared, so the prior hop's own
// descriptor (which belongs to a different handler) can never be passed
// through unchanged.
func resolveInputFormat(h handler.Handler, mime string) (format.Descriptor, bool) {
	for _, fd := range h.SupportedFormats() {
		if fd.MIME == mime && fd.From {
			return fd, true
		}
	}
	return format.Descriptor{}, false
}

func (e *Executor) runStep(ctx context.Context, h handler.Handler, files []handler.File, in, out format.Descriptor) ([]handler.File, error) {
	breaker := e.breakerFor(h.Name())
	result, err := breaker.Execute(func() (interface{}, error) {
		return h.DoConvert(ctx, files, in, out)
	})
	if err != nil {
		return nil, err
	}
	return result.([]handler.File), nil
}

// breakerMinRequests is the sample size ReadyToTrip requires before it will
// trip on failure ratio alone; below it a handler that has only ever been
// tried once or twice can't be judged unreliable.
const breakerMinRequests = 5

// breakerFailureThreshold trips the breaker once at least breakerMinRequests
// requests have been seen and this fraction of them failed.
const breakerFailureThreshold = 0.6

func (e *Executor) breakerFor(name string) *gobreaker.CircuitBreaker {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.breakers[name]; ok {
		return b
	}
	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "handler:" + name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= breakerFailureThreshold
		},
		OnStateChange: func(breakerName string, from, to gobreaker.State) {
			e.logger.Warn("handler circuit breaker state change",
				zap.String("handler", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if to == gobreaker.StateOpen && e.onBreakerTrip != nil {
				e.onBreakerTrip(name)
			}
		},
	})
	e.breakers[name] = b
	return b
}
