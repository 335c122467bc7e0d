// Package core wires the registry, graph, and executor into the single
// entry point the interface layer calls.
package core

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"convroute/internal/application/executor"
	"convroute/internal/domain/graph"
	"convroute/internal/domain/handler"
	"convroute/internal/domain/registry"
)

// Config selects the graph's cost model behavior. Zero value is the lenient
// default.
type Config struct {
	StrictCategories bool
	CostTables       *graph.CostTables

	// OnBreakerTrip, if set, is called with the handler name whenever that
	// handler's circuit breaker opens. Callers wire this to a metrics
	// collector rather than this package depending on one directly.
	OnBreakerTrip func(handlerName string)
}

// ConversionCore bundles the registry, graph, and executor behind a single
// lock. Convert holds the read lock only while it takes the current graph;
// it drains its Search without the lock, so a Rebuild may run while an
// earlier Convert is still searching the graph it took.
type ConversionCore struct {
	logger *zap.Logger
	config Config

	mu       sync.RWMutex
	registry *registry.Registry
	graph    *graph.Graph
	executor *executor.Executor
}

// New builds a ConversionCore from a handler roster: it constructs the
// registry, initializes handlers, and builds the graph from the surviving
// ones.
func New(cfg Config, handlers []handler.Handler, logger *zap.Logger) (*ConversionCore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg, err := registry.New(handlers, logger)
	if err != nil {
		return nil, err
	}

	exec := executor.New(logger)
	if cfg.OnBreakerTrip != nil {
		exec.OnBreakerTrip(cfg.OnBreakerTrip)
	}

	c := &ConversionCore{
		logger:   logger,
		config:   cfg,
		registry: reg,
		executor: exec,
	}
	exec.OnHandlerReady(c.mergeHandlerFormats)
	if err := c.Rebuild(context.Background()); err != nil {
		return nil, err
	}
	return c, nil
}

// mergeHandlerFormats folds a lazily-initialized handler's now-populated
// SupportedFormats into the registry's lookup indexes under the exclusive
// lock, so a Convert call that had to initialize a handler mid-path leaves
// the process-global format cache complete for the next lookup.
func (c *ConversionCore) mergeHandlerFormats(h handler.Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry.MergeHandlerFormats(h)
}

// Rebuild reinitializes every handler and rebuilds the graph from whichever
// handlers survive. It takes the exclusive lock for its full duration, so a
// Convert call already past its RLock finishes on the old graph; a Convert
// call arriving during Rebuild waits.
func (c *ConversionCore) Rebuild(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.registry.Init(ctx); err != nil {
		return err
	}
	if c.config.CostTables == nil {
		c.config.CostTables = graph.DefaultCostTables()
	}
	c.graph = graph.Build(c.registry.Handlers(), c.config.CostTables, c.config.StrictCategories)
	return nil
}

// MutateCostTables applies fn to a copy of the live cost tables, installs
// the copy as the live tables, and rebuilds the graph so the change takes
// effect immediately. A graph already taken by an in-flight Convert keeps
// the tables it was built with. fn runs under the exclusive lock; it must
// not retain tables beyond the call.
func (c *ConversionCore) MutateCostTables(ctx context.Context, fn func(tables *graph.CostTables)) error {
	c.mu.Lock()
	tables := graph.DefaultCostTables()
	if c.config.CostTables != nil {
		tables = c.config.CostTables.Clone()
	}
	fn(tables)
	c.config.CostTables = tables
	c.mu.Unlock()
	return c.Rebuild(ctx)
}

// CostTables returns a deep copy of the live cost tables.
func (c *ConversionCore) CostTables() *graph.CostTables {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.config.CostTables == nil {
		return graph.DefaultCostTables()
	}
	return c.config.CostTables.Clone()
}

// Convert searches for a path from `from` to `to` and drives the handler
// protocol along it, falling back to alternate paths on failure.
//
// to is the caller's resolved target: its Handler, if set, both gates
// arrival (unless simpleMode is true, a path must arrive at to.Format.MIME
// via that exact handler to count as found) and substitutes to.Format onto
// a matching last hop, so the caller's requested format variant survives
// even when the graph's cost-optimal edge produced a different one under
// the same MIME. simpleMode true (or a nil to.Handler) relaxes arrival to
// MIME identity alone, per the routing graph's simple-mode rule.
func (c *ConversionCore) Convert(ctx context.Context, files []handler.File, from, to handler.Option, simpleMode bool) (*executor.Result, error) {
	c.mu.RLock()
	g := c.graph
	c.mu.RUnlock()

	search, err := graph.NewSearch(g, from.Format, to, simpleMode)
	if err != nil {
		return nil, err
	}
	return c.executor.TryConvert(ctx, search, files, to)
}

// Registry exposes the underlying registry for lookup-only interface layers
// (format listing, extension/MIME resolution).
func (c *ConversionCore) Registry() *registry.Registry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry
}

// GraphData returns a deep-copy snapshot of the current graph.
func (c *ConversionCore) GraphData() graph.Data {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.graph.GetData()
}
