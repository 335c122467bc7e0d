package graph

import (
	"context"

	"convroute/internal/domain/format"
	"convroute/internal/domain/handler"
	rerrors "convroute/pkg/errors"
)

// anyInputRoute is a materialized output of a handler that opted into
// AnyInputHandler: it can be reached from any vertex in the graph, so it is
// not baked into a fixed edge list but consulted afresh at every expansion.
type anyInputRoute struct {
	handlerName string
	hIdx        int
	format      format.Descriptor
	formatPos   int
}

// Graph is the weighted format graph: vertices keyed by normalized MIME,
// handler-mediated edges built once from the handler roster, and the cost
// tables used to weight both edges (at build time) and adaptive multi-hop
// penalties (incrementally, during search).
type Graph struct {
	vertices []Vertex
	edges    []Edge
	index    map[string]int // MIME -> vertex index
	handlers map[string]handler.Handler
	anyInput []anyInputRoute
	tables   *CostTables
	strict   bool
}

// Build constructs a graph from the given handler roster. Handlers are
// expected to have already succeeded Init; SupportedFormats is read once and
// not observed again until the next Build. strictCategories selects the
// category-change cost model (see costModel.categoryChangeComponent).
func Build(handlers []handler.Handler, tables *CostTables, strictCategories bool) *Graph {
	if tables == nil {
		tables = DefaultCostTables()
	}
	g := &Graph{
		index:    make(map[string]int),
		handlers: make(map[string]handler.Handler, len(handlers)),
		tables:   tables,
		strict:   strictCategories,
	}
	cm := newCostModel(tables, strictCategories)

	for hIdx, h := range handlers {
		g.handlers[h.Name()] = h
		formats := h.SupportedFormats()

		for outPos, out := range formats {
			if !out.To {
				continue
			}
			g.ensureVertex(out.MIME)

			for _, in := range formats {
				if !in.From || in.MIME == out.MIME {
					continue
				}
				g.ensureVertex(in.MIME)
				cost := cm.edgeCost(in, out, h.Name(), hIdx, outPos)
				g.addEdge(Edge{From: in, To: out, HandlerName: h.Name(), Cost: cost})
			}

			if handler.SupportsAnyInput(h) {
				g.anyInput = append(g.anyInput, anyInputRoute{
					handlerName: h.Name(),
					hIdx:        hIdx,
					format:      out,
					formatPos:   outPos,
				})
			}
		}
	}
	return g
}

func (g *Graph) ensureVertex(mime string) int {
	if idx, ok := g.index[mime]; ok {
		return idx
	}
	idx := len(g.vertices)
	g.vertices = append(g.vertices, Vertex{MIME: mime})
	g.index[mime] = idx
	return idx
}

func (g *Graph) addEdge(e Edge) {
	idx := len(g.edges)
	g.edges = append(g.edges, e)
	from := g.index[e.From.MIME]
	g.vertices[from].OutEdge = append(g.vertices[from].OutEdge, idx)
}

// HasVertex reports whether mime is a known vertex.
func (g *Graph) HasVertex(mime string) bool {
	_, ok := g.index[mime]
	return ok
}

// ConnectedFormats returns the MIME types reachable from mime by any number
// of hops, ignoring cost and the safety filter. It is a read-only
// diagnostic and does not affect path search, cost, or any documented
// invariant.
func (g *Graph) ConnectedFormats(mime string) []string {
	start, ok := g.index[mime]
	if !ok {
		return nil
	}
	seen := map[int]bool{start: true}
	queue := []int{start}
	var out []string
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, edgeIdx := range g.vertices[v].OutEdge {
			e := g.edges[edgeIdx]
			to := g.index[e.To.MIME]
			if seen[to] {
				continue
			}
			seen[to] = true
			out = append(out, e.To.MIME)
			queue = append(queue, to)
		}
	}
	return out
}

// Data is a deep-copy snapshot of graph state, safe for a caller to inspect
// or serialize without holding any lock on the live graph.
type Data struct {
	Vertices []Vertex
	Edges    []Edge
	Tables   *CostTables
}

// GetData returns a deep copy of the graph's vertices, edges, and cost
// tables.
func (g *Graph) GetData() Data {
	vertices := make([]Vertex, len(g.vertices))
	for i, v := range g.vertices {
		vertices[i] = Vertex{MIME: v.MIME, OutEdge: append([]int(nil), v.OutEdge...)}
	}
	return Data{
		Vertices: vertices,
		Edges:    append([]Edge(nil), g.edges...),
		Tables:   g.tables.Clone(),
	}
}

// Search is a stateful, resumable path search: successive calls to Next
// yield paths from an origin format to a target format in non-decreasing
// cost order, until the frontier is exhausted.
//
// The origin is matched by MIME only; a Search does not care which handler
// produced the origin format. The target is matched by MIME and, unless the
// search runs in simple mode, by the handler of the last hop (see NewSearch).
//
// visited is an append-only list of vertex indices, not a set: the same
// index can appear more than once, and indexBefore below does a linear
// scan of it on every pop and every edge expansion. This mirrors the
// reference search exactly rather than replacing it with a de-duplicated
// visited-set, so a vertex already recorded in a later frontier can still
// be re-explored along a genuinely different, earlier-discovered prefix —
// visitedBorder is the boundary between "already superseded" and "still
// open" for the frontier a given node was enqueued from.
type Search struct {
	g             *Graph
	target        string
	targetHandler string
	simpleMode    bool
	pq            *priorityQueue
	events        listenerSet

	visited []int
}

// indexBefore reports whether idx appears anywhere in visited[:border].
func indexBefore(visited []int, idx, border int) bool {
	if border > len(visited) {
		border = len(visited)
	}
	for i := 0; i < border; i++ {
		if visited[i] == idx {
			return true
		}
	}
	return false
}

// NewSearch starts a search from the vertex for from.MIME to the vertex for
// to.Format.MIME. It fails if either MIME is not a known vertex.
//
// to carries the caller's intended target: its Format.MIME picks the
// destination vertex, and its Handler (if any) is the identity a yielded
// path's last hop must match before Next reports it as found. When
// simpleMode is true, or to.Handler is nil, arrival at the destination
// vertex is sufficient regardless of which handler produced it.
func NewSearch(g *Graph, from format.Descriptor, to handler.Option, simpleMode bool, listeners ...Listener) (*Search, error) {
	fromIdx, ok := g.index[from.MIME]
	if !ok {
		return nil, rerrors.MissingVertex("missing_source_vertex", "no handler declares the source format").
			WithResource(from.MIME).Build()
	}
	if _, ok := g.index[to.Format.MIME]; !ok {
		return nil, rerrors.MissingVertex("missing_target_vertex", "no handler declares the target format").
			WithResource(to.Format.MIME).Build()
	}

	targetHandler := ""
	if to.Handler != nil {
		targetHandler = to.Handler.Name()
	}

	s := &Search{
		g:             g,
		target:        to.Format.MIME,
		targetHandler: targetHandler,
		simpleMode:    simpleMode,
		pq:            newPriorityQueue(),
	}
	for _, l := range listeners {
		s.events.register(l)
	}

	start := handler.Path{{Handler: nil, Format: from}}
	s.pq.Add(&frontierNode{vertexIndex: fromIdx, cost: 0, path: start, visitedBorder: 0})
	return s, nil
}

// Next returns the next cheapest path, or (nil, false) once no further path
// exists or ctx is done.
func (s *Search) Next(ctx context.Context) (handler.Path, bool) {
	for {
		select {
		case <-ctx.Done():
			return nil, false
		default:
		}

		node, ok := s.pq.Poll()
		if !ok {
			return nil, false
		}

		// Lazy deletion: this vertex was already recorded into visited by a
		// cheaper (earlier-popped) exploration that superseded this one's
		// frontier, so this branch is stale.
		if indexBefore(s.visited, node.vertexIndex, node.visitedBorder) {
			s.events.emit(EventSkipped, node.path)
			continue
		}

		if node.path[len(node.path)-1].Format.MIME == s.target {
			if pathViolatesSafety(node.path.Categories()) {
				s.events.emit(EventSkipped, node.path)
				continue
			}
			last := node.path[len(node.path)-1]
			lastHandlerName := ""
			if last.Handler != nil {
				lastHandlerName = last.Handler.Name()
			}
			if s.simpleMode || s.targetHandler == "" || lastHandlerName == s.targetHandler {
				s.events.emit(EventFound, node.path)
				return node.path, true
			}
			s.events.emit(EventSkipped, node.path)
			continue
		}

		s.visited = append(s.visited, node.vertexIndex)
		s.events.emit(EventSearching, node.path)
		s.expand(node)
	}
}

func (s *Search) expand(node *frontierNode) {
	currentFormat := node.path[len(node.path)-1].Format
	newBorder := len(s.visited)

	for _, edgeIdx := range s.g.vertices[node.vertexIndex].OutEdge {
		e := s.g.edges[edgeIdx]
		s.tryEdge(node, newBorder, e.HandlerName, e.To, e.Cost)
	}
	for _, r := range s.g.anyInput {
		if r.format.MIME == currentFormat.MIME {
			continue
		}
		cm := newCostModel(s.g.tables, s.g.strict)
		cost := cm.edgeCost(currentFormat, r.format, r.handlerName, r.hIdx, r.formatPos)
		s.tryEdge(node, newBorder, r.handlerName, r.format, cost)
	}
}

// tryEdge extends node's path by one hop into (handlerName, to). Per the
// search's step 4, an edge is skipped only if its destination vertex was
// already recorded into visited before the popped frame's own
// visitedBorder — not the fresh border computed for its children.
func (s *Search) tryEdge(node *frontierNode, newBorder int, handlerName string, to format.Descriptor, edgeCost float64) {
	toIdx, ok := s.g.index[to.MIME]
	if !ok {
		return
	}
	if indexBefore(s.visited, toIdx, node.visitedBorder) {
		return
	}

	childPath := append(node.path.Clone(), handler.PathNode{Handler: s.g.handlers[handlerName], Format: to})
	cost := node.cost + edgeCost + adaptiveCost(s.g.tables, childPath.Categories())
	s.pq.Add(&frontierNode{vertexIndex: toIdx, cost: cost, path: childPath, visitedBorder: newBorder})
}
