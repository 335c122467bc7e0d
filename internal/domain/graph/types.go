// Package graph implements the weighted format graph: vertices keyed by
// normalized MIME, handler-mediated edges, the cost model, and the lazy
// Dijkstra-style path search.
package graph

import (
	"convroute/internal/domain/format"
	"convroute/internal/domain/handler"
)

// Vertex is identified by normalized MIME and holds the indices of its
// outgoing edges into the graph's append-only edge list.
type Vertex struct {
	MIME    string
	OutEdge []int
}

// Edge is a handler-mediated direct conversion between two MIME-distinct
// vertices. Self-loops are forbidden by construction; parallel edges are
// permitted (different handlers, or the same handler with lossless/lossy
// variants of the same target MIME).
type Edge struct {
	From        format.Descriptor
	To          format.Descriptor
	HandlerName string
	Cost        float64
}

// CategoryChangeEntry is one row of the category-change cost table.
type CategoryChangeEntry struct {
	From    string
	To      string
	Handler string // optional; "" means "applies to any handler"
	Cost    float64
}

// AdaptiveEntry is one row of the category-adaptive cost table, keyed by a
// full category sequence.
type AdaptiveEntry struct {
	Categories []string
	Cost       float64
}

func sameSequence(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// EventType names one of the three informational path-search events.
type EventType string

const (
	EventSearching EventType = "searching"
	EventFound     EventType = "found"
	EventSkipped   EventType = "skipped"
)

// Listener is invoked synchronously at each event point with the path as it
// stood at that moment. Listeners must not mutate the graph.
type Listener func(event EventType, path handler.Path)
