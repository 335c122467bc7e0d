package graph

import (
	"container/heap"

	"convroute/internal/domain/handler"
)

// frontierNode is one record on the search frontier: the vertex reached, the
// accumulated cost to reach it, the path taken, and the visited-list length
// at the moment this node was enqueued (its "visitedBorder").
type frontierNode struct {
	vertexIndex   int
	cost          float64
	path          handler.Path
	visitedBorder int

	seq   int // insertion order, used only to break exact cost ties
	index int // heap.Interface bookkeeping
}

// priorityQueue is a standard min-heap keyed by accumulated cost. Equal-cost
// items are delivered in insertion order: ties are broken by the sequence
// number assigned at Add time, matching container/heap's requirement for a
// strict weak ordering. The queue stores value records, not references into
// the graph; a record removed by Poll is simply dropped.
type priorityQueue struct {
	items  []*frontierNode
	nextSeq int
}

func newPriorityQueue() *priorityQueue {
	pq := &priorityQueue{}
	heap.Init(pq)
	return pq
}

// Add inserts item; O(log n), never fails.
func (pq *priorityQueue) Add(item *frontierNode) {
	item.seq = pq.nextSeq
	pq.nextSeq++
	heap.Push(pq, item)
}

// Poll extracts the minimum; returns (nil, false) on empty.
func (pq *priorityQueue) Poll() (*frontierNode, bool) {
	if pq.Len() == 0 {
		return nil, false
	}
	return heap.Pop(pq).(*frontierNode), true
}

// Peek returns the minimum without removing it.
func (pq *priorityQueue) Peek() (*frontierNode, bool) {
	if pq.Len() == 0 {
		return nil, false
	}
	return pq.items[0], true
}

func (pq *priorityQueue) Empty() bool { return pq.Len() == 0 }

// heap.Interface implementation.

func (pq *priorityQueue) Len() int { return len(pq.items) }

func (pq *priorityQueue) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	return a.seq < b.seq // deterministic tiebreak: insertion order
}

func (pq *priorityQueue) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.items[i].index = i
	pq.items[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := x.(*frontierNode)
	n.index = len(pq.items)
	pq.items = append(pq.items, n)
}

func (pq *priorityQueue) Pop() interface{} {
	old := pq.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	pq.items = old[:n-1]
	return item
}
