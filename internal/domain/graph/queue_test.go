package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"convroute/internal/domain/handler"
)

func TestPriorityQueueOrdersByCost(t *testing.T) {
	pq := newPriorityQueue()
	pq.Add(&frontierNode{vertexIndex: 1, cost: 3.0, path: handler.Path{}})
	pq.Add(&frontierNode{vertexIndex: 2, cost: 1.0, path: handler.Path{}})
	pq.Add(&frontierNode{vertexIndex: 3, cost: 2.0, path: handler.Path{}})

	first, ok := pq.Poll()
	assert.True(t, ok)
	assert.Equal(t, 1.0, first.cost)

	second, ok := pq.Poll()
	assert.True(t, ok)
	assert.Equal(t, 2.0, second.cost)

	third, ok := pq.Poll()
	assert.True(t, ok)
	assert.Equal(t, 3.0, third.cost)

	_, ok = pq.Poll()
	assert.False(t, ok)
}

func TestPriorityQueueBreaksTiesByInsertionOrder(t *testing.T) {
	pq := newPriorityQueue()
	pq.Add(&frontierNode{vertexIndex: 1, cost: 1.0, path: handler.Path{}})
	pq.Add(&frontierNode{vertexIndex: 2, cost: 1.0, path: handler.Path{}})
	pq.Add(&frontierNode{vertexIndex: 3, cost: 1.0, path: handler.Path{}})

	first, _ := pq.Poll()
	second, _ := pq.Poll()
	third, _ := pq.Poll()

	assert.Equal(t, 1, first.vertexIndex)
	assert.Equal(t, 2, second.vertexIndex)
	assert.Equal(t, 3, third.vertexIndex)
}
