package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convroute/pkg/api"
)

func TestGraphHandlerReturnsVerticesAndEdges(t *testing.T) {
	c := newTestCore(t)
	h := NewGraphHandler(c)

	req := httptest.NewRequest(http.MethodGet, "/v1/graph", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp api.GraphResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Vertices)
	assert.NotEmpty(t, resp.Edges)
}

func TestCategoryCostHandlerMutatesAndRebuilds(t *testing.T) {
	c := newTestCore(t)
	h := NewCategoryCostHandler(c)

	body, err := json.Marshal(api.CostTableMutationRequest{From: "image", To: "image", Cost: 0.9})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/graph/cost-table/category", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, c.CostTables().HasCategoryChangeCost("image", "image", ""))
}

func TestAdaptiveCostHandlerMutatesAndRebuilds(t *testing.T) {
	c := newTestCore(t)
	h := NewAdaptiveCostHandler(c)

	body, err := json.Marshal(api.CostTableMutationRequest{Categories: []string{"image", "image", "image"}, Cost: 1.5})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/graph/cost-table/adaptive", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, c.CostTables().HasCategoryAdaptiveCost([]string{"image", "image", "image"}))
}
