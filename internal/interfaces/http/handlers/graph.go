package handlers

import (
	"net/http"

	"convroute/internal/application/core"
	"convroute/internal/domain/graph"
	"convroute/internal/interfaces/http/dto"
	httpmw "convroute/internal/interfaces/http/middleware"
	"convroute/pkg/api"
)

// GraphHandler serves GET /v1/graph.
type GraphHandler struct {
	core *core.ConversionCore
}

func NewGraphHandler(c *core.ConversionCore) *GraphHandler {
	return &GraphHandler{core: c}
}

func (h *GraphHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.GraphToResponse(h.core.GraphData()))
}

// CategoryCostHandler serves POST /v1/graph/cost-table/category.
type CategoryCostHandler struct {
	core *core.ConversionCore
}

func NewCategoryCostHandler(c *core.ConversionCore) *CategoryCostHandler {
	return &CategoryCostHandler{core: c}
}

func (h *CategoryCostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req api.CostTableMutationRequest
	if !httpmw.DecodeAndValidate(w, r, &req) {
		return
	}
	err := h.core.MutateCostTables(r.Context(), func(t *graph.CostTables) {
		t.AddCategoryChangeCost(req.From, req.To, req.Handler, req.Cost)
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{Error: err.Error(), Code: "rebuild_failed"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdaptiveCostHandler serves POST /v1/graph/cost-table/adaptive.
type AdaptiveCostHandler struct {
	core *core.ConversionCore
}

func NewAdaptiveCostHandler(c *core.ConversionCore) *AdaptiveCostHandler {
	return &AdaptiveCostHandler{core: c}
}

func (h *AdaptiveCostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req api.CostTableMutationRequest
	if !httpmw.DecodeAndValidate(w, r, &req) {
		return
	}
	err := h.core.MutateCostTables(r.Context(), func(t *graph.CostTables) {
		t.AddCategoryAdaptiveCost(req.Categories, req.Cost)
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{Error: err.Error(), Code: "rebuild_failed"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
