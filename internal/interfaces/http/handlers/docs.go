package handlers

// This file carries swag annotations (the input to `swag init`) for the /v1
// routes. The OpenAPI document served at /api/swagger is
// pkg/api/swagger.yaml, which is kept separately from these annotations.

// Convert resolves a path across the format graph and runs each handler
// along it.
// @Summary Convert a file between formats
// @Description Resolves the cheapest path through the format graph from the
// request's source MIME type to its target and executes each handler step.
// @Tags convert
// @Accept json
// @Produce json
// @Param request body api.ConvertRequest true "Conversion request"
// @Success 200 {object} api.ConvertResponse "Converted files and winning path"
// @Failure 400 {object} api.ErrorResponse "Malformed request"
// @Failure 422 {object} api.ErrorResponse "No path found or a handler step failed"
// @Security BearerAuth
// @Router /v1/convert [post]

// Formats lists every registered format option.
// @Summary List registered formats
// @Tags formats
// @Produce json
// @Success 200 {array} api.FormatResponse "Registered format options"
// @Router /v1/formats [get]

// Lookup resolves a MIME type or extension to its matching format options.
// @Summary Resolve a MIME type or extension
// @Tags formats
// @Produce json
// @Param mime query string false "MIME type to resolve"
// @Param extension query string false "Extension to resolve"
// @Success 200 {array} api.FormatResponse "Matching format options"
// @Router /v1/formats/lookup [get]

// Graph returns the routing graph as vertices and weighted edges.
// @Summary Inspect the format routing graph
// @Tags graph
// @Produce json
// @Success 200 {object} api.GraphResponse "Graph vertices and edges"
// @Router /v1/graph [get]

// CategoryCost updates a category-change cost table entry and rebuilds the
// graph.
// @Summary Set a category-change cost table entry
// @Tags graph
// @Accept json
// @Param request body api.CostTableMutationRequest true "Cost table mutation"
// @Success 204 "Rebuilt"
// @Failure 400 {object} api.ErrorResponse "Malformed request"
// @Failure 500 {object} api.ErrorResponse "Graph rebuild failed"
// @Security BearerAuth
// @Router /v1/graph/cost-table/category [post]

// AdaptiveCost updates a category-adaptive cost table entry and rebuilds the
// graph.
// @Summary Set a category-adaptive cost table entry
// @Tags graph
// @Accept json
// @Param request body api.CostTableMutationRequest true "Cost table mutation"
// @Success 204 "Rebuilt"
// @Failure 400 {object} api.ErrorResponse "Malformed request"
// @Failure 500 {object} api.ErrorResponse "Graph rebuild failed"
// @Security BearerAuth
// @Router /v1/graph/cost-table/adaptive [post]

// Cache exports the handler/format registry cache as a JSON document.
// @Summary Export the format cache
// @Tags cache
// @Produce json
// @Success 200 {string} string "Cache document"
// @Router /v1/cache [get]

// CachePut restores the handler/format registry cache from a JSON document.
// @Summary Restore the format cache
// @Tags cache
// @Accept json
// @Param request body string true "Cache document to restore"
// @Success 204 "Restored"
// @Failure 400 {object} api.ErrorResponse "Malformed or invalid cache document"
// @Security BearerAuth
// @Router /v1/cache [put]
