package handlers

import (
	"io"
	"net/http"

	"convroute/internal/application/core"
	"convroute/pkg/api"
)

// CacheHandler serves GET and PUT /v1/cache: exporting and restoring the
// format registry's cache document without rerunning handler Init.
type CacheHandler struct {
	core *core.ConversionCore
}

func NewCacheHandler(c *core.ConversionCore) *CacheHandler {
	return &CacheHandler{core: c}
}

func (h *CacheHandler) Get(w http.ResponseWriter, r *http.Request) {
	data, err := h.core.Registry().SerializeCache()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{Error: err.Error(), Code: "serialize_failed"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (h *CacheHandler) Put(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Code: "read_failed"})
		return
	}
	if err := h.core.Registry().RestoreCache(body); err != nil {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Code: "malformed_cache"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
