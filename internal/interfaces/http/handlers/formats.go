package handlers

import (
	"net/http"

	"convroute/internal/application/core"
	"convroute/internal/domain/format"
	"convroute/internal/interfaces/http/dto"
	"convroute/pkg/api"
)

// FormatsHandler serves GET /v1/formats.
type FormatsHandler struct {
	core *core.ConversionCore
}

func NewFormatsHandler(c *core.ConversionCore) *FormatsHandler {
	return &FormatsHandler{core: c}
}

func (h *FormatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	opts := h.core.Registry().Options()
	resp := make([]api.FormatResponse, len(opts))
	for i, opt := range opts {
		resp[i] = dto.OptionToResponse(opt)
	}
	writeJSON(w, http.StatusOK, resp)
}

// LookupHandler serves GET /v1/formats/lookup?mime=...&extension=....
type LookupHandler struct {
	core *core.ConversionCore
}

func NewLookupHandler(c *core.ConversionCore) *LookupHandler {
	return &LookupHandler{core: c}
}

func (h *LookupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mime := query.Get("mime")
	extension := query.Get("extension")

	registry := h.core.Registry()
	var results []api.FormatResponse
	if mime != "" {
		for _, opt := range registry.ByMIME(format.Normalize(mime)) {
			results = append(results, dto.OptionToResponse(opt))
		}
	}
	if extension != "" {
		for _, opt := range registry.ByExtension(extension) {
			results = append(results, dto.OptionToResponse(opt))
		}
	}
	writeJSON(w, http.StatusOK, results)
}
