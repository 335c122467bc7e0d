// Package handlers implements the HTTP endpoints over a ConversionCore:
// converting files, listing and resolving formats, inspecting the graph,
// mutating its cost tables, and exporting/restoring the format cache.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"convroute/internal/application/core"
	"convroute/internal/domain/event"
	"convroute/internal/domain/handler"
	"convroute/internal/infrastructure/events"
	"convroute/internal/infrastructure/observability"
	"convroute/internal/interfaces/http/dto"
	httpmw "convroute/internal/interfaces/http/middleware"
	"convroute/pkg/api"
	"convroute/pkg/auth"
)

// ConvertHandler serves POST /v1/convert.
type ConvertHandler struct {
	core      *core.ConversionCore
	converter observability.Converter
	publisher events.Publisher
	logger    *zap.Logger
}

// NewConvertHandler returns a ConvertHandler. logger may be nil; publisher
// may be nil, in which case routing events are dropped; converter may be
// nil, in which case c itself (untraced) serves Convert calls.
func NewConvertHandler(c *core.ConversionCore, converter observability.Converter, publisher events.Publisher, logger *zap.Logger) *ConvertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NoOpPublisher{}
	}
	if converter == nil {
		converter = c
	}
	return &ConvertHandler{core: c, converter: converter, publisher: publisher, logger: logger}
}

func (h *ConvertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req api.ConvertRequest
	if !httpmw.DecodeAndValidate(w, r, &req) {
		return
	}

	files := dto.FilesFromRequest(req.Files)

	var preferred handler.Handler
	if req.PreferredHandler != "" {
		if hdl, ok := h.core.Registry().HandlerByName(req.PreferredHandler); ok {
			preferred = hdl
		}
	}

	from := core.ResolveSource(h.core.Registry(), req.FromMIME)
	to, simpleMode := core.ResolveTarget(h.core.Registry(), req.ToMIME, preferred)

	userID := userIDFromContext(r.Context())

	result, err := h.converter.Convert(r.Context(), files, from, to, simpleMode)
	if err != nil {
		observability.RecordRoutingOutcome(r.Context(), req.FromMIME, req.ToMIME, 0, simpleMode)
		h.logger.Info("conversion failed",
			zap.String("request_id", httpmw.GetRequestID(r.Context())),
			zap.String("from", req.FromMIME),
			zap.String("to", req.ToMIME),
			zap.Error(err),
		)
		h.publish(r.Context(), event.RoutingEvent{
			ID:       ulid.Make().String(),
			UserID:   userID,
			Type:     event.TypeRoutingFailed,
			FromMIME: req.FromMIME,
			ToMIME:   req.ToMIME,
			Reason:   err.Error(),
		})
		writeJSON(w, http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error(), Code: "conversion_failed"})
		return
	}

	observability.RecordRoutingOutcome(r.Context(), req.FromMIME, req.ToMIME, len(result.Path), simpleMode)

	h.publish(r.Context(), event.RoutingEvent{
		ID:       ulid.Make().String(),
		UserID:   userID,
		Type:     event.TypeRoutingSucceeded,
		FromMIME: req.FromMIME,
		ToMIME:   req.ToMIME,
		Path:     result.Path,
	})

	writeJSON(w, http.StatusOK, api.ConvertResponse{
		Files: dto.FilesToResponse(result.Files),
		Path:  dto.PathToResponse(result.Path),
	})
}

func (h *ConvertHandler) publish(ctx context.Context, evt event.RoutingEvent) {
	if err := h.publisher.Publish(ctx, []event.RoutingEvent{evt}); err != nil {
		h.logger.Warn("failed to publish routing event", zap.String("event_id", evt.ID), zap.Error(err))
	}
}

func userIDFromContext(ctx context.Context) string {
	user, err := auth.GetUserFromContext(ctx)
	if err != nil || user == nil {
		return ""
	}
	return user.UserID
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
