package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"convroute/internal/application/core"
	"convroute/internal/domain/event"
	"convroute/internal/domain/handler"
	"convroute/internal/domain/handler/handlertest"
	"convroute/pkg/api"
)

type recordingPublisher struct {
	mu   sync.Mutex
	seen []event.RoutingEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, evts []event.RoutingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, evts...)
	return nil
}

func newTestCore(t *testing.T) *core.ConversionCore {
	t.Helper()
	c, err := core.New(core.Config{}, []handler.Handler{handlertest.CanvasToBlob()}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestConvertHandlerPublishesSuccessEvent(t *testing.T) {
	c := newTestCore(t)
	pub := &recordingPublisher{}
	h := NewConvertHandler(c, nil, pub, zap.NewNop())

	body, err := json.Marshal(api.ConvertRequest{
		Files:    []api.FileDTO{{Name: "in.png", Content: []byte("bytes")}},
		FromMIME: "image/png",
		ToMIME:   "image/jpeg",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/convert", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, pub.seen, 1)
	assert.Equal(t, event.TypeRoutingSucceeded, pub.seen[0].Type)
	assert.Equal(t, "image/png", pub.seen[0].FromMIME)
	assert.Equal(t, "image/jpeg", pub.seen[0].ToMIME)
}

func TestConvertHandlerPublishesFailureEvent(t *testing.T) {
	c := newTestCore(t)
	pub := &recordingPublisher{}
	h := NewConvertHandler(c, nil, pub, zap.NewNop())

	body, err := json.Marshal(api.ConvertRequest{
		Files:    []api.FileDTO{{Name: "in.png", Content: []byte("bytes")}},
		FromMIME: "image/png",
		ToMIME:   "application/x-unroutable",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/convert", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Len(t, pub.seen, 1)
	assert.Equal(t, event.TypeRoutingFailed, pub.seen[0].Type)
}

func TestConvertHandlerRejectsInvalidBody(t *testing.T) {
	c := newTestCore(t)
	h := NewConvertHandler(c, nil, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/v1/convert", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
