package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHandlerGetThenPutRoundTrips(t *testing.T) {
	c := newTestCore(t)
	h := NewCacheHandler(c)

	getReq := httptest.NewRequest(http.MethodGet, "/v1/cache", nil)
	getW := httptest.NewRecorder()
	h.Get(getW, getReq)
	require.Equal(t, http.StatusOK, getW.Code)
	require.NotEmpty(t, getW.Body.Bytes())

	putReq := httptest.NewRequest(http.MethodPut, "/v1/cache", bytes.NewReader(getW.Body.Bytes()))
	putW := httptest.NewRecorder()
	h.Put(putW, putReq)
	assert.Equal(t, http.StatusNoContent, putW.Code)
}

func TestCacheHandlerPutRejectsMalformedDocument(t *testing.T) {
	c := newTestCore(t)
	h := NewCacheHandler(c)

	req := httptest.NewRequest(http.MethodPut, "/v1/cache", bytes.NewReader([]byte(`{"cache":[{"handler":""}]}`)))
	w := httptest.NewRecorder()
	h.Put(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
