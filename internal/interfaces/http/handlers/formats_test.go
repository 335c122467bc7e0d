package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convroute/pkg/api"
)

func TestFormatsHandlerListsRegisteredFormats(t *testing.T) {
	c := newTestCore(t)
	h := NewFormatsHandler(c)

	req := httptest.NewRequest(http.MethodGet, "/v1/formats", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []api.FormatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp)
}

func TestLookupHandlerByExtension(t *testing.T) {
	c := newTestCore(t)
	h := NewLookupHandler(c)

	req := httptest.NewRequest(http.MethodGet, "/v1/formats/lookup?extension=png", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []api.FormatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp)
	assert.Equal(t, "image/png", resp[0].MIME)
}

func TestLookupHandlerWithNoQueryReturnsEmpty(t *testing.T) {
	c := newTestCore(t)
	h := NewLookupHandler(c)

	req := httptest.NewRequest(http.MethodGet, "/v1/formats/lookup", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null\n", w.Body.String())
}
