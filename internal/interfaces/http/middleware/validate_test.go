package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"convroute/pkg/api"
)

func TestDecodeAndValidateRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/convert", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	var dst api.ConvertRequest
	ok := DecodeAndValidate(w, req, &dst)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecodeAndValidateRejectsMissingRequiredFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/convert", strings.NewReader(`{"fromMime":"image/png"}`))
	w := httptest.NewRecorder()

	var dst api.ConvertRequest
	ok := DecodeAndValidate(w, req, &dst)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecodeAndValidateAcceptsValidBody(t *testing.T) {
	body := `{"files":[{"name":"a.png","content":"aGVsbG8="}],"fromMime":"image/png","toMime":"image/webp"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/convert", strings.NewReader(body))
	w := httptest.NewRecorder()

	var dst api.ConvertRequest
	ok := DecodeAndValidate(w, req, &dst)

	assert.True(t, ok)
	assert.Equal(t, "image/png", dst.FromMIME)
	assert.Equal(t, "image/webp", dst.ToMIME)
	assert.Len(t, dst.Files, 1)
}
