// internal/web/respond_test.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsPayloadShape(t *testing.T) {
	rec := httptest.NewRecorder()
	Errors(rec, http.StatusBadRequest, "first", "second")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"first", "second"}, resp.Errors)
}

func TestBusinessErrorMapsTo400(t *testing.T) {
	rec := httptest.NewRecorder()
	BusinessErrorOrInternal(rec, NewBusinessError("Book already loaned"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Book already loaned"}, resp.Errors)
}

func TestUnknownErrorMapsTo500(t *testing.T) {
	rec := httptest.NewRecorder()
	BusinessErrorOrInternal(rec, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRateLimitRejectsWhenExhausted(t *testing.T) {
	handler := RateLimit(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
