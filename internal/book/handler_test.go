// internal/book/handler_test.go
package book

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/web"
)

func newTestRouter() (http.Handler, Service) {
	svc := NewService(NewMemoryStore(), zerolog.Nop())
	r := chi.NewRouter()
	r.Route("/api/books", NewHandler(svc).Routes)
	return r, svc
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleCreateBook(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(t, router, http.MethodPost, "/api/books", map[string]string{
		"title":  "API TDD BDD",
		"author": "Pedro Davi",
		"isbn":   "12345",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp bookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, "API TDD BDD", resp.Title)
	assert.Equal(t, "Pedro Davi", resp.Author)
	assert.Equal(t, "12345", resp.ISBN)
}

func TestHandleCreateBookValidation(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(t, router, http.MethodPost, "/api/books", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp web.ErrorList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Errors, 3)
}

func TestHandleCreateBookDuplicateISBN(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(t, router, http.MethodPost, "/api/books", map[string]string{
		"title": "First", "author": "A", "isbn": "001",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/books", map[string]string{
		"title": "Second", "author": "B", "isbn": "001",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp web.ErrorList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Isbn already registered", resp.Errors[0])
}

func TestHandleGetBookNotFound(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(t, router, http.MethodGet, "/api/books/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleUpdateBookKeepsISBN(t *testing.T) {
	router, svc := newTestRouter()

	created, err := svc.Create(context.Background(), &Book{Title: "Old", Author: "Old", ISBN: "002"})
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodPut, "/api/books/"+created.ID.String(), map[string]string{
		"title": "New", "author": "New Author", "isbn": "ignored",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "New", resp.Title)
	assert.Equal(t, "New Author", resp.Author)
	assert.Equal(t, "002", resp.ISBN)
}

func TestHandleDeleteBook(t *testing.T) {
	router, svc := newTestRouter()

	created, err := svc.Create(context.Background(), &Book{Title: "T", Author: "A", ISBN: "003"})
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodDelete, "/api/books/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/books/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
