// internal/book/handler.go
package book

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"libraryapi/internal/web"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the book endpoints on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type bookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

type bookResponse struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	ISBN   string    `json:"isbn"`
}

func toResponse(b *Book) bookResponse {
	return bookResponse{ID: b.ID, Title: b.Title, Author: b.Author, ISBN: b.ISBN}
}

// validate reports one message per missing field, all at once.
func (req bookRequest) validate() []string {
	var messages []string
	if req.Title == "" {
		messages = append(messages, "title must not be empty")
	}
	if req.Author == "" {
		messages = append(messages, "author must not be empty")
	}
	if req.ISBN == "" {
		messages = append(messages, "isbn must not be empty")
	}
	return messages
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Errors(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if messages := req.validate(); len(messages) > 0 {
		web.Errors(w, http.StatusBadRequest, messages...)
		return
	}

	created, err := h.service.Create(r.Context(), &Book{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
	})
	if err != nil {
		web.BusinessErrorOrInternal(w, err)
		return
	}

	web.JSON(w, http.StatusCreated, toResponse(created))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.Errors(w, http.StatusBadRequest, "invalid book id")
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		web.Errors(w, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		web.BusinessErrorOrInternal(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.Errors(w, http.StatusBadRequest, "invalid book id")
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Errors(w, http.StatusBadRequest, "malformed request body")
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		web.Errors(w, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		web.BusinessErrorOrInternal(w, err)
		return
	}

	// The isbn stays as stored; only title and author are writable.
	b.Title = req.Title
	b.Author = req.Author
	updated, err := h.service.Update(r.Context(), b)
	if err != nil {
		web.BusinessErrorOrInternal(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.Errors(w, http.StatusBadRequest, "invalid book id")
		return
	}

	if _, err := h.service.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			web.Errors(w, http.StatusNotFound, "book not found")
			return
		}
		web.BusinessErrorOrInternal(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		web.BusinessErrorOrInternal(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
