// internal/loan/handler.go
package loan

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"libraryapi/internal/book"
	"libraryapi/internal/web"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Handler struct {
	service Service
	books   book.Service
}

// NewHandler creates the loan HTTP handler. The book service resolves the
// isbn given on loan creation.
func NewHandler(service Service, books book.Service) *Handler {
	return &Handler{service: service, books: books}
}

// Routes mounts the loan endpoints on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Patch("/{id}", h.handleReturn)
	r.Get("/", h.handleFind)
}

type createLoanRequest struct {
	ISBN     string `json:"isbn"`
	Customer string `json:"customer"`
	Email    string `json:"email"`
}

type returnLoanRequest struct {
	Returned *bool `json:"returned"`
}

type loanResponse struct {
	ID       uuid.UUID     `json:"id"`
	Customer string        `json:"customer"`
	Email    string        `json:"email"`
	LoanDate string        `json:"loan_date"`
	Returned *bool         `json:"returned"`
	Book     *bookResponse `json:"book,omitempty"`
}

type bookResponse struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	ISBN   string    `json:"isbn"`
}

type pageResponse struct {
	Content       []loanResponse `json:"content"`
	TotalElements int64          `json:"totalElements"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
}

func toResponse(l *Loan) loanResponse {
	resp := loanResponse{
		ID:       l.ID,
		Customer: l.Customer,
		Email:    l.Email,
		LoanDate: l.LoanDate.Format(time.DateOnly),
		Returned: l.Returned,
	}
	if l.Book != nil {
		resp.Book = &bookResponse{
			ID:     l.Book.ID,
			Title:  l.Book.Title,
			Author: l.Book.Author,
			ISBN:   l.Book.ISBN,
		}
	}
	return resp
}

func (req createLoanRequest) validate() []string {
	var messages []string
	if req.ISBN == "" {
		messages = append(messages, "isbn must not be empty")
	}
	if req.Customer == "" {
		messages = append(messages, "customer must not be empty")
	}
	if req.Email == "" {
		messages = append(messages, "email must not be empty")
	}
	return messages
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Errors(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if messages := req.validate(); len(messages) > 0 {
		web.Errors(w, http.StatusBadRequest, messages...)
		return
	}

	b, err := h.books.GetByISBN(r.Context(), req.ISBN)
	if errors.Is(err, book.ErrNotFound) {
		web.Errors(w, http.StatusBadRequest, "Book not found for passed Isbn")
		return
	}
	if err != nil {
		web.BusinessErrorOrInternal(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), b, req.Customer, req.Email)
	if err != nil {
		web.BusinessErrorOrInternal(w, err)
		return
	}

	web.JSON(w, http.StatusCreated, struct {
		ID uuid.UUID `json:"id"`
	}{ID: created.ID})
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.Errors(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	var req returnLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Errors(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Returned == nil {
		web.Errors(w, http.StatusBadRequest, "returned must not be empty")
		return
	}

	l, err := h.service.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		web.Errors(w, http.StatusNotFound, "loan not found")
		return
	}
	if err != nil {
		web.BusinessErrorOrInternal(w, err)
		return
	}

	l.Returned = req.Returned
	updated, err := h.service.Update(r.Context(), l)
	if err != nil {
		web.BusinessErrorOrInternal(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) handleFind(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := Filter{
		ISBN:     query.Get("isbn"),
		Customer: query.Get("customer"),
	}
	page := parseIntParam(query.Get("page"), 0)
	size := parseIntParam(query.Get("size"), defaultPageSize)
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	result, err := h.service.Find(r.Context(), filter, page, size)
	if err != nil {
		web.BusinessErrorOrInternal(w, err)
		return
	}

	content := make([]loanResponse, 0, len(result.Content))
	for i := range result.Content {
		content = append(content, toResponse(&result.Content[i]))
	}
	web.JSON(w, http.StatusOK, pageResponse{
		Content:       content,
		TotalElements: result.TotalElements,
		Page:          result.Page,
		Size:          result.Size,
	})
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
