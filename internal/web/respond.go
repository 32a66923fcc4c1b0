// internal/web/respond.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorList is the uniform error payload for validation and business
// failures.
type ErrorList struct {
	Errors []string `json:"errors"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Errors writes the {"errors": [...]} payload with the given status code.
func Errors(w http.ResponseWriter, status int, messages ...string) {
	JSON(w, status, ErrorList{Errors: messages})
}

// BusinessErrorOrInternal writes a 400 error-list response when err is a
// BusinessError and a generic 500 otherwise.
func BusinessErrorOrInternal(w http.ResponseWriter, err error) {
	var be *BusinessError
	if errors.As(err, &be) {
		Errors(w, http.StatusBadRequest, be.Messages...)
		return
	}
	Errors(w, http.StatusInternalServerError, "internal server error")
}
