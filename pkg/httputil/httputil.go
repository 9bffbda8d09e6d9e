// Package httputil centralizes JSON response writing so every handler emits
// the same envelopes.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "pathcrm/pkg/domain-errors"
)

// ListResponse is the envelope for paginated collection endpoints.
type ListResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Count   int  `json:"count"`
	Total   int  `json:"total"`
}

// MessageResponse is the envelope for accepted writes.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FieldError names one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// WriteValidationErrors rejects a request with the structured 400 envelope.
func WriteValidationErrors(w http.ResponseWriter, errs []FieldError) {
	WriteJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"message": "Validation failed.",
		"errors":  errs,
	})
}

// WriteJSON marshals v with the given status. Encoding failures are
// unrecoverable at this point (headers already sent) and are ignored.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a coded domain error into a JSON error response.
// Internal errors omit the description so infrastructure detail never leaks
// to API clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]any{
		"success": false,
		"error":   string(code),
	}
	var de *dErrors.Error
	if code != dErrors.CodeInternal && errors.As(err, &de) && de.Description != "" {
		body["message"] = de.Description
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}
