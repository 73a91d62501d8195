package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gastos/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeJSON renders v with the given status. Encoding failures are logged;
// by then the status line is already on the wire.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response", "error", err, "url", r.URL.Path)
	}
}

// writeError maps the error taxonomy onto HTTP statuses: validation 422,
// conflict 409, bad credentials 401, stale selection 404, everything else
// (including StoreError) 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *core.ValidationError
		conflict   *core.ConflictError
		notFound   *core.NotFoundError
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: validation.Error(), Kind: "validation"})
	case errors.As(err, &conflict):
		writeJSON(w, r, http.StatusConflict, errorResponse{Error: conflict.Error(), Kind: "conflict"})
	case errors.Is(err, core.ErrInvalidCredentials):
		writeJSON(w, r, http.StatusUnauthorized, errorResponse{Error: core.ErrInvalidCredentials.Error(), Kind: "auth"})
	case errors.As(err, &notFound):
		writeJSON(w, r, http.StatusNotFound, errorResponse{Error: notFound.Error(), Kind: "not_found"})
	default:
		slog.ErrorContext(r.Context(), "Unhandled store error", "error", err, "url", r.URL.Path)
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: "store"})
	}
}

// decodeJSON reads the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &core.ValidationError{Field: "body", Reason: "not valid JSON: " + err.Error()}
	}
	return nil
}
