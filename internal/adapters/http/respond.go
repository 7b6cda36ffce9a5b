package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"studio/internal/adapters/storage"
	"studio/internal/application/orchestrators"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode_error", "error", err)
	}
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func badRequest(w http.ResponseWriter, msg string, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg, Fields: fields})
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

// writeError maps use-case errors: validation to 400, missing records to 404,
// everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case orchestrators.IsValidation(err):
		badRequest(w, err.Error(), nil)
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	default:
		internalError(w, err)
	}
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodeDTO decodes and validates a request body, writing the 400 itself.
// POST: returns false when a response has already been written
func decodeDTO(w http.ResponseWriter, r *http.Request, dto validatable) bool {
	if err := strictDecode(w, r, dto); err != nil {
		badRequest(w, "invalid request body", nil)
		return false
	}
	if fields, ok := dto.Ok(); !ok {
		badRequest(w, "invalid request", fields)
		return false
	}
	return true
}
