// Package handlers implements the JSON API. Each handler group wraps
// its services, decodes and validates the HTTP surface, and maps domain
// errors onto status codes.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/service"
)

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respondError maps a domain error kind onto a status code. Errors
// without a kind are infrastructure failures: they are logged and
// answered with a generic 500 so internals never leak.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch service.KindOf(err) {
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindBadRequest:
		status = http.StatusBadRequest
	case service.KindForbidden:
		status = http.StatusForbidden
	case service.KindUnauthorized:
		status = http.StatusUnauthorized
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeJSON reads a JSON request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return service.BadRequest("invalid request body: %v", err)
	}
	return nil
}

// pathUUID parses a UUID route parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, service.BadRequest("invalid %s", name)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter, falling back to
// def when absent or malformed. Range clamping is the services' job.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	var n int
	for _, c := range v {
		if c < '0' || c > '9' {
			return def
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// queryUUID parses an optional UUID query parameter. Returns nil when
// the parameter is absent and an error when it is present but invalid.
func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, service.BadRequest("invalid %s", name)
	}
	return &id, nil
}
