// Package respond holds the JSON helpers shared by the HTTP handlers.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, api.ErrorResponse{Message: message})
}

// Internal logs err and answers 500 without exposing it to the client.
func Internal(w http.ResponseWriter, r *http.Request, err error, msg string) {
	zerolog.Ctx(r.Context()).Error().
		Err(err).
		Msg(msg)
	Error(w, r, http.StatusInternalServerError, "internal server error")
}

// UUIDParam parses the named route parameter as a UUID.
func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}
