package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/steadyapp/steady/internal/repository"
	"github.com/steadyapp/steady/internal/service"
	"github.com/steadyapp/steady/internal/validation"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		err := json.NewEncoder(w).Encode(v)
		if err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondError maps domain errors to HTTP statuses: missing identity → 401,
// out-of-scope IDs → 404, bad input → 422, anything else is treated as a
// persistence failure and reported as 502 with the detail kept in the log.
func respondError(w http.ResponseWriter, err error) {
	var validationErr *validation.Error

	switch {
	case errors.Is(err, service.ErrAuthRequired):
		respondMessage(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidResetToken):
		respondMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, repository.ErrGoalNotFound),
		errors.Is(err, repository.ErrCompletionNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		respondMessage(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validationErr),
		errors.Is(err, service.ErrInvalidOrder),
		errors.Is(err, service.ErrInvalidEmail):
		respondMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrEmailAlreadyExists):
		respondMessage(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "error", err)
		respondMessage(w, http.StatusBadGateway, "storage temporarily unavailable")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
