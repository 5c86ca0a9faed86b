package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/campusfind/campusfind/internal/repository"
	"github.com/campusfind/campusfind/internal/service"
)

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		err := json.NewEncoder(w).Encode(data)
		if err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// respondDomainError maps service and repository errors onto the API's
// error statuses. Unknown errors become a generic 500; repository or driver
// detail never reaches the client.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidItemType),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrNoProfileChanges),
		errors.Is(err, service.ErrInvalidResetToken),
		errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrItemNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrMediaUpload):
		respondError(w, http.StatusBadGateway, "media upload failed")
	default:
		slog.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "server error")
	}
}
