// Package handler implements the HTTP endpoints.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "styledecor/pkg/errors"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// respondJSON responds with JSON.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError responds with an error message.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondValidationErrors responds with per-field validation errors.
func respondValidationErrors(w http.ResponseWriter, errs map[string]string) {
	respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
}

// respondDomainError maps domain sentinels to HTTP statuses without leaking
// internal detail; anything unmapped is a generic 500.
func respondDomainError(w http.ResponseWriter, log Logger, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrForbidden):
		respondError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, pkgerrors.ErrUserNotFound),
		errors.Is(err, pkgerrors.ErrServiceNotFound),
		errors.Is(err, pkgerrors.ErrBookingNotFound),
		errors.Is(err, pkgerrors.ErrDecoratorNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pkgerrors.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pkgerrors.ErrGatewayUnavailable):
		log.Error("payment gateway call failed", map[string]interface{}{"error": err.Error()})
		respondError(w, http.StatusBadGateway, "Payment gateway unavailable, please retry")
	default:
		log.Error("request failed", map[string]interface{}{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
