package handler

import (
	"encoding/json"
	"net/http"

	"styledecor/internal/middleware"
	"styledecor/internal/payment"
	"styledecor/pkg/validator"
)

type PaymentsHandler struct {
	service   *payment.Service
	validator *validator.Validator
	logger    Logger
}

func NewPaymentsHandler(service *payment.Service, val *validator.Validator, log Logger) *PaymentsHandler {
	return &PaymentsHandler{service: service, validator: val, logger: log}
}

// CreateIntent opens a hosted checkout session for an existing booking and
// returns the redirect URL. The session is priced from the stored booking.
func (h *PaymentsHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req payment.CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.ValidateStructured(&req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	url, err := h.service.CreateIntent(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Reconcile confirms a checkout session's outcome and applies it exactly
// once. The session id is the capability; repeat invocations are safe.
func (h *PaymentsHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	result, err := h.service.Reconcile(r.Context(), sessionID)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// List returns the caller's payment records, newest first. An email filter
// that is not the caller's own identity is Forbidden.
func (h *PaymentsHandler) List(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	payments, err := h.service.ListOwn(r.Context(), email, r.URL.Query().Get("email"))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}
