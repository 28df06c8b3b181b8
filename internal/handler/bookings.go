package handler

import (
	"encoding/json"
	"net/http"

	"styledecor/internal/booking"
	"styledecor/internal/domain"
	"styledecor/internal/middleware"
	"styledecor/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BookingsHandler struct {
	service   *booking.Service
	validator *validator.Validator
	logger    Logger
}

func NewBookingsHandler(service *booking.Service, val *validator.Validator, log Logger) *BookingsHandler {
	return &BookingsHandler{service: service, validator: val, logger: log}
}

// Create books a service for the authenticated caller. The owner is always
// the verified identity, never a body field.
func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req booking.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.ValidateStructured(&req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	b, err := h.service.Create(r.Context(), email, &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

// List returns the caller's bookings. An email filter that is not the
// caller's own identity is Forbidden.
func (h *BookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookings, err := h.service.ListOwn(r.Context(), email, r.URL.Query().Get("email"))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, bookings)
}

// UpdateStatus sets the booking lifecycle status. Decorator only; enforced
// by the route table.
func (h *BookingsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	var req struct {
		Status domain.BookingStatus `json:"status" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.TransitionStatus(r.Context(), id, req.Status); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Booking status updated"})
}
