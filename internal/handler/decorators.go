package handler

import (
	"encoding/json"
	"net/http"

	"styledecor/internal/decorator"
	"styledecor/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DecoratorsHandler struct {
	service   *decorator.Service
	validator *validator.Validator
	logger    Logger
}

func NewDecoratorsHandler(service *decorator.Service, val *validator.Validator, log Logger) *DecoratorsHandler {
	return &DecoratorsHandler{service: service, validator: val, logger: log}
}

// Top returns the eight highest-rated approved decorators.
func (h *DecoratorsHandler) Top(w http.ResponseWriter, r *http.Request) {
	decorators, err := h.service.Top(r.Context())
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, decorators)
}

// Create registers an unapproved decorator profile. Admin only.
func (h *DecoratorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req decorator.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.ValidateStructured(&req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	d, err := h.service.Create(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, d)
}

// Approve approves a profile and grants the decorator role. Admin only.
func (h *DecoratorsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid decorator ID")
		return
	}

	d, err := h.service.Approve(r.Context(), id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}
