package handler

import (
	"encoding/json"
	"net/http"

	"styledecor/internal/identity"
	"styledecor/pkg/validator"

	"github.com/gorilla/mux"
)

type UsersHandler struct {
	service   *identity.Service
	validator *validator.Validator
	logger    Logger
}

func NewUsersHandler(service *identity.Service, val *validator.Validator, log Logger) *UsersHandler {
	return &UsersHandler{service: service, validator: val, logger: log}
}

// Register creates an identity with the default user role. Registering an
// existing email is a no-op.
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req identity.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.ValidateStructured(&req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	user, created, err := h.service.Register(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	if !created {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message": "User already exists",
			"user":    user,
		})
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// GetRole returns the role for an email, defaulting to "user".
func (h *UsersHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	role, err := h.service.RoleOf(r.Context(), email)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"role": string(role)})
}

// List returns all identities. Admin only; enforced by the route table.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}
