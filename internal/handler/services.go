package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"styledecor/internal/catalog"
	"styledecor/internal/middleware"
	"styledecor/internal/repository/postgres"
	"styledecor/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type ServicesHandler struct {
	service   *catalog.Service
	validator *validator.Validator
	logger    Logger
}

func NewServicesHandler(service *catalog.Service, val *validator.Validator, log Logger) *ServicesHandler {
	return &ServicesHandler{service: service, validator: val, logger: log}
}

// Search handles filtered catalog search: substring name match, category,
// price range, and limit.
func (h *ServicesHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := postgres.ServiceFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}

	// Price range only applies when both bounds parse, mirroring the
	// min-and-max contract of the search endpoint.
	if minStr, maxStr := q.Get("min"), q.Get("max"); minStr != "" && maxStr != "" {
		minCost, errMin := decimal.NewFromString(minStr)
		maxCost, errMax := decimal.NewFromString(maxStr)
		if errMin != nil || errMax != nil {
			respondError(w, http.StatusBadRequest, "Invalid price range")
			return
		}
		filter.MinCost = &minCost
		filter.MaxCost = &maxCost
	}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	services, err := h.service.Search(r.Context(), filter)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, services)
}

func (h *ServicesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	svc, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, svc)
}

func (h *ServicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req catalog.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.ValidateStructured(&req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	svc, err := h.service.Create(r.Context(), email, &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, svc)
}

func (h *ServicesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	var req catalog.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Update(r.Context(), id, &req); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Service updated"})
}

func (h *ServicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Service deleted"})
}
