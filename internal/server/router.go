// Package server assembles the HTTP surface from a declarative route table.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"styledecor/internal/domain"
	"styledecor/internal/middleware"
	"styledecor/pkg/logger"

	"github.com/gorilla/mux"
)

// RoleSource resolves the role attached to a verified identity.
type RoleSource interface {
	RoleOf(ctx context.Context, email string) (domain.Role, error)
}

// Route binds one endpoint to its authorization requirement. A non-empty
// Role implies Auth; Auth alone means any verified identity may call it.
// This table is the whole authorization policy: handlers never re-check
// roles themselves.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
	Auth    bool
	Role    domain.Role
}

// Gate evaluates the route table's authorization requirements.
type Gate struct {
	auth   *middleware.AuthMiddleware
	roles  RoleSource
	logger logger.Logger
}

func NewGate(auth *middleware.AuthMiddleware, roles RoleSource, log logger.Logger) *Gate {
	return &Gate{auth: auth, roles: roles, logger: log}
}

// Mount registers every route on the router, wrapping each with the checks
// its table entry declares.
func (g *Gate) Mount(r *mux.Router, routes []Route) {
	for _, route := range routes {
		handler := http.Handler(route.Handler)
		if route.Role != "" {
			handler = g.requireRole(route.Role, handler)
		}
		if route.Auth || route.Role != "" {
			handler = g.auth.Authenticate(handler)
		}
		r.Handle(route.Path, handler).Methods(route.Method)
	}
}

func (g *Gate) requireRole(required domain.Role, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := middleware.EmailFromContext(r.Context())
		if !ok {
			forbid(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		role, err := g.roles.RoleOf(r.Context(), email)
		if err != nil {
			g.logger.Error("role lookup failed", logger.Fields{"email": email, "error": err.Error()})
			forbid(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if role != required {
			forbid(w, http.StatusForbidden, "Forbidden")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func forbid(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
