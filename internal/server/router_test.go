package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"styledecor/internal/domain"
	"styledecor/internal/middleware"
	"styledecor/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type staticRoles map[string]domain.Role

func (s staticRoles) RoleOf(_ context.Context, email string) (domain.Role, error) {
	if role, ok := s[email]; ok {
		return role, nil
	}
	return domain.RoleUser, nil
}

func signToken(t *testing.T, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func testRouter(roles staticRoles) *mux.Router {
	gate := NewGate(middleware.NewAuthMiddleware(testSecret), roles, logger.NewNop())
	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

	r := mux.NewRouter()
	gate.Mount(r, []Route{
		{Method: http.MethodGet, Path: "/public", Handler: ok},
		{Method: http.MethodGet, Path: "/private", Handler: ok, Auth: true},
		{Method: http.MethodGet, Path: "/admin", Handler: ok, Role: domain.RoleAdmin},
		{Method: http.MethodPatch, Path: "/decorator", Handler: ok, Role: domain.RoleDecorator},
	})
	return r
}

func do(r *mux.Router, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGate_PublicRouteNeedsNoToken(t *testing.T) {
	r := testRouter(staticRoles{})
	rec := do(r, http.MethodGet, "/public", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_AuthRouteRejectsMissingToken(t *testing.T) {
	r := testRouter(staticRoles{})
	rec := do(r, http.MethodGet, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGate_AuthRouteRejectsBadSignature(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "a@x.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	forged, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	r := testRouter(staticRoles{})
	rec := do(r, http.MethodGet, "/private", forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGate_AuthRouteAcceptsAnyVerifiedIdentity(t *testing.T) {
	r := testRouter(staticRoles{})
	rec := do(r, http.MethodGet, "/private", signToken(t, "a@x.com"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_RoleRouteForbidsWrongRole(t *testing.T) {
	r := testRouter(staticRoles{"a@x.com": domain.RoleUser})
	rec := do(r, http.MethodGet, "/admin", signToken(t, "a@x.com"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Forbidden"}`, rec.Body.String())
}

func TestGate_RoleRouteAllowsExactRole(t *testing.T) {
	r := testRouter(staticRoles{"admin@x.com": domain.RoleAdmin})
	rec := do(r, http.MethodGet, "/admin", signToken(t, "admin@x.com"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_AdminDoesNotBypassDecoratorRoute(t *testing.T) {
	r := testRouter(staticRoles{"admin@x.com": domain.RoleAdmin})
	rec := do(r, http.MethodPatch, "/decorator", signToken(t, "admin@x.com"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGate_RoleRouteRequiresToken(t *testing.T) {
	r := testRouter(staticRoles{})
	rec := do(r, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
