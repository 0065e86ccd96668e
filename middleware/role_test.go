package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ekurtal/havale/handlers"
	"github.com/ekurtal/havale/models"
)

func requestWithIdentity(identity *models.Identity) *http.Request {
	r := httptest.NewRequest("GET", "/api/employee/payments", nil)
	if identity != nil {
		ctx := context.WithValue(r.Context(), handlers.IdentityContextKey, identity)
		r = r.WithContext(ctx)
	}
	return r
}

func TestRequireRole_Allowed(t *testing.T) {
	called := false
	h := RequireRole(models.RoleEmployee, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithIdentity(&models.Identity{Name: "teller", Role: models.RoleEmployee}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, called)
}

func TestRequireRole_WrongRole(t *testing.T) {
	h := RequireRole(models.RoleEmployee, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for wrong role")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithIdentity(&models.Identity{Name: "alice", Role: models.RoleCustomer}))

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "insufficient permissions")
}

func TestRequireRole_MissingIdentity(t *testing.T) {
	// Zincir yanlış kurulmuşsa (auth middleware atlanmışsa) fail-closed:
	// 403 değil 401 döner, handler asla çalışmaz.
	h := RequireRole(models.RoleEmployee, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without identity")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithIdentity(nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
