package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"grocer/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuthMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	RequireAuth(okHandler)(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	r.Header.Set("Authorization", "not-a-bearer-token")
	RequireAuth(okHandler)(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	r.Header.Set("Authorization", "Bearer garbage.token.here")
	RequireAuth(okHandler)(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.New()
	token, err := GenerateToken(userID, models.RoleCustomer)
	require.NoError(t, err)

	var gotID uuid.UUID
	var gotRole string
	handler := RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotID = UserID(r)
		gotRole = Role(r)
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, models.RoleCustomer, gotRole)
}

func TestRequireAuthRejectsTokenSignedWithOtherSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := GenerateToken(uuid.New(), models.RoleCustomer)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second-secret")
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	RequireAuth(okHandler)(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	customerToken, err := GenerateToken(uuid.New(), models.RoleCustomer)
	require.NoError(t, err)
	adminToken, err := GenerateToken(uuid.New(), models.RoleAdmin)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	r.Header.Set("Authorization", "Bearer "+customerToken)
	RequireAdmin(okHandler)(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	r.Header.Set("Authorization", "Bearer "+adminToken)
	RequireAdmin(okHandler)(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserIDWithoutAuth(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, uuid.Nil, UserID(r))
	assert.Equal(t, "", Role(r))
}
