package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/hireflow/internal/types"
)

// fakeValidator accepts exactly one token string.
type fakeValidator struct {
	token    string
	identity *Identity
}

func (v *fakeValidator) ValidateToken(tokenString string) (*Identity, error) {
	if tokenString != v.token {
		return nil, fmt.Errorf("invalid token")
	}
	return v.identity, nil
}

func newTestValidator(role types.Role) *fakeValidator {
	return &fakeValidator{
		token: "good-token",
		identity: &Identity{
			UserID: uuid.New(),
			Email:  "user@example.com",
			Role:   role,
		},
	}
}

func TestAuth_ValidToken(t *testing.T) {
	validator := newTestValidator(types.RoleRecruiter)

	var got *Identity
	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := GetIdentity(r)
		require.NoError(t, err)
		got = identity
	}))

	req := httptest.NewRequest("GET", "/v1/recruiter/feedback", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "user@example.com", got.Email)
	assert.Equal(t, types.RoleRecruiter, got.Role)
}

func TestAuth_MissingHeader(t *testing.T) {
	handler := Auth(newTestValidator(types.RoleRecruiter))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	validator := newTestValidator(types.RoleRecruiter)

	for _, header := range []string{
		"good-token",
		"Basic good-token",
		"Bearer",
		"Bearer one two",
	} {
		t.Run(header, func(t *testing.T) {
			handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be reached")
			}))

			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuth_CaseInsensitiveBearer(t *testing.T) {
	handler := Auth(newTestValidator(types.RoleClient))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	handler := Auth(newTestValidator(types.RoleRecruiter))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     types.Role
		required []types.Role
		want     int
	}{
		{"matching role", types.RoleRecruiter, []types.Role{types.RoleRecruiter}, http.StatusOK},
		{"one of several", types.RoleClient, []types.Role{types.RoleRecruiter, types.RoleClient}, http.StatusOK},
		{"admin passes any check", types.RoleAdmin, []types.Role{types.RoleClient}, http.StatusOK},
		{"wrong role", types.RoleCandidate, []types.Role{types.RoleRecruiter}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(func(w http.ResponseWriter, r *http.Request) {}, tt.required...)

			req := httptest.NewRequest("GET", "/", nil)
			req = req.WithContext(WithIdentity(req.Context(), &Identity{
				UserID: uuid.New(),
				Role:   tt.role,
			}))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRole_NoIdentity(t *testing.T) {
	handler := RequireRole(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}, types.RoleRecruiter)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
