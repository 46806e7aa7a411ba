package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/hireflow/internal/config"
	"github.com/hireflow/hireflow/internal/types"
)

const testSecret = "test-secret-for-jwt-validation"

func newTestJWTService() *JWTService {
	return NewJWTService(&config.JWTConfig{Secret: testSecret})
}

// signTestToken mimics what the identity provider issues.
func signTestToken(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func testClaims(role types.Role, expiresIn time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		UserID: uuid.New(),
		Email:  "recruiter@example.com",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
}

func TestValidateToken_Valid(t *testing.T) {
	svc := newTestJWTService()
	claims := testClaims(types.RoleRecruiter, time.Hour)
	tokenString := signTestToken(t, testSecret, claims)

	identity, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, identity.UserID)
	assert.Equal(t, "recruiter@example.com", identity.Email)
	assert.Equal(t, types.RoleRecruiter, identity.Role)
}

func TestValidateToken_Empty(t *testing.T) {
	_, err := newTestJWTService().ValidateToken("")
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tokenString := signTestToken(t, "some-other-secret", testClaims(types.RoleClient, time.Hour))

	_, err := newTestJWTService().ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	tokenString := signTestToken(t, testSecret, testClaims(types.RoleClient, -time.Hour))

	_, err := newTestJWTService().ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateToken_UnknownRole(t *testing.T) {
	tokenString := signTestToken(t, testSecret, testClaims(types.Role("superuser"), time.Hour))

	_, err := newTestJWTService().ValidateToken(tokenString)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestValidateToken_WrongSigningMethod(t *testing.T) {
	// Tokens signed with "none" must never validate.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, testClaims(types.RoleRecruiter, time.Hour))
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestJWTService().ValidateToken(tokenString)
	assert.Error(t, err)
}
