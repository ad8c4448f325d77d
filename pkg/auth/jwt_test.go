package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcastle/fieldops/pkg/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    "u1",
		Name:  "Sam Engineer",
		Email: "sam@example.com",
		Role:  "engineer",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	service, err := NewJWTService()
	require.NoError(t, err)

	token, err := service.GenerateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "sam@example.com", claims.Email)
	assert.Equal(t, "engineer", claims.Role)
	assert.Equal(t, "fieldops-api", claims.Issuer)
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := NewJWTService()
	assert.ErrorIs(t, err, ErrMissingJWTKey)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "first-secret")
	issuer, err := NewJWTService()
	require.NoError(t, err)

	token, err := issuer.GenerateToken(testUser())
	require.NoError(t, err)

	t.Setenv("JWT_SECRET_KEY", "other-secret")
	verifier, err := NewJWTService()
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	service, err := NewJWTService()
	require.NoError(t, err)

	_, err = service.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
