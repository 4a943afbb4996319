package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenancy/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-jwt-tests-32char",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "tenancy-backend-test",
	})
}

func TestRole_Classification(t *testing.T) {
	tests := []struct {
		role          Role
		valid         bool
		operatorClass bool
	}{
		{RoleOperator, true, true},
		{RoleAdmin, true, true},
		{RoleAgent, true, true},
		{RoleTenant, true, false},
		{Role("landlord"), false, false},
		{Role(""), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.role.IsValid())
			assert.Equal(t, tt.operatorClass, tt.role.IsOperatorClass())
		})
	}
}

func TestJWTService_GenerateAccessToken(t *testing.T) {
	service := newTestJWTService()
	userID := uuid.New()

	t.Run("generates valid token", func(t *testing.T) {
		token, expiresAt, err := service.GenerateAccessToken(userID, RoleOperator)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, _, err := service.GenerateAccessToken(userID, Role("landlord"))
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestJWTService_ValidateAccessToken(t *testing.T) {
	service := newTestJWTService()
	userID := uuid.New()

	t.Run("round trips claims", func(t *testing.T) {
		token, _, err := service.GenerateAccessToken(userID, RoleTenant)
		require.NoError(t, err)

		claims, err := service.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, string(RoleTenant), claims.Role)

		parsed, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		_, err := service.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "another-secret-key-for-jwt-tests-32c",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "tenancy-backend-test",
		})
		token, _, err := other.GenerateAccessToken(userID, RoleOperator)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-for-jwt-tests-32char",
			AccessTokenExpiration: -time.Minute,
			Issuer:                "tenancy-backend-test",
		})
		token, _, err := expired.GenerateAccessToken(userID, RoleOperator)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
