package auth

import (
	"testing"
	"time"

	"github.com/beanport/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "beanport-backend",
	})
}

func TestJWTService_GenerateToken(t *testing.T) {
	t.Run("issues a bearer token with expiry", func(t *testing.T) {
		service := testJWTService()

		issued, err := service.GenerateToken(GenerateTokenInput{
			UserID: uuid.New(),
			Name:   "Export Desk",
			Role:   "trader",
		})

		require.NoError(t, err)
		require.NotNil(t, issued)
		assert.NotEmpty(t, issued.Token)
		assert.Equal(t, "Bearer", issued.TokenType)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), issued.ExpiresAt, 5*time.Second)
	})
}

func TestJWTService_ValidateToken(t *testing.T) {
	t.Run("round-trips claims", func(t *testing.T) {
		service := testJWTService()
		userID := uuid.New()

		issued, err := service.GenerateToken(GenerateTokenInput{
			UserID: userID,
			Name:   "Export Desk",
			Role:   "trader",
		})
		require.NoError(t, err)

		claims, err := service.ValidateToken(issued.Token)

		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "Export Desk", claims.Name)
		assert.Equal(t, "trader", claims.Role)
		assert.Equal(t, "beanport-backend", claims.Issuer)
		assert.NotEmpty(t, claims.ID)

		parsed, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		service := testJWTService()

		claims, err := service.ValidateToken("not.a.token")

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		service := testJWTService()
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-signing-secret",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "beanport-backend",
		})

		issued, err := other.GenerateToken(GenerateTokenInput{UserID: uuid.New(), Name: "x"})
		require.NoError(t, err)

		_, err = service.ValidateToken(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		service := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-that-is-long-enough",
			AccessTokenExpiration: -time.Minute,
			Issuer:                "beanport-backend",
		})

		issued, err := service.GenerateToken(GenerateTokenInput{UserID: uuid.New(), Name: "x"})
		require.NoError(t, err)

		_, err = service.ValidateToken(issued.Token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	t.Run("positive for a live token", func(t *testing.T) {
		service := testJWTService()
		issued, err := service.GenerateToken(GenerateTokenInput{UserID: uuid.New(), Name: "x"})
		require.NoError(t, err)

		claims, err := service.ValidateToken(issued.Token)
		require.NoError(t, err)

		ttl := claims.GetRemainingTTL()
		assert.Greater(t, ttl, 14*time.Minute)
		assert.LessOrEqual(t, ttl, 15*time.Minute)
	})

	t.Run("zero without an expiry claim", func(t *testing.T) {
		claims := &Claims{}
		assert.Equal(t, time.Duration(0), claims.GetRemainingTTL())
		assert.True(t, claims.GetExpiresAtTime().IsZero())
	})
}
