package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func baseClaims() Claims {
	now := time.Now()
	return Claims{
		UserID: "user-1",
		Phone:  "+2348012345678",
		Roles:  []string{"passenger"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "roadlink-identity",
			Subject:   "user-1",
		},
	}
}

func TestVerify(t *testing.T) {
	verifier := NewVerifier(testSecret, "roadlink-identity")

	t.Run("Valid Token", func(t *testing.T) {
		signed := signToken(t, baseClaims(), testSecret)

		claims, err := verifier.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, []string{"passenger"}, claims.Roles)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		signed := signToken(t, baseClaims(), "other-secret")

		_, err := verifier.Verify(signed)
		assert.Error(t, err)
	})

	t.Run("Expired Token", func(t *testing.T) {
		claims := baseClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		signed := signToken(t, claims, testSecret)

		_, err := verifier.Verify(signed)
		assert.Error(t, err)
	})

	t.Run("Wrong Issuer", func(t *testing.T) {
		claims := baseClaims()
		claims.Issuer = "someone-else"
		signed := signToken(t, claims, testSecret)

		_, err := verifier.Verify(signed)
		assert.Error(t, err)
	})

	t.Run("Issuer Check Skipped When Unconfigured", func(t *testing.T) {
		lax := NewVerifier(testSecret, "")
		signed := signToken(t, baseClaims(), testSecret)

		_, err := lax.Verify(signed)
		assert.NoError(t, err)
	})

	t.Run("UserID Falls Back To Subject", func(t *testing.T) {
		claims := baseClaims()
		claims.UserID = ""
		signed := signToken(t, claims, testSecret)

		got, err := verifier.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.UserID)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		_, err := verifier.Verify("not.a.token")
		assert.Error(t, err)
	})
}

func TestHasRole(t *testing.T) {
	claims := &Claims{Roles: []string{"passenger", "operator"}}
	assert.True(t, claims.HasRole("operator"))
	assert.False(t, claims.HasRole("admin"))
}
