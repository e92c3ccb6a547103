package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the identity token claims structure
type Claims struct {
	UserID string   `json:"user_id"`
	Phone  string   `json:"phone"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// Verifier validates identity tokens issued by the external identity
// service. This service never issues tokens itself.
type Verifier struct {
	secret string
	issuer string
}

// NewVerifier creates a new token Verifier
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{
		secret: secret,
		issuer: issuer,
	}
}

// Verify validates and parses an identity token
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, fmt.Errorf("invalid token issuer: %s", claims.Issuer)
	}

	if claims.UserID == "" {
		// Older tokens carry the user id only in the subject claim.
		if claims.Subject == "" {
			return nil, fmt.Errorf("token missing user id")
		}
		claims.UserID = claims.Subject
	}

	return claims, nil
}

// HasRole reports whether the claims carry the given role
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
