// Package auth verifies the session tokens issued by the hosted auth provider
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// authenticatedAudience is the audience of tokens minted for signed-in users
const authenticatedAudience = "authenticated"

// TokenVerifier validates HS256 access tokens signed with the project JWT secret
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a new token verifier
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// ValidateAccessToken validates an access token and returns the user ID from its "sub" claim
func (v *TokenVerifier) ValidateAccessToken(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("token is invalid")
	}

	// Anonymous sessions carry an audience too; only signed-in users are accepted
	if aud, err := claims.GetAudience(); err == nil && len(aud) > 0 && !containsAudience(aud, authenticatedAudience) {
		return "", fmt.Errorf("token audience is not accepted")
	}

	userID, err := claims.GetSubject()
	if err != nil || userID == "" {
		return "", fmt.Errorf("sub not found in token")
	}

	return userID, nil
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
