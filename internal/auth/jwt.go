// Package auth validates the identity token a client presents when it
// opens the realtime connection. Token issuance belongs to the identity
// provider; this is only the consuming edge.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the identity claims OnyxDrift tokens carry. The
// subject is the stable application-level user identity.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the verified user identity from the claims.
func (c *Claims) UserID() string {
	return c.Subject
}

// Config holds token-verification settings. An empty Secret disables
// verification entirely (dev mode: the announced identity is trusted).
type Config struct {
	Secret   []byte
	Issuer   string
	Audience string
}

// Verifier checks HS256 tokens against the configured secret.
type Verifier struct {
	cfg Config
}

// NewVerifier builds a verifier from config.
func NewVerifier(cfg Config) *Verifier {
	return &Verifier{cfg: cfg}
}

// Enabled reports whether token verification is configured.
func (v *Verifier) Enabled() bool {
	return len(v.cfg.Secret) > 0
}

// Verify parses and validates a token, returning its claims.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.cfg.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if v.cfg.Issuer != "" && claims.Issuer != v.cfg.Issuer {
		return nil, fmt.Errorf("invalid issuer")
	}

	if v.cfg.Audience != "" {
		validAudience := false
		for _, aud := range claims.Audience {
			if aud == v.cfg.Audience {
				validAudience = true
				break
			}
		}
		if !validAudience {
			return nil, fmt.Errorf("invalid audience")
		}
	}

	return claims, nil
}

// GenerateToken mints a token for the given user. The server never calls
// this in production; it exists for tests and local tooling.
func GenerateToken(cfg Config, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.Secret)
}
