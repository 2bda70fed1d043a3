package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig configures session token minting.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// mintToken signs a session token for userID with sessionID as the JWT ID.
func mintToken(sessionID, userID string, issuedAt, expiresAt time.Time, cfg TokenConfig) (string, error) {
	if cfg.Secret == "" {
		return "", errors.New("missing session secret")
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   userID,
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// parseToken validates a session token and returns its JWT ID.
func parseToken(tokenStr string, cfg TokenConfig) (string, error) {
	if cfg.Secret == "" {
		return "", errors.New("missing session secret")
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse session token: %w", err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return "", jwt.ErrSignatureInvalid
	}
	return claims.ID, nil
}
