package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// getBearerTokenFromHeader extracts a "Bearer <token>" Authorization header
// value, the same parsing the teacher's server/token.go uses before handing
// the token to jwt.Parse.
func getBearerTokenFromHeader(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// generateSessionToken issues a bearer JWT identifying a new anonymous
// session, in the same claims shape the teacher's generateJWT builds (iss,
// exp, sub, authorized) but signed with a single server-wide secret since
// there is no per-user password to mix into the signing key.
func generateSessionToken(secret []byte, sessionID uuid.UUID) (string, error) {
	claims := &jwt.MapClaims{
		"iss":        "casengine",
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
		"sub":        sessionID.String(),
		"authorized": true,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(secret)
}

// validateSessionToken parses and verifies tok, returning the session ID
// encoded in its subject claim.
func validateSessionToken(tok string, secret []byte) (uuid.UUID, error) {
	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer("casengine"), jwt.WithLeeway(time.Minute))
	if err != nil || !parsed.Valid {
		return uuid.UUID{}, fmt.Errorf("invalid session token: %w", err)
	}
	subj, err := parsed.Claims.GetSubject()
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("cannot read session token subject: %w", err)
	}
	return uuid.Parse(subj)
}
