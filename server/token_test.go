package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_getBearerTokenFromHeader(t *testing.T) {
	testCases := []struct {
		name      string
		header    string
		expect    string
		expectErr bool
	}{
		{name: "valid bearer header", header: "Bearer abc123", expect: "abc123"},
		{name: "case insensitive scheme", header: "bearer abc123", expect: "abc123"},
		{name: "empty header errors", header: "", expectErr: true},
		{name: "missing token errors", header: "Bearer", expectErr: true},
		{name: "wrong scheme errors", header: "Basic abc123", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := getBearerTokenFromHeader(tc.header)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func Test_generateAndValidateSessionToken(t *testing.T) {
	secret := []byte("test-secret-at-least-this-long-ok")
	sessionID := uuid.New()

	tok, err := generateSessionToken(secret, sessionID)
	assert.NoError(t, err)
	assert.NotEmpty(t, tok)

	gotID, err := validateSessionToken(tok, secret)
	assert.NoError(t, err)
	assert.Equal(t, sessionID, gotID)
}

func Test_validateSessionToken_wrongSecret(t *testing.T) {
	sessionID := uuid.New()
	tok, err := generateSessionToken([]byte("correct-secret-value-padded-ok!"), sessionID)
	assert.NoError(t, err)

	_, err = validateSessionToken(tok, []byte("wrong-secret-value-padded-too!!"))
	assert.Error(t, err)
}

func Test_validateSessionToken_expired(t *testing.T) {
	secret := []byte("test-secret-at-least-this-long-ok")
	claims := &jwt.MapClaims{
		"iss": "casengine",
		"exp": time.Now().Add(-time.Hour).Unix(),
		"sub": uuid.New().String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	assert.NoError(t, err)

	_, err = validateSessionToken(signed, secret)
	assert.Error(t, err)
}

func Test_validateSessionToken_wrongIssuer(t *testing.T) {
	secret := []byte("test-secret-at-least-this-long-ok")
	claims := &jwt.MapClaims{
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": uuid.New().String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	assert.NoError(t, err)

	_, err = validateSessionToken(signed, secret)
	assert.Error(t, err)
}

func Test_validateSessionToken_malformedSubject(t *testing.T) {
	secret := []byte("test-secret-at-least-this-long-ok")
	claims := &jwt.MapClaims{
		"iss": "casengine",
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": "not-a-uuid",
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	assert.NoError(t, err)

	_, err = validateSessionToken(signed, secret)
	assert.Error(t, err)
}
