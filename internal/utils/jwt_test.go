package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestParseRSAPrivateKey_PKCS1(t *testing.T) {
	key := newTestKey(t)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	parsed, err := ParseRSAPrivateKey(pemBytes)

	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))
}

func TestParseRSAPrivateKey_Garbage(t *testing.T) {
	_, err := ParseRSAPrivateKey([]byte("not a key"))
	assert.Error(t, err)
}

func TestGenerateBearerAssertion_Claims(t *testing.T) {
	key := newTestKey(t)
	now := time.Now().Truncate(time.Second)

	signed, err := GenerateBearerAssertion("client-id", "qa@example.com", "https://login.salesforce.com", key, now)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, "client-id", claims.Issuer)
	assert.Equal(t, "qa@example.com", claims.Subject)
	assert.Equal(t, jwt.ClaimStrings{"https://login.salesforce.com"}, claims.Audience)
	assert.Equal(t, now.Add(BearerAssertionTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestGenerateBearerAssertion_InvalidParams(t *testing.T) {
	key := newTestKey(t)

	tests := []struct {
		name                        string
		clientID, username, audience string
		key                         *rsa.PrivateKey
	}{
		{"no client id", "", "u", "a", key},
		{"no username", "c", "", "a", key},
		{"no audience", "c", "u", "", key},
		{"no key", "c", "u", "a", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateBearerAssertion(tt.clientID, tt.username, tt.audience, tt.key, time.Now())
			assert.Error(t, err)
		})
	}
}
