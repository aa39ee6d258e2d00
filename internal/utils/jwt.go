package utils

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BearerAssertionTTL is the lifetime of an OAuth JWT bearer assertion.
// Salesforce rejects assertions whose exp is more than a few minutes ahead.
const BearerAssertionTTL = 3 * time.Minute

// ParseRSAPrivateKey decodes a PEM encoded RSA private key (PKCS#1 or PKCS#8).
func ParseRSAPrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("error parsing RSA private key: %w", err)
	}
	return key, nil
}

// GenerateBearerAssertion creates an RS256 signed assertion for the OAuth 2.0
// JWT bearer flow.
//
// Claims:
//   - Issuer   (iss): the connected app client id
//   - Subject  (sub): the username the token is issued for
//   - Audience (aud): the login host, e.g. https://login.salesforce.com
//   - ExpiresAt(exp): now plus BearerAssertionTTL
func GenerateBearerAssertion(clientID, username, audience string, key *rsa.PrivateKey, now time.Time) (string, error) {
	if clientID == "" || username == "" || audience == "" || key == nil {
		return "", errors.New("invalid params for generating JWT bearer assertion")
	}

	claims := &jwt.RegisteredClaims{
		Issuer:    clientID,
		Subject:   username,
		Audience:  jwt.ClaimStrings{audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(BearerAssertionTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("error occurred during signing JWT assertion: %w", err)
	}

	return signed, nil
}
