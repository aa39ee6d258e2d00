package secrets

import "errors"

var (
	// ErrSecretNotFound is returned when the secret id does not exist or
	// holds no string value.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrMalformedSecret is returned when a secret is not the JSON document
	// the harness expects.
	ErrMalformedSecret = errors.New("malformed secret")
)
