package credentials

import (
	"errors"
	"fmt"
)

// ErrCredentialNotFound matches every *NotFoundError.
var ErrCredentialNotFound = errors.New("credential not found")

// NotFoundError reports an (environment, profile) pair with no usable roster.
type NotFoundError struct {
	Environment string
	Profile     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no users found for %s/%s", e.Environment, e.Profile)
}

func (e *NotFoundError) Unwrap() error {
	return ErrCredentialNotFound
}
