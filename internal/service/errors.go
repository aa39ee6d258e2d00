package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-sf-harness/internal/adapter"
	"github.com/MKhiriev/go-sf-harness/internal/credentials"
	"github.com/MKhiriev/go-sf-harness/internal/lock"
	"github.com/MKhiriev/go-sf-harness/internal/otp"
)

// Re-exported so callers of Login can classify failures without importing
// every collaborator package.
var (
	ErrCredentialNotFound = credentials.ErrCredentialNotFound
	ErrLockTimeout        = lock.ErrLockTimeout
	ErrMailboxAuth        = adapter.ErrMailboxAuth
	ErrMailboxTransient   = adapter.ErrMailboxTransient
	ErrOTPTimeout         = otp.ErrOTPTimeout
	ErrClaimLedger        = otp.ErrClaimLedger
)

var (
	ErrInvalidLoginRequest = errors.New("invalid login request")
	ErrNotAuthenticated    = errors.New("authenticated page did not load")
)

// LoginError decorates any failure of Login with the context needed to find
// the attempt in logs and in the shared mailbox.
type LoginError struct {
	WorkerIndex int
	Username    string
	State       State
	// SubmittedAt is zero when the failure happened before credentials were
	// submitted.
	SubmittedAt time.Time
	Err         error
}

func (e *LoginError) Error() string {
	submitted := "not submitted"
	if !e.SubmittedAt.IsZero() {
		submitted = "submitted at " + e.SubmittedAt.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("login failed for worker %d, user %q, state %s, %s: %v",
		e.WorkerIndex, e.Username, e.State, submitted, e.Err)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}
