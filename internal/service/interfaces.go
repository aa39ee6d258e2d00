package service

import (
	"context"

	"github.com/MKhiriev/go-sf-harness/internal/browser"
	"github.com/MKhiriev/go-sf-harness/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// CredentialResolver picks the account a worker logs in with.
type CredentialResolver interface {
	Resolve(ctx context.Context, environment, profile string, workerIndex int) (models.Credential, error)
}

// AccountLocker serialises use of one account across workers.
type AccountLocker interface {
	Acquire(ctx context.Context, username string, workerIndex int, profile string) error
	Release(workerIndex int)
}

// SessionStore persists browser sessions per (profile, worker).
type SessionStore interface {
	Exists(profile string, workerIndex int) bool
	Apply(ctx context.Context, driver browser.StorageDriver, profile string, workerIndex int) bool
	Save(ctx context.Context, driver browser.StorageDriver, profile string, workerIndex int, username string) error
	Delete(profile string, workerIndex int)
}

// MailboxSecretsFetcher reads the OAuth material of the shared mailbox.
type MailboxSecretsFetcher interface {
	FetchMailboxSecrets(ctx context.Context, secretID string) (models.MailboxSecrets, error)
}

// OTPClaimer takes ownership of one verification code.
type OTPClaimer interface {
	Claim(ctx context.Context, req models.OTPClaimRequest) (string, error)
}
