package adapter

import "errors"

var (
	// ErrMailboxAuth means the mailbox refresh token or client was
	// rejected. Retrying cannot help; the secret must be regenerated.
	ErrMailboxAuth = errors.New("mailbox authorization rejected")

	// ErrMailboxTransient covers network failures, throttling and server
	// errors of the mailbox API.
	ErrMailboxTransient = errors.New("mailbox temporarily unavailable")
)

// HTTP status classes shared by the Salesforce and mailbox clients.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("client unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrServerError  = errors.New("server error")
)
