package service

import "time"

// State is a step of the login state machine.
type State string

const (
	StateStart               State = "START"
	StateCredentialsResolved State = "CREDENTIALS_RESOLVED"
	StateLockAcquired        State = "LOCK_ACQUIRED"
	StateSessionReused       State = "SESSION_REUSED"
	StateFreshLoginSubmitted State = "FRESH_LOGIN_SUBMITTED"
	StateOTPChallenge        State = "OTP_CHALLENGE"
	StateOTPClaimed          State = "OTP_CLAIMED"
	StateAuthenticated       State = "AUTHENTICATED"
	StateCredentialError     State = "CREDENTIAL_ERROR"
)

// LoginRequest asks for an authenticated page for one worker.
type LoginRequest struct {
	Environment string
	Profile     string
	WorkerIndex int
	// TestRunID tags OTP claims. Empty means the orchestrator's run id.
	TestRunID string
	// DisableSessionReuse forces a fresh login and skips saving the session.
	DisableSessionReuse bool
}

// LoginResult is the outcome of a Login call that did not fail.
type LoginResult struct {
	// State is AUTHENTICATED or CREDENTIAL_ERROR.
	State    State
	Username string
	// Trace lists every state visited, START first.
	Trace         []State
	SessionReused bool
	SubmittedAt   time.Time
	// CredentialError is the login page's error text for CREDENTIAL_ERROR.
	CredentialError string
}

// Authenticated reports whether the page is logged in.
func (r LoginResult) Authenticated() bool {
	return r.State == StateAuthenticated
}
