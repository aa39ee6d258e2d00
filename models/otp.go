package models

import "time"

// OtpClaimRecord is the ledger entry written when a worker takes ownership
// of a verification code. MessageID is the unique key; a record is created
// once and never updated.
type OtpClaimRecord struct {
	MessageID        string    `json:"message_id"`
	TestRunID        string    `json:"test_run_id"`
	OTP              string    `json:"otp"`
	Username         string    `json:"username"`
	ClaimedAt        time.Time `json:"claimed_at"`
	MessageTimestamp time.Time `json:"message_timestamp"`
}

// MessageRef is a mailbox search hit. Only the id is needed to fetch the
// full message.
type MessageRef struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId,omitempty"`
}

// MailMessage is a fully fetched mailbox message reduced to what the OTP
// claim needs: the decoded text body and the provider's receive time.
type MailMessage struct {
	ID         string
	Body       string
	ReceivedAt time.Time
}

// OTPClaimRequest describes one attempt to take a verification code from the
// shared mailbox on behalf of a single login.
type OTPClaimRequest struct {
	TestRunID string
	Mailbox   MailboxSecrets
	// Query is the mailbox search expression. Empty means the service default.
	Query string
	// Timeout is the whole claim budget. Zero means the service default.
	Timeout time.Duration
	// LoginSubmittedAt is the lower bound for message timestamps: codes sent
	// before this login attempt are never accepted.
	LoginSubmittedAt time.Time
	// ExpectedUsername must equal the message's identity marker exactly.
	ExpectedUsername string
	WorkerIndex      int
}
