package otp

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrOTPTimeout matches every *OtpTimeoutError.
	ErrOTPTimeout = errors.New("otp claim timeout")

	// ErrInvalidRequest is returned for claim requests missing the test run
	// id or the expected username.
	ErrInvalidRequest = errors.New("invalid otp claim request")

	// ErrClaimLedger is returned when ledger writes keep failing for a
	// reason other than a lost race.
	ErrClaimLedger = errors.New("claim ledger write failed")
)

// OtpTimeoutError is returned when no code could be claimed in time. The
// counters separate "the email never arrived" (Seen or Matched is zero)
// from "it arrived but another worker took it" (Lost is non-zero).
type OtpTimeoutError struct {
	Username string
	Elapsed  time.Duration
	Timeout  time.Duration

	// Seen counts distinct messages with a non-empty body.
	Seen int
	// Matched counts distinct messages that passed every filter.
	Matched int
	// Lost counts matched messages already claimed by someone else.
	Lost int

	// LastErr is the last ledger write failure, if any.
	LastErr error
}

func (e *OtpTimeoutError) Error() string {
	msg := fmt.Sprintf("no otp claimed for %q after %s (timeout %s): seen=%d matched=%d lost=%d",
		e.Username, e.Elapsed, e.Timeout, e.Seen, e.Matched, e.Lost)
	if e.LastErr != nil {
		msg += ": last ledger error: " + e.LastErr.Error()
	}
	return msg
}

func (e *OtpTimeoutError) Unwrap() []error {
	if e.LastErr == nil {
		return []error{ErrOTPTimeout}
	}
	return []error{ErrOTPTimeout, e.LastErr}
}
