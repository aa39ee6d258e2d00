package lock

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrLockTimeout matches every *LockTimeoutError.
	ErrLockTimeout = errors.New("user lock timeout")
	// ErrAlreadyWaiting is returned when a worker tries to queue twice for
	// the same username.
	ErrAlreadyWaiting = errors.New("worker is already waiting for this user")
)

// LockTimeoutError reports a worker that gave up waiting for an account.
type LockTimeoutError struct {
	Username    string
	WorkerIndex int
	// HeldBy is the worker holding the account when the wait ended, -1 if
	// it was free.
	HeldBy  int
	Waited  time.Duration
	Timeout time.Duration
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("worker %d timed out after %s (budget %s) waiting for user %q held by worker %d",
		e.WorkerIndex, e.Waited, e.Timeout, e.Username, e.HeldBy)
}

func (e *LockTimeoutError) Unwrap() error {
	return ErrLockTimeout
}
