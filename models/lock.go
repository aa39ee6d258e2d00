package models

import "time"

// UserLock records which worker currently owns a Salesforce username.
// At most one UserLock exists per username at any instant.
type UserLock struct {
	Username       string
	LockedByWorker int
	Profile        string
	LockedAt       time.Time
}

// Age returns how long the lock has been held at now.
func (l UserLock) Age(now time.Time) time.Duration {
	return now.Sub(l.LockedAt)
}
