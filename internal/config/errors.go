package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidRunConfigs indicates a missing profile list or a
	// non-positive worker count.
	ErrInvalidRunConfigs = errors.New("invalid run configuration")
	// ErrInvalidLedgerConfigs indicates an unknown ledger backend or a SQL
	// backend without a DSN.
	ErrInvalidLedgerConfigs = errors.New("invalid ledger configuration")
	// ErrInvalidMailboxConfigs indicates non-positive polling parameters.
	ErrInvalidMailboxConfigs = errors.New("invalid mailbox configuration")
	// ErrInvalidLockConfigs indicates non-positive lock timings.
	ErrInvalidLockConfigs = errors.New("invalid lock configuration")
	// ErrInvalidLoginConfigs indicates a missing base URL or stagger modulo.
	ErrInvalidLoginConfigs = errors.New("invalid login configuration")
)
