package store

import "errors"

// Sentinel errors returned by ledger implementations. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrClaimConflict is returned by PutIfAbsent when a record with the
	// same message id already exists: another worker owns that code.
	ErrClaimConflict = errors.New("otp message already claimed")

	// ErrClaimNotFound is returned by Get for an unknown message id.
	ErrClaimNotFound = errors.New("otp claim not found")

	// ErrInvalidClaim is returned for records without a message id.
	ErrInvalidClaim = errors.New("otp claim has no message id")
)

// Low-level database operation errors.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingStatement is returned when executing a DML statement fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a claim row fails.
	ErrScanningRow = errors.New("failed to scan otp claim row")
)
