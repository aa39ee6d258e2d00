// Package utils provides general-purpose helper utilities used across the
// harness: context keys, the shared clock and bounded poll loop, the HTTP
// client wrapper, identifier generation and JWT assertion signing.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// WorkerIndexCtxKey is the key used to store the worker index in the context.
var WorkerIndexCtxKey = contextKey("workerIndex")

// WithWorkerIndex returns a copy of ctx carrying the worker index.
func WithWorkerIndex(ctx context.Context, workerIndex int) context.Context {
	return context.WithValue(ctx, WorkerIndexCtxKey, workerIndex)
}

// GetWorkerIndexFromContext retrieves the worker index from the context.
//
// Returns the index and an ok flag:
//   - ok == true: value is found and has the correct int type
//   - ok == false: value is missing or has an unexpected type
func GetWorkerIndexFromContext(ctx context.Context) (int, bool) {
	idx, ok := ctx.Value(WorkerIndexCtxKey).(int)
	return idx, ok
}
