// Package http serves a read-only status API for a running harness: health,
// build info, the execution timeline and the account locks currently held.
//
// Every request gets a trace id and an access log line.
package http
