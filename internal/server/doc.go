// Package server runs the harness status API next to a test run and shuts it
// down gracefully when the run's context ends.
package server
