package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UUIDGenerator produces time-ordered identifiers.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// NewTestRunID returns an identifier for one harness run in the form
// run_<unix-millis>_<8 hex chars>. Every OTP claim written during the run
// carries it, which makes ledger rows attributable to a CI job.
func NewTestRunID(now time.Time) string {
	suffix := strings.ReplaceAll(NewUUIDGenerator().Generate(), "-", "")
	return fmt.Sprintf("run_%d_%s", now.UnixMilli(), suffix[len(suffix)-8:])
}
