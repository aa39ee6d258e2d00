package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator_GeneratesV7(t *testing.T) {
	id, err := uuid.Parse(NewUUIDGenerator().Generate())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestNewTestRunID_Format(t *testing.T) {
	now := time.UnixMilli(1767225600123)

	id := NewTestRunID(now)

	assert.Regexp(t, regexp.MustCompile(`^run_1767225600123_[0-9a-f]{8}$`), id)
}

func TestNewTestRunID_Unique(t *testing.T) {
	now := time.Now()
	assert.NotEqual(t, NewTestRunID(now), NewTestRunID(now))
}
