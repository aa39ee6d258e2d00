package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/MKhiriev/go-sf-harness/models"
)

func claim(id, user string) models.OtpClaimRecord {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return models.OtpClaimRecord{
		MessageID:        id,
		TestRunID:        "run_1_test",
		OTP:              "123456",
		Username:         user,
		ClaimedAt:        now,
		MessageTimestamp: now.Add(-time.Second),
	}
}

func TestMemoryClaimLedger_PutIfAbsent(t *testing.T) {
	l := NewMemoryClaimLedger()
	ctx := context.Background()

	require.NoError(t, l.PutIfAbsent(ctx, claim("m1", "a")))
	assert.ErrorIs(t, l.PutIfAbsent(ctx, claim("m1", "b")), ErrClaimConflict)
	require.NoError(t, l.PutIfAbsent(ctx, claim("m2", "b")))

	rec, err := l.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "a", rec.Username)
	assert.Equal(t, 2, l.Len())
}

func TestMemoryClaimLedger_Errors(t *testing.T) {
	l := NewMemoryClaimLedger()

	assert.ErrorIs(t, l.PutIfAbsent(context.Background(), claim("", "a")), ErrInvalidClaim)

	_, err := l.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrClaimNotFound)
}

// TestMemoryClaimLedger_AtMostOnce races many claimers on the same message
// ids and checks each id is won exactly once.
func TestMemoryClaimLedger_AtMostOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		claimers := rapid.IntRange(2, 16).Draw(rt, "claimers")
		messages := rapid.IntRange(1, 4).Draw(rt, "messages")

		l := NewMemoryClaimLedger()
		wins := make([]atomic.Int32, messages)
		var unexpected atomic.Int32

		var wg sync.WaitGroup
		for c := 0; c < claimers; c++ {
			wg.Add(1)
			go func(c int) {
				defer wg.Done()
				for m := 0; m < messages; m++ {
					err := l.PutIfAbsent(context.Background(), claim(fmt.Sprintf("msg-%d", m), fmt.Sprintf("worker-%d", c)))
					switch {
					case err == nil:
						wins[m].Add(1)
					case err != ErrClaimConflict:
						unexpected.Add(1)
					}
				}
			}(c)
		}
		wg.Wait()

		if n := unexpected.Load(); n > 0 {
			rt.Fatalf("%d unexpected errors", n)
		}

		for m := range wins {
			if got := wins[m].Load(); got != 1 {
				rt.Fatalf("message %d claimed %d times", m, got)
			}
		}
	})
}
