package store

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-sf-harness/models"
)

// MemoryClaimLedger is a process-local [ClaimLedger]. It only protects
// workers that share one process.
type MemoryClaimLedger struct {
	mu      sync.Mutex
	records map[string]models.OtpClaimRecord
}

func NewMemoryClaimLedger() *MemoryClaimLedger {
	return &MemoryClaimLedger{records: make(map[string]models.OtpClaimRecord)}
}

func (l *MemoryClaimLedger) PutIfAbsent(_ context.Context, record models.OtpClaimRecord) error {
	if record.MessageID == "" {
		return ErrInvalidClaim
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.records[record.MessageID]; ok {
		return ErrClaimConflict
	}
	l.records[record.MessageID] = record
	return nil
}

func (l *MemoryClaimLedger) Get(_ context.Context, messageID string) (models.OtpClaimRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[messageID]
	if !ok {
		return models.OtpClaimRecord{}, ErrClaimNotFound
	}
	return rec, nil
}

// Len returns the number of stored claims.
func (l *MemoryClaimLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
