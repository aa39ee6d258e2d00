package store

import (
	"context"

	"github.com/MKhiriev/go-sf-harness/models"
)

// ClaimLedger is the shared record of which mailbox messages have already
// been used by some worker.
//
// PutIfAbsent must be linearizable per MessageID across every process that
// shares the ledger: of any number of concurrent calls for the same id,
// exactly one returns nil and all others return ErrClaimConflict.
type ClaimLedger interface {
	PutIfAbsent(ctx context.Context, record models.OtpClaimRecord) error
	Get(ctx context.Context, messageID string) (models.OtpClaimRecord, error)
}

// ErrorClassificator decides whether a failed ledger write may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
