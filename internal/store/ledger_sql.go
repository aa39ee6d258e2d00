package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/models"
)

// sqlClaimLedger keeps claims in the otp_claims table of PostgreSQL or
// SQLite. The primary key on message_id is what makes PutIfAbsent atomic.
type sqlClaimLedger struct {
	db      *DB
	logger  *logger.Logger
	backoff func() retry.Backoff
}

// NewSQLClaimLedger returns a [ClaimLedger] on top of an open, migrated DB.
func NewSQLClaimLedger(db *DB, log *logger.Logger) ClaimLedger {
	log.Debug().Str("dialect", db.dialect).Msg("creating sql claim ledger")
	return &sqlClaimLedger{
		db:     db,
		logger: log,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))
		},
	}
}

// PutIfAbsent inserts the claim unless the message id is already present.
// Transient driver errors are retried with exponential backoff; the insert
// is idempotent per message id so a retry can never create a second row.
// A conflict seen on a retry may be our own earlier insert whose commit
// was not acknowledged, so the stored row is read back before reporting it.
func (l *sqlClaimLedger) PutIfAbsent(ctx context.Context, record models.OtpClaimRecord) error {
	if record.MessageID == "" {
		return ErrInvalidClaim
	}
	log := logger.FromContext(ctx)

	query, args, err := insertClaimQuery(l.db.dialect, record)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		affected int64
		attempts int
	)
	err = retry.Do(ctx, l.backoff(), func(ctx context.Context) error {
		attempts++
		res, err := l.db.ExecContext(ctx, query, args...)
		if err != nil {
			if l.isUniqueViolation(err) {
				return ErrClaimConflict
			}
			if l.db.errorClassificator != nil && l.db.errorClassificator.Classify(err) == Retryable {
				log.Warn().Err(err).Str("message_id", record.MessageID).Msg("retrying otp claim insert")
				return retry.RetryableError(err)
			}
			return err
		}

		affected, err = res.RowsAffected()
		return err
	})
	if err == nil && affected == 0 {
		err = ErrClaimConflict
	}
	if errors.Is(err, ErrClaimConflict) {
		if attempts > 1 {
			return l.resolveRetriedConflict(ctx, record)
		}
		return ErrClaimConflict
	}
	if err != nil {
		log.Err(err).Str("func", "*sqlClaimLedger.PutIfAbsent").Msg("error inserting otp claim")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// resolveRetriedConflict decides who owns a row that blocked a retried
// insert. The row is ours when it carries our run, user and code.
func (l *sqlClaimLedger) resolveRetriedConflict(ctx context.Context, record models.OtpClaimRecord) error {
	stored, err := l.Get(ctx, record.MessageID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("message_id", record.MessageID).Msg("error reading back retried otp claim")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if stored.TestRunID == record.TestRunID && stored.Username == record.Username && stored.OTP == record.OTP {
		return nil
	}
	return ErrClaimConflict
}

func (l *sqlClaimLedger) Get(ctx context.Context, messageID string) (models.OtpClaimRecord, error) {
	query, args, err := selectClaimQuery(l.db.dialect, messageID)
	if err != nil {
		return models.OtpClaimRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var rec models.OtpClaimRecord
	err = l.db.QueryRowContext(ctx, query, args...).Scan(
		&rec.MessageID, &rec.TestRunID, &rec.OTP, &rec.Username, &rec.ClaimedAt, &rec.MessageTimestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.OtpClaimRecord{}, ErrClaimNotFound
	}
	if err != nil {
		return models.OtpClaimRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return rec, nil
}

func (l *sqlClaimLedger) isUniqueViolation(err error) bool {
	if l.db.dialect == DialectPostgres {
		return isPgUniqueViolation(err)
	}
	return isSQLiteUniqueViolation(err)
}
