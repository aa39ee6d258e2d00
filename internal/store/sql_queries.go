package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-sf-harness/models"
)

const otpClaimsTable = "otp_claims"

var otpClaimColumns = []string{
	"message_id",
	"test_run_id",
	"otp",
	"username",
	"claimed_at",
	"message_timestamp",
}

func placeholderFor(dialect string) sq.PlaceholderFormat {
	if dialect == DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// insertClaimQuery builds an insert that silently skips an existing
// message_id, so a conflict shows up as zero affected rows.
func insertClaimQuery(dialect string, rec models.OtpClaimRecord) (string, []any, error) {
	q := sq.Insert(otpClaimsTable).
		Columns(otpClaimColumns...).
		Values(rec.MessageID, rec.TestRunID, rec.OTP, rec.Username, rec.ClaimedAt.UTC(), rec.MessageTimestamp.UTC()).
		PlaceholderFormat(placeholderFor(dialect))

	if dialect == DialectPostgres {
		q = q.Suffix("ON CONFLICT (message_id) DO NOTHING")
	} else {
		q = q.Options("OR IGNORE")
	}

	return q.ToSql()
}

func selectClaimQuery(dialect, messageID string) (string, []any, error) {
	return sq.Select(otpClaimColumns...).
		From(otpClaimsTable).
		Where(sq.Eq{"message_id": messageID}).
		PlaceholderFormat(placeholderFor(dialect)).
		ToSql()
}
