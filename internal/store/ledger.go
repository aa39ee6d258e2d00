package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sf-harness/internal/config"
	"github.com/MKhiriev/go-sf-harness/internal/logger"
)

// NewClaimLedger opens the ledger selected by cfg.Backend. dynamo is only
// used for the dynamodb backend. The returned close function releases the
// underlying connection and is never nil.
func NewClaimLedger(ctx context.Context, cfg config.Ledger, dynamo DynamoDBAPI, log *logger.Logger) (ClaimLedger, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.LedgerDynamoDB:
		if dynamo == nil {
			return nil, noop, fmt.Errorf("dynamodb ledger requires a client")
		}
		return NewDynamoClaimLedger(dynamo, cfg.Table, log), noop, nil

	case config.LedgerPostgres, config.LedgerSQLite:
		var (
			db  *DB
			err error
		)
		if cfg.Backend == config.LedgerPostgres {
			db, err = NewConnectPostgres(ctx, cfg.DSN, log)
		} else {
			db, err = NewConnectSQLite(ctx, cfg.DSN, log)
		}
		if err != nil {
			return nil, noop, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, noop, err
		}
		return NewSQLClaimLedger(db, log), db.Close, nil

	case config.LedgerMemory:
		log.Warn().Msg("in-memory claim ledger only protects workers of this process")
		return NewMemoryClaimLedger(), noop, nil
	}

	return nil, noop, fmt.Errorf("unknown claim ledger backend %q", cfg.Backend)
}
