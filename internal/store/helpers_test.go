package store

import "github.com/MKhiriev/go-sf-harness/internal/config"

func configLedger(backend, dsn string) config.Ledger {
	return config.Ledger{Backend: backend, Table: "OTPClaims", DSN: dsn}
}
