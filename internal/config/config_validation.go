// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// harness invariants before it is used at startup. It runs after defaults
// have been applied, so only values that have no sensible default or that
// were explicitly set to something unusable are reported.
func (cfg *StructuredConfig) validate() error {
	if cfg.Run.Workers < 1 || len(cfg.Run.Profiles) == 0 {
		return ErrInvalidRunConfigs
	}

	switch cfg.Ledger.Backend {
	case LedgerDynamoDB, LedgerMemory:
	case LedgerPostgres, LedgerSQLite:
		if cfg.Ledger.DSN == "" {
			return fmt.Errorf("%w: %s backend requires a DSN", ErrInvalidLedgerConfigs, cfg.Ledger.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidLedgerConfigs, cfg.Ledger.Backend)
	}

	if cfg.Mailbox.PollInterval <= 0 || cfg.Mailbox.OTPTimeout <= 0 ||
		cfg.Mailbox.MaxResults < 1 || cfg.Mailbox.MaxConsecutiveErrors < 1 {
		return ErrInvalidMailboxConfigs
	}

	if cfg.Lock.PollInterval <= 0 || cfg.Lock.Timeout <= 0 || cfg.Lock.StaleAfter <= 0 {
		return ErrInvalidLockConfigs
	}

	if cfg.Login.BaseURL == "" || cfg.Login.StaggerModulo < 1 {
		return ErrInvalidLoginConfigs
	}

	return nil
}
