package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

// ProfileList is a comma separated list of profile names.
// It implements the flag.Value interface.
type ProfileList []string

// String returns the profiles joined with commas.
func (p *ProfileList) String() string {
	if p == nil {
		return ""
	}
	return strings.Join(*p, ",")
}

// Set appends every non-blank comma separated entry of s. The flag may be
// repeated.
func (p *ProfileList) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		*p = append(*p, part)
	}
	if len(*p) == 0 {
		return fmt.Errorf("no profile in %q", s)
	}
	return nil
}

// ParseFlags parses the harness flags from args.
//
// Flags:
//
//	-c/-config json file path with configs
//	-env target environment (dev, sit, uat)
//	-workers number of parallel workers
//	-profiles comma separated profile names (repeatable)
//	-test-run-id identifier stamped on OTP claims
//	-base-url Salesforce UI base URL
//	-stagger-delay per-worker login stagger (e.g. "15s")
//	-ledger claim ledger backend (dynamodb, postgres, sqlite, memory)
//	-ledger-dsn SQL ledger DSN
//	-ledger-table DynamoDB ledger table
//	-region AWS region
//	-role-arn role assumed before reading secrets
//	-otp-timeout OTP claim budget (e.g. "60s")
//	-lock-timeout account lock wait budget (e.g. "30s")
//	-lock-stale-after age after which a held lock is reclaimed
//	-session-dir directory for saved sessions
//	-headed show the browser window
//	-api-check also query the Salesforce REST API
//	-status-addr status API listen address
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("harness", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		jsonConfigPath string
		environment    string
		workers        int
		profiles       ProfileList
		testRunID      string
		baseURL        string
		staggerDelay   time.Duration
		ledgerBackend  string
		ledgerDSN      string
		ledgerTable    string
		region         string
		roleARN        string
		otpTimeout     time.Duration
		lockTimeout    time.Duration
		lockStaleAfter time.Duration
		sessionDir     string
		headed         bool
		apiCheck       bool
		statusAddr     string
	)

	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&environment, "env", "", "Target environment")
	fs.IntVar(&workers, "workers", 0, "Number of parallel workers")
	fs.Var(&profiles, "profiles", "Comma separated profile names")
	fs.StringVar(&testRunID, "test-run-id", "", "Test run identifier")
	fs.StringVar(&baseURL, "base-url", "", "Salesforce UI base URL")
	fs.DurationVar(&staggerDelay, "stagger-delay", 0, "Per-worker login stagger (e.g., 15s)")
	fs.StringVar(&ledgerBackend, "ledger", "", "Claim ledger backend")
	fs.StringVar(&ledgerDSN, "ledger-dsn", "", "SQL claim ledger DSN")
	fs.StringVar(&ledgerTable, "ledger-table", "", "DynamoDB claim ledger table")
	fs.StringVar(&region, "region", "", "AWS region")
	fs.StringVar(&roleARN, "role-arn", "", "Role assumed before reading secrets")
	fs.DurationVar(&otpTimeout, "otp-timeout", 0, "OTP claim budget (e.g., 60s)")
	fs.DurationVar(&lockTimeout, "lock-timeout", 0, "Account lock wait budget (e.g., 30s)")
	fs.DurationVar(&lockStaleAfter, "lock-stale-after", 0, "Held lock reclaim age (e.g., 10m)")
	fs.StringVar(&sessionDir, "session-dir", "", "Saved session directory")
	fs.BoolVar(&headed, "headed", false, "Show the browser window")
	fs.BoolVar(&apiCheck, "api-check", false, "Also run a Salesforce REST API query")
	fs.StringVar(&statusAddr, "status-addr", "", "Status API listen address (e.g., localhost:8089)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Run: Run{
			Environment: environment,
			Workers:     workers,
			Profiles:    profiles,
			TestRunID:   testRunID,
			APICheck:    apiCheck,
			StatusAddr:  statusAddr,
		},
		AWS: AWS{
			Region:         region,
			SecretsRoleARN: roleARN,
		},
		Ledger: Ledger{
			Backend: ledgerBackend,
			Table:   ledgerTable,
			DSN:     ledgerDSN,
		},
		Mailbox: Mailbox{
			OTPTimeout: otpTimeout,
		},
		Lock: Lock{
			Timeout:    lockTimeout,
			StaleAfter: lockStaleAfter,
		},
		Session: Session{
			Dir: sessionDir,
		},
		Login: Login{
			BaseURL:      baseURL,
			StaggerDelay: staggerDelay,
		},
		Browser: Browser{
			Headed: headed,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
