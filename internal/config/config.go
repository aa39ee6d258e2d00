// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container for the
// harness. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Run describes the test run itself: target environment, worker count
	// and the profiles to exercise.
	Run Run `envPrefix:"RUN_"`

	// AWS holds the region, assume-role and secret identifiers used to
	// fetch rosters and mailbox credentials.
	AWS AWS `envPrefix:"AWS_"`

	// Ledger selects and configures the OTP claim ledger backend.
	Ledger Ledger `envPrefix:"LEDGER_"`

	// Mailbox configures the shared OTP mailbox and the claim polling loop.
	Mailbox Mailbox `envPrefix:"MAILBOX_"`

	// Lock configures the per-account lock coordinator.
	Lock Lock `envPrefix:"LOCK_"`

	// Session configures where browser sessions are persisted.
	Session Session `envPrefix:"SESSION_"`

	// Login configures the login flow: target URL, stagger and bounded waits.
	Login Login `envPrefix:"LOGIN_"`

	// Browser configures the local Chrome instance.
	Browser Browser `envPrefix:"BROWSER_"`

	// Salesforce configures the REST API client used by API tests.
	Salesforce Salesforce `envPrefix:"SALESFORCE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Run holds run-wide settings.
type Run struct {
	// Environment is the roster key in the credentials secret (dev, sit, uat).
	// Env: RUN_ENVIRONMENT
	Environment string `env:"ENVIRONMENT"`

	// Workers is the number of parallel workers.
	// Env: RUN_WORKERS
	Workers int `env:"WORKERS"`

	// Profiles lists the role profiles to log in as, comma separated.
	// Env: RUN_PROFILES
	Profiles []string `env:"PROFILES"`

	// TestRunID tags every OTP claim written by this run. Generated when empty.
	// Env: RUN_TEST_RUN_ID
	TestRunID string `env:"TEST_RUN_ID"`

	// APICheck also runs a SOQL query through the Salesforce REST client.
	// Env: RUN_API_CHECK
	APICheck bool `env:"API_CHECK"`

	// StatusAddr is the listen address of the status API. Empty disables it.
	// Env: RUN_STATUS_ADDR
	StatusAddr string `env:"STATUS_ADDR"`
}

// AWS holds secret store settings.
type AWS struct {
	// Env: AWS_REGION
	Region string `env:"REGION"`

	// SecretsRoleARN is assumed via STS before reading secrets. Empty means
	// the default credential chain is used directly.
	// Env: AWS_SECRETS_ROLE_ARN
	SecretsRoleARN string `env:"SECRETS_ROLE_ARN"`

	// Env: AWS_ROLE_SESSION_NAME
	RoleSessionName string `env:"ROLE_SESSION_NAME"`

	// Env: AWS_USER_CREDENTIALS_SECRET_ID
	UserCredentialsSecretID string `env:"USER_CREDENTIALS_SECRET_ID"`

	// Env: AWS_MAILBOX_SECRET_ID
	MailboxSecretID string `env:"MAILBOX_SECRET_ID"`

	// Env: AWS_SALESFORCE_OAUTH_SECRET_ID
	SalesforceOAuthSecretID string `env:"SALESFORCE_OAUTH_SECRET_ID"`

	// EndpointURL overrides the service endpoint (LocalStack and friends).
	// Env: AWS_ENDPOINT_URL
	EndpointURL string `env:"ENDPOINT_URL"`
}

// Ledger selects the OTP claim ledger.
type Ledger struct {
	// Backend is one of dynamodb, postgres, sqlite, memory.
	// Env: LEDGER_BACKEND
	Backend string `env:"BACKEND"`

	// Table is the DynamoDB table name.
	// Env: LEDGER_TABLE
	Table string `env:"TABLE"`

	// DSN is the connection string for the SQL backends.
	// Env: LEDGER_DSN
	DSN string `env:"DSN"`
}

// Mailbox configures the Gmail adapter and the claim loop.
type Mailbox struct {
	// Env: MAILBOX_API_BASE_URL
	APIBaseURL string `env:"API_BASE_URL"`

	// Env: MAILBOX_TOKEN_URL
	TokenURL string `env:"TOKEN_URL"`

	// Query is the mailbox search expression for verification emails.
	// Env: MAILBOX_QUERY
	Query string `env:"QUERY"`

	// Env: MAILBOX_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`

	// Env: MAILBOX_MAX_RESULTS
	MaxResults int `env:"MAX_RESULTS"`

	// Env: MAILBOX_MAX_CONSECUTIVE_ERRORS
	MaxConsecutiveErrors int `env:"MAX_CONSECUTIVE_ERRORS"`

	// Env: MAILBOX_OTP_TIMEOUT
	OTPTimeout time.Duration `env:"OTP_TIMEOUT"`

	// Env: MAILBOX_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Lock configures the account lock coordinator.
type Lock struct {
	// Env: LOCK_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`

	// Env: LOCK_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`

	// StaleAfter is the age after which a held lock is reclaimed.
	// Env: LOCK_STALE_AFTER
	StaleAfter time.Duration `env:"STALE_AFTER"`
}

// Session configures session persistence.
type Session struct {
	// Env: SESSION_DIR
	Dir string `env:"DIR"`

	// MinSize is the smallest file size treated as a usable session.
	// Env: SESSION_MIN_SIZE
	MinSize int64 `env:"MIN_SIZE"`

	// Passphrase encrypts session files at rest. Empty stores them in clear.
	// Env: SESSION_PASSPHRASE
	Passphrase string `env:"PASSPHRASE"`
}

// Login configures the login flow.
type Login struct {
	// Env: LOGIN_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// HomePath is the authenticated route used to validate reused sessions.
	// Env: LOGIN_HOME_PATH
	HomePath string `env:"HOME_PATH"`

	// Env: LOGIN_STAGGER_DELAY
	StaggerDelay time.Duration `env:"STAGGER_DELAY"`

	// Env: LOGIN_STAGGER_MODULO
	StaggerModulo int `env:"STAGGER_MODULO"`

	// AuthTimeout bounds the wait for the authenticated marker after submit.
	// Env: LOGIN_AUTH_TIMEOUT
	AuthTimeout time.Duration `env:"AUTH_TIMEOUT"`

	// ChallengeTimeout bounds the wait for the verification code screen
	// after credentials are submitted.
	// Env: LOGIN_CHALLENGE_TIMEOUT
	ChallengeTimeout time.Duration `env:"CHALLENGE_TIMEOUT"`

	// ReuseValidationTimeout bounds the wait for the profile marker after a
	// session has been applied.
	// Env: LOGIN_REUSE_VALIDATION_TIMEOUT
	ReuseValidationTimeout time.Duration `env:"REUSE_VALIDATION_TIMEOUT"`

	// SetupMarkers are URL fragments that indicate a setup or onboarding
	// redirect.
	// Env: LOGIN_SETUP_MARKERS
	SetupMarkers []string `env:"SETUP_MARKERS"`
}

// Browser configures Chrome.
type Browser struct {
	// Headed shows the browser window. Headless is the default.
	// Env: BROWSER_HEADED
	Headed bool `env:"HEADED"`

	// Env: BROWSER_EXEC_PATH
	ExecPath string `env:"EXEC_PATH"`

	// Env: BROWSER_WINDOW_WIDTH
	WindowWidth int `env:"WINDOW_WIDTH"`

	// Env: BROWSER_WINDOW_HEIGHT
	WindowHeight int `env:"WINDOW_HEIGHT"`

	// ScreenshotDir receives failure screenshots. Empty disables them.
	// Env: BROWSER_SCREENSHOT_DIR
	ScreenshotDir string `env:"SCREENSHOT_DIR"`
}

// Salesforce configures the REST API client.
type Salesforce struct {
	// Env: SALESFORCE_LOGIN_URL
	LoginURL string `env:"LOGIN_URL"`

	// Env: SALESFORCE_API_VERSION
	APIVersion string `env:"API_VERSION"`

	// JWTKeyPath points at the PEM key for the JWT bearer flow.
	// Env: SALESFORCE_JWT_KEY_PATH
	JWTKeyPath string `env:"JWT_KEY_PATH"`

	// JWTUsername is the subject of the JWT bearer assertion.
	// Env: SALESFORCE_JWT_USERNAME
	JWTUsername string `env:"JWT_USERNAME"`
}

// GetStructuredConfig loads, merges, and validates the harness
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Defaults are applied to whatever is still unset after merging.
func GetStructuredConfig() (*StructuredConfig, error) {
	return Load(os.Args[1:])
}

// Load is GetStructuredConfig with explicit command-line arguments.
func Load(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
