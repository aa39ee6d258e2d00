package config

import "time"

// Defaults mirror the values the harness has historically run with. Every
// one of them can be overridden from env, flags or JSON.
const (
	DefaultEnvironment = "dev"
	DefaultWorkers     = 3

	DefaultRegion                  = "ap-southeast-2"
	DefaultRoleSessionName         = "playwright-test-session"
	DefaultUserCredentialsSecretID = "playwright/test-user-credentials"
	DefaultMailboxSecretID         = "playwright/gmail-otp-creds"
	DefaultSalesforceOAuthSecretID = "playwright/salesforce-oauth"

	LedgerDynamoDB = "dynamodb"
	LedgerPostgres = "postgres"
	LedgerSQLite   = "sqlite"
	LedgerMemory   = "memory"

	DefaultLedgerBackend = LedgerDynamoDB
	DefaultLedgerTable   = "OTPClaims"

	DefaultMailboxAPIBaseURL     = "https://gmail.googleapis.com"
	DefaultMailboxTokenURL       = "https://oauth2.googleapis.com/token"
	DefaultMailboxQuery          = "from:noreply@salesforce.com newer_than:1d"
	DefaultMailboxPollInterval   = 1500 * time.Millisecond
	DefaultMailboxMaxResults     = 10
	DefaultMailboxMaxErrors      = 3
	DefaultOTPTimeout            = 60 * time.Second
	DefaultMailboxRequestTimeout = 15 * time.Second

	DefaultLockTimeout      = 30 * time.Second
	DefaultLockPollInterval = 500 * time.Millisecond
	DefaultLockStaleAfter   = 10 * time.Minute

	DefaultSessionDir     = ".auth"
	DefaultSessionMinSize = 100

	DefaultHomePath               = "/lightning/page/home"
	DefaultStaggerDelay           = 15 * time.Second
	DefaultStaggerModulo          = 3
	DefaultAuthTimeout            = 60 * time.Second
	DefaultChallengeTimeout       = 10 * time.Second
	DefaultReuseValidationTimeout = 5 * time.Second

	DefaultWindowWidth  = 1920
	DefaultWindowHeight = 1080

	DefaultSalesforceLoginURL   = "https://login.salesforce.com"
	DefaultSalesforceAPIVersion = "v60.0"
)

// DefaultSetupMarkers are URL fragments of pages Salesforce redirects to
// when a session is no longer usable.
var DefaultSetupMarkers = []string{"developer-edition", "/setup"}

func (cfg *StructuredConfig) applyDefaults() {
	setDefault(&cfg.Run.Environment, DefaultEnvironment)
	setDefault(&cfg.Run.Workers, DefaultWorkers)

	setDefault(&cfg.AWS.Region, DefaultRegion)
	setDefault(&cfg.AWS.RoleSessionName, DefaultRoleSessionName)
	setDefault(&cfg.AWS.UserCredentialsSecretID, DefaultUserCredentialsSecretID)
	setDefault(&cfg.AWS.MailboxSecretID, DefaultMailboxSecretID)
	setDefault(&cfg.AWS.SalesforceOAuthSecretID, DefaultSalesforceOAuthSecretID)

	setDefault(&cfg.Ledger.Backend, DefaultLedgerBackend)
	setDefault(&cfg.Ledger.Table, DefaultLedgerTable)

	setDefault(&cfg.Mailbox.APIBaseURL, DefaultMailboxAPIBaseURL)
	setDefault(&cfg.Mailbox.TokenURL, DefaultMailboxTokenURL)
	setDefault(&cfg.Mailbox.Query, DefaultMailboxQuery)
	setDefault(&cfg.Mailbox.PollInterval, DefaultMailboxPollInterval)
	setDefault(&cfg.Mailbox.MaxResults, DefaultMailboxMaxResults)
	setDefault(&cfg.Mailbox.MaxConsecutiveErrors, DefaultMailboxMaxErrors)
	setDefault(&cfg.Mailbox.OTPTimeout, DefaultOTPTimeout)
	setDefault(&cfg.Mailbox.RequestTimeout, DefaultMailboxRequestTimeout)

	setDefault(&cfg.Lock.Timeout, DefaultLockTimeout)
	setDefault(&cfg.Lock.PollInterval, DefaultLockPollInterval)
	setDefault(&cfg.Lock.StaleAfter, DefaultLockStaleAfter)

	setDefault(&cfg.Session.Dir, DefaultSessionDir)
	setDefault(&cfg.Session.MinSize, DefaultSessionMinSize)

	setDefault(&cfg.Login.HomePath, DefaultHomePath)
	setDefault(&cfg.Login.StaggerDelay, DefaultStaggerDelay)
	setDefault(&cfg.Login.StaggerModulo, DefaultStaggerModulo)
	setDefault(&cfg.Login.AuthTimeout, DefaultAuthTimeout)
	setDefault(&cfg.Login.ChallengeTimeout, DefaultChallengeTimeout)
	setDefault(&cfg.Login.ReuseValidationTimeout, DefaultReuseValidationTimeout)
	if len(cfg.Login.SetupMarkers) == 0 {
		cfg.Login.SetupMarkers = append([]string(nil), DefaultSetupMarkers...)
	}

	setDefault(&cfg.Browser.WindowWidth, DefaultWindowWidth)
	setDefault(&cfg.Browser.WindowHeight, DefaultWindowHeight)

	setDefault(&cfg.Salesforce.LoginURL, DefaultSalesforceLoginURL)
	setDefault(&cfg.Salesforce.APIVersion, DefaultSalesforceAPIVersion)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
