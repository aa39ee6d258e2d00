package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func minimalConfig() *StructuredConfig {
	return &StructuredConfig{
		Run:   Run{Profiles: []string{"case manager"}},
		Login: Login{BaseURL: "https://org.lightning.force.com"},
	}
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that a config with no profiles is rejected.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidRunConfigs)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_AppliesDefaults verifies every tunable gets its documented default.
func TestBuild_AppliesDefaults(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, minimalConfig())

	cfg, err := b.build()
	require.NoError(t, err)

	assert.Equal(t, DefaultEnvironment, cfg.Run.Environment)
	assert.Equal(t, DefaultWorkers, cfg.Run.Workers)
	assert.Equal(t, DefaultRegion, cfg.AWS.Region)
	assert.Equal(t, DefaultMailboxSecretID, cfg.AWS.MailboxSecretID)
	assert.Equal(t, LedgerDynamoDB, cfg.Ledger.Backend)
	assert.Equal(t, DefaultLedgerTable, cfg.Ledger.Table)
	assert.Equal(t, 1500*time.Millisecond, cfg.Mailbox.PollInterval)
	assert.Equal(t, 10, cfg.Mailbox.MaxResults)
	assert.Equal(t, 3, cfg.Mailbox.MaxConsecutiveErrors)
	assert.Equal(t, 60*time.Second, cfg.Mailbox.OTPTimeout)
	assert.Equal(t, 30*time.Second, cfg.Lock.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Lock.PollInterval)
	assert.Equal(t, 10*time.Minute, cfg.Lock.StaleAfter)
	assert.Equal(t, ".auth", cfg.Session.Dir)
	assert.Equal(t, int64(100), cfg.Session.MinSize)
	assert.Equal(t, 15*time.Second, cfg.Login.StaggerDelay)
	assert.Equal(t, 3, cfg.Login.StaggerModulo)
	assert.Equal(t, DefaultSetupMarkers, cfg.Login.SetupMarkers)
	assert.False(t, cfg.Browser.Headed)
	assert.Equal(t, "v60.0", cfg.Salesforce.APIVersion)
}

// TestBuild_LaterSourceWins verifies that a later non-zero field overrides
// an earlier one while zero fields keep the earlier value.
func TestBuild_LaterSourceWins(t *testing.T) {
	first := minimalConfig()
	first.Run.Environment = "dev"
	first.Lock.Timeout = time.Minute

	second := &StructuredConfig{Run: Run{Environment: "uat"}}

	b := newConfigBuilder()
	b.configs = append(b.configs, first, second)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "uat", cfg.Run.Environment)
	assert.Equal(t, time.Minute, cfg.Lock.Timeout)
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StructuredConfig)
		wantErr error
	}{
		{
			name:    "unknown ledger",
			mutate:  func(c *StructuredConfig) { c.Ledger.Backend = "redis" },
			wantErr: ErrInvalidLedgerConfigs,
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *StructuredConfig) { c.Ledger.Backend = LedgerPostgres },
			wantErr: ErrInvalidLedgerConfigs,
		},
		{
			name:    "missing base url",
			mutate:  func(c *StructuredConfig) { c.Login.BaseURL = "" },
			wantErr: ErrInvalidLoginConfigs,
		},
		{
			name:    "negative lock timeout",
			mutate:  func(c *StructuredConfig) { c.Lock.Timeout = -time.Second },
			wantErr: ErrInvalidLockConfigs,
		},
		{
			name:    "negative otp timeout",
			mutate:  func(c *StructuredConfig) { c.Mailbox.OTPTimeout = -time.Second },
			wantErr: ErrInvalidMailboxConfigs,
		},
		{
			name:    "negative workers",
			mutate:  func(c *StructuredConfig) { c.Run.Workers = -1 },
			wantErr: ErrInvalidRunConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := minimalConfig()
			tt.mutate(cfg)

			b := newConfigBuilder()
			b.configs = append(b.configs, cfg)

			_, err := b.build()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ── withEnv ───────────────────────────────────────────────────────────────────

func TestWithEnv_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())
}

func TestWithEnv_ReadsEnvVars(t *testing.T) {
	t.Setenv("RUN_ENVIRONMENT", "env-sit")
	t.Setenv("LOGIN_BASE_URL", "https://env.lightning.force.com")

	b := newConfigBuilder()
	b.withEnv()

	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-sit", b.configs[0].Run.Environment)
	assert.Equal(t, "https://env.lightning.force.com", b.configs[0].Login.BaseURL)
}

func TestWithEnv_CollectsError(t *testing.T) {
	t.Setenv("LOCK_TIMEOUT", "not-a-duration")

	b := newConfigBuilder().withEnv()

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

func TestWithFlags_AppendsParsedFlags(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withFlags([]string{"-env", "flag-env"}))

	require.Len(t, b.configs, 1)
	assert.Equal(t, "flag-env", b.configs[0].Run.Environment)
}

func TestWithFlags_CollectsError(t *testing.T) {
	b := newConfigBuilder().withFlags([]string{"-bogus"})
	assert.Error(t, b.err)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	assert.Same(t, b, b.withJSON())

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.Run.Environment = "json-env"
	payload.Lock.Timeout = Duration(2 * time.Minute)
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "json-env", b.configs[1].Run.Environment)
	assert.Equal(t, 2*time.Minute, b.configs[1].Lock.Timeout)
}

func TestWithJSON_SetsError_WhenFileMissing(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/nonexistent/config.json"})
	b.withJSON()

	assert.Error(t, b.err)
	assert.Len(t, b.configs, 1)
}

// ── Load ──────────────────────────────────────────────────────────────────────

// TestLoad_Priority verifies env < flags < JSON.
func TestLoad_Priority(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.Run.Workers = 7
	path := writeTempJSONConfig(t, payload)

	t.Setenv("RUN_ENVIRONMENT", "env-value")
	t.Setenv("RUN_WORKERS", "2")
	t.Setenv("RUN_PROFILES", "case manager")
	t.Setenv("LOGIN_BASE_URL", "https://env.lightning.force.com")
	t.Setenv("LEDGER_BACKEND", "memory")

	cfg, err := Load([]string{"-env", "flag-value", "-workers", "4", "-c", path})
	require.NoError(t, err)

	assert.Equal(t, "flag-value", cfg.Run.Environment)
	assert.Equal(t, 7, cfg.Run.Workers)
	assert.Equal(t, []string{"case manager"}, cfg.Run.Profiles)
	assert.Equal(t, LedgerMemory, cfg.Ledger.Backend)
}
