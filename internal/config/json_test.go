package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	jsonBody := `{
		"run": {"environment": "uat", "workers": 5, "profiles": ["case manager"]},
		"aws": {"region": "eu-central-1", "mailbox_secret_id": "mailbox"},
		"ledger": {"backend": "sqlite", "dsn": "file:otp.db"},
		"mailbox": {"poll_interval": "750ms", "max_results": 25, "otp_timeout": "3m"},
		"lock": {"timeout": "1m", "poll_interval": "250ms", "stale_after": "10m"},
		"session": {"dir": "/var/auth", "min_size": 512, "passphrase": "s3cret"},
		"login": {"base_url": "https://uat.lightning.force.com", "stagger_delay": "1s", "setup_markers": ["/setup"]},
		"browser": {"headed": true, "window_width": 1280},
		"salesforce": {"api_version": "v61.0"}
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "uat", cfg.Run.Environment)
	assert.Equal(t, 5, cfg.Run.Workers)
	assert.Equal(t, []string{"case manager"}, cfg.Run.Profiles)
	assert.Equal(t, "eu-central-1", cfg.AWS.Region)
	assert.Equal(t, "mailbox", cfg.AWS.MailboxSecretID)
	assert.Equal(t, "sqlite", cfg.Ledger.Backend)
	assert.Equal(t, "file:otp.db", cfg.Ledger.DSN)
	assert.Equal(t, 750*time.Millisecond, cfg.Mailbox.PollInterval)
	assert.Equal(t, 25, cfg.Mailbox.MaxResults)
	assert.Equal(t, 3*time.Minute, cfg.Mailbox.OTPTimeout)
	assert.Equal(t, time.Minute, cfg.Lock.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Lock.PollInterval)
	assert.Equal(t, 10*time.Minute, cfg.Lock.StaleAfter)
	assert.Equal(t, "/var/auth", cfg.Session.Dir)
	assert.Equal(t, int64(512), cfg.Session.MinSize)
	assert.Equal(t, "s3cret", cfg.Session.Passphrase)
	assert.Equal(t, "https://uat.lightning.force.com", cfg.Login.BaseURL)
	assert.Equal(t, time.Second, cfg.Login.StaggerDelay)
	assert.Equal(t, []string{"/setup"}, cfg.Login.SetupMarkers)
	assert.True(t, cfg.Browser.Headed)
	assert.Equal(t, 1280, cfg.Browser.WindowWidth)
	assert.Equal(t, "v61.0", cfg.Salesforce.APIVersion)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"run": `), 0o600))

	_, err := parseJSON(p)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_InvalidDuration(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad-duration.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"lock": {"timeout": "whenever"}}`), 0o600))

	_, err := parseJSON(p)

	assert.Error(t, err)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{name: "string", input: `"1m30s"`, expected: 90 * time.Second},
		{name: "nanoseconds", input: `1500000000`, expected: 1500 * time.Millisecond},
		{name: "bad string", input: `"abc"`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, time.Duration(d))
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration(1500 * time.Millisecond))
	require.NoError(t, err)
	assert.JSONEq(t, `"1.5s"`, string(b))
}
