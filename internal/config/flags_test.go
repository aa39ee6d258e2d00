package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileList_Set(t *testing.T) {
	tests := []struct {
		name        string
		inputs      []string
		expected    ProfileList
		expectError bool
	}{
		{
			name:     "single",
			inputs:   []string{"case manager"},
			expected: ProfileList{"case manager"},
		},
		{
			name:     "comma separated with blanks",
			inputs:   []string{"case manager, ,system admin"},
			expected: ProfileList{"case manager", "system admin"},
		},
		{
			name:     "repeated flag",
			inputs:   []string{"a", "b"},
			expected: ProfileList{"a", "b"},
		},
		{
			name:        "only commas",
			inputs:      []string{" , "},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p ProfileList
			var err error
			for _, in := range tt.inputs {
				err = p.Set(in)
			}

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestProfileList_String(t *testing.T) {
	p := ProfileList{"a", "b"}
	assert.Equal(t, "a,b", p.String())

	var nilList *ProfileList
	assert.Equal(t, "", nilList.String())
}

func TestParseFlags_AllFlags(t *testing.T) {
	args := []string{
		"-config", "/etc/harness.json",
		"-env", "uat",
		"-workers", "6",
		"-profiles", "case manager,system admin",
		"-test-run-id", "run_42_deadbeef",
		"-base-url", "https://uat.lightning.force.com",
		"-stagger-delay", "2s",
		"-ledger", "sqlite",
		"-ledger-dsn", "file:otp.db",
		"-ledger-table", "Claims",
		"-region", "us-east-1",
		"-role-arn", "arn:role",
		"-otp-timeout", "90s",
		"-lock-timeout", "1m",
		"-lock-stale-after", "5m",
		"-session-dir", "/tmp/sessions",
		"-headed",
		"-api-check",
		"-status-addr", "localhost:8089",
	}

	cfg, err := ParseFlags(args)
	require.NoError(t, err)

	assert.Equal(t, "/etc/harness.json", cfg.JSONFilePath)
	assert.Equal(t, "uat", cfg.Run.Environment)
	assert.Equal(t, 6, cfg.Run.Workers)
	assert.Equal(t, []string{"case manager", "system admin"}, cfg.Run.Profiles)
	assert.Equal(t, "run_42_deadbeef", cfg.Run.TestRunID)
	assert.Equal(t, "https://uat.lightning.force.com", cfg.Login.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Login.StaggerDelay)
	assert.Equal(t, "sqlite", cfg.Ledger.Backend)
	assert.Equal(t, "file:otp.db", cfg.Ledger.DSN)
	assert.Equal(t, "Claims", cfg.Ledger.Table)
	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Equal(t, "arn:role", cfg.AWS.SecretsRoleARN)
	assert.Equal(t, 90*time.Second, cfg.Mailbox.OTPTimeout)
	assert.Equal(t, time.Minute, cfg.Lock.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Lock.StaleAfter)
	assert.Equal(t, "/tmp/sessions", cfg.Session.Dir)
	assert.True(t, cfg.Browser.Headed)
	assert.True(t, cfg.Run.APICheck)
	assert.Equal(t, "localhost:8089", cfg.Run.StatusAddr)
}

func TestParseFlags_ShortConfigAlias(t *testing.T) {
	cfg, err := ParseFlags([]string{"-c", "cfg.json"})
	require.NoError(t, err)
	assert.Equal(t, "cfg.json", cfg.JSONFilePath)
}

func TestParseFlags_NoArgs(t *testing.T) {
	cfg, err := ParseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	_, err := ParseFlags([]string{"-does-not-exist"})
	assert.Error(t, err)
}

func TestParseFlags_InvalidDuration(t *testing.T) {
	_, err := ParseFlags([]string{"-otp-timeout", "forever"})
	assert.Error(t, err)
}
