package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Run struct {
		Environment string   `json:"environment"`
		Workers     int      `json:"workers"`
		Profiles    []string `json:"profiles"`
		TestRunID   string   `json:"test_run_id"`
		APICheck    bool     `json:"api_check"`
		StatusAddr  string   `json:"status_addr"`
	} `json:"run,omitempty"`

	AWS struct {
		Region                  string `json:"region"`
		SecretsRoleARN          string `json:"secrets_role_arn"`
		RoleSessionName         string `json:"role_session_name"`
		UserCredentialsSecretID string `json:"user_credentials_secret_id"`
		MailboxSecretID         string `json:"mailbox_secret_id"`
		SalesforceOAuthSecretID string `json:"salesforce_oauth_secret_id"`
		EndpointURL             string `json:"endpoint_url"`
	} `json:"aws,omitempty"`

	Ledger struct {
		Backend string `json:"backend"`
		Table   string `json:"table"`
		DSN     string `json:"dsn"`
	} `json:"ledger,omitempty"`

	Mailbox struct {
		APIBaseURL           string   `json:"api_base_url"`
		TokenURL             string   `json:"token_url"`
		Query                string   `json:"query"`
		PollInterval         Duration `json:"poll_interval"`
		MaxResults           int      `json:"max_results"`
		MaxConsecutiveErrors int      `json:"max_consecutive_errors"`
		OTPTimeout           Duration `json:"otp_timeout"`
		RequestTimeout       Duration `json:"request_timeout"`
	} `json:"mailbox,omitempty"`

	Lock struct {
		Timeout      Duration `json:"timeout"`
		PollInterval Duration `json:"poll_interval"`
		StaleAfter   Duration `json:"stale_after"`
	} `json:"lock,omitempty"`

	Session struct {
		Dir        string `json:"dir"`
		MinSize    int64  `json:"min_size"`
		Passphrase string `json:"passphrase"`
	} `json:"session,omitempty"`

	Login struct {
		BaseURL                string   `json:"base_url"`
		HomePath               string   `json:"home_path"`
		StaggerDelay           Duration `json:"stagger_delay"`
		StaggerModulo          int      `json:"stagger_modulo"`
		AuthTimeout            Duration `json:"auth_timeout"`
		ChallengeTimeout       Duration `json:"challenge_timeout"`
		ReuseValidationTimeout Duration `json:"reuse_validation_timeout"`
		SetupMarkers           []string `json:"setup_markers"`
	} `json:"login,omitempty"`

	Browser struct {
		Headed        bool   `json:"headed"`
		ExecPath      string `json:"exec_path"`
		WindowWidth   int    `json:"window_width"`
		WindowHeight  int    `json:"window_height"`
		ScreenshotDir string `json:"screenshot_dir"`
	} `json:"browser,omitempty"`

	Salesforce struct {
		LoginURL    string `json:"login_url"`
		APIVersion  string `json:"api_version"`
		JWTKeyPath  string `json:"jwt_key_path"`
		JWTUsername string `json:"jwt_username"`
	} `json:"salesforce,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Run: Run{
			Environment: jsonCfg.Run.Environment,
			Workers:     jsonCfg.Run.Workers,
			Profiles:    jsonCfg.Run.Profiles,
			TestRunID:   jsonCfg.Run.TestRunID,
			APICheck:    jsonCfg.Run.APICheck,
			StatusAddr:  jsonCfg.Run.StatusAddr,
		},
		AWS: AWS{
			Region:                  jsonCfg.AWS.Region,
			SecretsRoleARN:          jsonCfg.AWS.SecretsRoleARN,
			RoleSessionName:         jsonCfg.AWS.RoleSessionName,
			UserCredentialsSecretID: jsonCfg.AWS.UserCredentialsSecretID,
			MailboxSecretID:         jsonCfg.AWS.MailboxSecretID,
			SalesforceOAuthSecretID: jsonCfg.AWS.SalesforceOAuthSecretID,
			EndpointURL:             jsonCfg.AWS.EndpointURL,
		},
		Ledger: Ledger{
			Backend: jsonCfg.Ledger.Backend,
			Table:   jsonCfg.Ledger.Table,
			DSN:     jsonCfg.Ledger.DSN,
		},
		Mailbox: Mailbox{
			APIBaseURL:           jsonCfg.Mailbox.APIBaseURL,
			TokenURL:             jsonCfg.Mailbox.TokenURL,
			Query:                jsonCfg.Mailbox.Query,
			PollInterval:         time.Duration(jsonCfg.Mailbox.PollInterval),
			MaxResults:           jsonCfg.Mailbox.MaxResults,
			MaxConsecutiveErrors: jsonCfg.Mailbox.MaxConsecutiveErrors,
			OTPTimeout:           time.Duration(jsonCfg.Mailbox.OTPTimeout),
			RequestTimeout:       time.Duration(jsonCfg.Mailbox.RequestTimeout),
		},
		Lock: Lock{
			Timeout:      time.Duration(jsonCfg.Lock.Timeout),
			PollInterval: time.Duration(jsonCfg.Lock.PollInterval),
			StaleAfter:   time.Duration(jsonCfg.Lock.StaleAfter),
		},
		Session: Session{
			Dir:        jsonCfg.Session.Dir,
			MinSize:    jsonCfg.Session.MinSize,
			Passphrase: jsonCfg.Session.Passphrase,
		},
		Login: Login{
			BaseURL:                jsonCfg.Login.BaseURL,
			HomePath:               jsonCfg.Login.HomePath,
			StaggerDelay:           time.Duration(jsonCfg.Login.StaggerDelay),
			StaggerModulo:          jsonCfg.Login.StaggerModulo,
			AuthTimeout:            time.Duration(jsonCfg.Login.AuthTimeout),
			ChallengeTimeout:       time.Duration(jsonCfg.Login.ChallengeTimeout),
			ReuseValidationTimeout: time.Duration(jsonCfg.Login.ReuseValidationTimeout),
			SetupMarkers:           jsonCfg.Login.SetupMarkers,
		},
		Browser: Browser{
			Headed:        jsonCfg.Browser.Headed,
			ExecPath:      jsonCfg.Browser.ExecPath,
			WindowWidth:   jsonCfg.Browser.WindowWidth,
			WindowHeight:  jsonCfg.Browser.WindowHeight,
			ScreenshotDir: jsonCfg.Browser.ScreenshotDir,
		},
		Salesforce: Salesforce{
			LoginURL:    jsonCfg.Salesforce.LoginURL,
			APIVersion:  jsonCfg.Salesforce.APIVersion,
			JWTKeyPath:  jsonCfg.Salesforce.JWTKeyPath,
			JWTUsername: jsonCfg.Salesforce.JWTUsername,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
