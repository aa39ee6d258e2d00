// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Credential is a single Salesforce account taken from a roster.
//
// Credentials are loaded once per test run from the secret store and are
// never mutated afterwards. Environment and Profile are stamped by the
// credential pool so that log lines and session metadata can always be
// traced back to the roster the account came from.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`

	Environment string `json:"-"`
	Profile     string `json:"-"`

	// AllowSessionReuse is a pointer so that a roster entry without the
	// field keeps the default (reuse allowed).
	AllowSessionReuse *bool `json:"allowSessionReuse,omitempty"`
}

// SessionReuseAllowed reports whether a saved browser session may be
// replayed for this account. Missing flag means allowed.
func (c Credential) SessionReuseAllowed() bool {
	if c.AllowSessionReuse == nil {
		return true
	}
	return *c.AllowSessionReuse
}

// MailboxSecrets are the OAuth client and refresh token used to read the
// shared verification-code inbox.
type MailboxSecrets struct {
	ClientID     string `json:"gmailClientId"`
	ClientSecret string `json:"gmailClientSecret"`
	RefreshToken string `json:"gmailRefreshToken"`
}

// SalesforceOAuth holds connected-app credentials used by API tests.
type SalesforceOAuth struct {
	ClientID     string `json:"salesforceClientId"`
	ClientSecret string `json:"salesforceClientSecret"`
	OrgURL       string `json:"salesforceOrgUrl"`
}
