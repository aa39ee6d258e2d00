// Package pages holds page objects for the Salesforce screens the harness
// drives. Only the login flow is modelled.
package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-sf-harness/internal/browser"
)

// Selectors of the standard Salesforce login and verification screens.
const (
	SelectorUsername      = "#username"
	SelectorPassword      = "#password"
	SelectorLoginButton   = "#Login"
	SelectorLoginError    = "#error"
	SelectorOTPInput      = "#emc"
	SelectorVerifyButton  = "#save"
	SelectorProfileButton = "button.branding-userProfile-button"
	SelectorLogoutLink    = "a.logout"
)

// ErrEmptyCode is returned by SubmitCode for a blank code.
var ErrEmptyCode = errors.New("verification code is empty")

// LoginPage wraps a browser tab showing the Salesforce login screen.
type LoginPage struct {
	page    browser.Page
	baseURL string
}

func NewLoginPage(page browser.Page, baseURL string) *LoginPage {
	return &LoginPage{page: page, baseURL: strings.TrimRight(baseURL, "/")}
}

// Open navigates to the login route.
func (l *LoginPage) Open(ctx context.Context) error {
	return l.page.Navigate(ctx, l.baseURL+"/")
}

// SubmitCredentials fills the form and clicks Log In.
func (l *LoginPage) SubmitCredentials(ctx context.Context, username, password string) error {
	if err := l.page.Fill(ctx, SelectorUsername, username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := l.page.Fill(ctx, SelectorPassword, password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := l.page.Click(ctx, SelectorLoginButton); err != nil {
		return fmt.Errorf("click login: %w", err)
	}
	return nil
}

// CredentialError returns the text of the login error banner. ok is false
// when no banner is shown.
func (l *LoginPage) CredentialError(ctx context.Context) (msg string, ok bool, err error) {
	visible, err := l.page.IsVisible(ctx, SelectorLoginError)
	if err != nil || !visible {
		return "", false, err
	}
	text, err := l.page.Text(ctx, SelectorLoginError)
	if err != nil {
		return "", false, err
	}
	return strings.TrimSpace(text), true, nil
}

// HasOTPChallenge waits up to timeout for the verification code input.
// A timeout is not an error: it means no challenge was issued.
func (l *LoginPage) HasOTPChallenge(ctx context.Context, timeout time.Duration) (bool, error) {
	if err := l.page.WaitVisible(ctx, SelectorOTPInput, timeout); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, nil
	}
	return true, nil
}

// SubmitCode enters a verification code and clicks Verify.
func (l *LoginPage) SubmitCode(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrEmptyCode
	}
	if err := l.page.Fill(ctx, SelectorOTPInput, code); err != nil {
		return fmt.Errorf("fill verification code: %w", err)
	}
	if err := l.page.Click(ctx, SelectorVerifyButton); err != nil {
		return fmt.Errorf("click verify: %w", err)
	}
	return nil
}

// WaitAuthenticated waits for the user profile button.
func (l *LoginPage) WaitAuthenticated(ctx context.Context, timeout time.Duration) error {
	return l.page.WaitVisible(ctx, SelectorProfileButton, timeout)
}

// Logout opens the profile menu and clicks Log Out.
func (l *LoginPage) Logout(ctx context.Context, timeout time.Duration) error {
	if err := l.page.WaitVisible(ctx, SelectorProfileButton, timeout); err != nil {
		return fmt.Errorf("profile menu: %w", err)
	}
	if err := l.page.Click(ctx, SelectorProfileButton); err != nil {
		return err
	}
	if err := l.page.Click(ctx, SelectorLogoutLink); err != nil {
		return fmt.Errorf("click logout: %w", err)
	}
	return nil
}
