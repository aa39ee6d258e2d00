// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/go-sf-harness/internal/browser"
	"github.com/MKhiriev/go-sf-harness/internal/config"
	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/internal/pages"
	"github.com/MKhiriev/go-sf-harness/internal/timeline"
	"github.com/MKhiriev/go-sf-harness/internal/utils"
	"github.com/MKhiriev/go-sf-harness/models"
)

// Dependencies are the collaborators of LoginOrchestrator.
type Dependencies struct {
	Credentials    CredentialResolver
	Locks          AccountLocker
	Sessions       SessionStore
	MailboxSecrets MailboxSecretsFetcher
	OTP            OTPClaimer
}

// LoginOrchestrator turns a (environment, profile, worker) triple into an
// authenticated browser page. It reuses a saved session when possible and
// falls back to a credential login with an optional email code.
//
// The account lock taken by Login is held until Release is called, which
// the caller must do on every teardown path.
type LoginOrchestrator struct {
	deps            Dependencies
	cfg             config.Login
	mailboxSecretID string
	testRunID       string
	screenshotDir   string

	clock    utils.Clock
	timeline *timeline.Recorder
	logger   *logger.Logger
}

func NewLoginOrchestrator(deps Dependencies, cfg config.StructuredConfig, clock utils.Clock, rec *timeline.Recorder, log *logger.Logger) *LoginOrchestrator {
	testRunID := cfg.Run.TestRunID
	if testRunID == "" {
		testRunID = utils.NewTestRunID(clock.Now())
	}
	return &LoginOrchestrator{
		deps:            deps,
		cfg:             cfg.Login,
		mailboxSecretID: cfg.AWS.MailboxSecretID,
		testRunID:       testRunID,
		screenshotDir:   cfg.Browser.ScreenshotDir,
		clock:           clock,
		timeline:        rec,
		logger:          log,
	}
}

// TestRunID returns the id OTP claims are tagged with by default.
func (o *LoginOrchestrator) TestRunID() string {
	return o.testRunID
}

// attempt carries the state of one Login call.
type attempt struct {
	req    LoginRequest
	cred   models.Credential
	result LoginResult
	log    *logger.Logger
}

func (a *attempt) enter(s State) {
	a.result.State = s
	a.result.Trace = append(a.result.Trace, s)
	a.log.Debug().Str("state", string(s)).Msg("login state")
}

func (o *LoginOrchestrator) fail(ctx context.Context, page browser.Page, a *attempt, err error) (LoginResult, error) {
	a.log.Error().Err(err).
		Str("state", string(a.result.State)).
		Time("submitted_at", a.result.SubmittedAt).
		Msg("login failed")

	if o.screenshotDir != "" && page != nil {
		name := fmt.Sprintf("login-worker%d-%d.png", a.req.WorkerIndex, o.clock.Now().UnixMilli())
		if shotErr := page.Screenshot(context.WithoutCancel(ctx), filepath.Join(o.screenshotDir, name)); shotErr != nil {
			a.log.Warn().Err(shotErr).Msg("failure screenshot")
		}
	}

	return a.result, &LoginError{
		WorkerIndex: a.req.WorkerIndex,
		Username:    a.cred.Username,
		State:       a.result.State,
		SubmittedAt: a.result.SubmittedAt,
		Err:         err,
	}
}

// Login authenticates page as an account of req.Profile.
//
// A rejected password is not an error: the result carries
// StateCredentialError and the page's message. Every other failure is
// returned as *LoginError wrapping the cause.
func (o *LoginOrchestrator) Login(ctx context.Context, page browser.Page, req LoginRequest) (LoginResult, error) {
	a := &attempt{req: req, log: o.logger.ForWorker(req.WorkerIndex)}
	a.enter(StateStart)

	if req.Environment == "" || req.Profile == "" || req.WorkerIndex < 0 || page == nil {
		return o.fail(ctx, nil, a, ErrInvalidLoginRequest)
	}
	// a worker may only log in on its own slot
	if idx, ok := utils.GetWorkerIndexFromContext(ctx); ok && idx != req.WorkerIndex {
		return o.fail(ctx, nil, a, fmt.Errorf("%w: worker %d asked for slot %d", ErrInvalidLoginRequest, idx, req.WorkerIndex))
	}

	cred, err := o.deps.Credentials.Resolve(ctx, req.Environment, req.Profile, req.WorkerIndex)
	if err != nil {
		return o.fail(ctx, nil, a, err)
	}
	a.cred = cred
	a.result.Username = cred.Username
	a.log = &logger.Logger{Logger: a.log.With().Str("username", cred.Username).Str("profile", req.Profile).Logger()}
	a.enter(StateCredentialsResolved)

	if err = o.deps.Locks.Acquire(ctx, cred.Username, req.WorkerIndex, req.Profile); err != nil {
		return o.fail(ctx, nil, a, err)
	}
	a.enter(StateLockAcquired)

	reuse := cred.SessionReuseAllowed() && !req.DisableSessionReuse
	if reuse && o.tryReuse(ctx, page, a) {
		a.enter(StateSessionReused)
		a.result.SessionReused = true
		o.timeline.SessionReused(req.WorkerIndex, cred.Username, req.Profile)
		a.enter(StateAuthenticated)
		a.log.Info().Msg("reused saved session")
		return a.result, nil
	}

	if err = o.freshLogin(ctx, page, a); err != nil {
		return o.fail(ctx, page, a, err)
	}
	if a.result.State == StateCredentialError {
		return a.result, nil
	}

	if reuse {
		if err = o.deps.Sessions.Save(ctx, page, req.Profile, req.WorkerIndex, cred.Username); err != nil {
			a.log.Warn().Err(err).Msg("save session")
		}
	}
	a.log.Info().Dur("since_submit", o.clock.Now().Sub(a.result.SubmittedAt)).Msg("logged in")
	return a.result, nil
}

// tryReuse applies the saved session and checks it still opens the home
// page. A stale session file is deleted.
func (o *LoginOrchestrator) tryReuse(ctx context.Context, page browser.Page, a *attempt) bool {
	profile, worker := a.req.Profile, a.req.WorkerIndex

	if !o.deps.Sessions.Exists(profile, worker) {
		return false
	}
	if !o.deps.Sessions.Apply(ctx, page, profile, worker) {
		a.log.Info().Msg("saved session not applicable, logging in")
		return false
	}

	if err := page.Navigate(ctx, o.homeURL()); err != nil {
		a.log.Warn().Err(err).Msg("open home with saved session")
		return false
	}

	current, err := page.URL(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("read current url")
		return false
	}
	if o.isSetupRedirect(current) {
		a.log.Info().Str("url", current).Msg("saved session redirected to setup, discarding")
		o.deps.Sessions.Delete(profile, worker)
		return false
	}

	if err = page.WaitVisible(ctx, pages.SelectorProfileButton, o.cfg.ReuseValidationTimeout); err != nil {
		if ctx.Err() != nil {
			return false
		}
		a.log.Info().Msg("saved session is stale, discarding")
		o.deps.Sessions.Delete(profile, worker)
		return false
	}
	return true
}

func (o *LoginOrchestrator) freshLogin(ctx context.Context, page browser.Page, a *attempt) error {
	req, cred := a.req, a.cred
	login := pages.NewLoginPage(page, o.cfg.BaseURL)

	if err := page.ClearStorage(ctx); err != nil {
		return fmt.Errorf("clear browser storage: %w", err)
	}
	if err := o.stagger(ctx, a); err != nil {
		return err
	}
	if err := login.Open(ctx); err != nil {
		return err
	}

	o.timeline.FreshLogin(req.WorkerIndex, cred.Username, req.Profile)

	// taken before the click so a code sent in response is never older
	a.result.SubmittedAt = o.clock.Now()
	if err := login.SubmitCredentials(ctx, cred.Username, cred.Password); err != nil {
		return err
	}
	a.enter(StateFreshLoginSubmitted)

	if done, err := o.checkCredentialError(ctx, login, a); done || err != nil {
		return err
	}

	challenged, err := login.HasOTPChallenge(ctx, o.cfg.ChallengeTimeout)
	if err != nil {
		return err
	}
	if challenged {
		a.enter(StateOTPChallenge)
		if err = o.answerChallenge(ctx, login, a); err != nil {
			return err
		}
	} else if done, err := o.checkCredentialError(ctx, login, a); done || err != nil {
		return err
	}

	if err = login.WaitAuthenticated(ctx, o.cfg.AuthTimeout); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	a.enter(StateAuthenticated)
	return nil
}

func (o *LoginOrchestrator) checkCredentialError(ctx context.Context, login *pages.LoginPage, a *attempt) (bool, error) {
	msg, shown, err := login.CredentialError(ctx)
	if err != nil {
		return false, fmt.Errorf("read login error: %w", err)
	}
	if !shown {
		return false, nil
	}
	a.result.CredentialError = msg
	a.enter(StateCredentialError)
	a.log.Warn().Str("message", msg).Msg("credentials rejected")
	return true, nil
}

func (o *LoginOrchestrator) answerChallenge(ctx context.Context, login *pages.LoginPage, a *attempt) error {
	secrets, err := o.deps.MailboxSecrets.FetchMailboxSecrets(ctx, o.mailboxSecretID)
	if err != nil {
		return fmt.Errorf("mailbox secrets: %w", err)
	}

	testRunID := a.req.TestRunID
	if testRunID == "" {
		testRunID = o.testRunID
	}
	code, err := o.deps.OTP.Claim(ctx, models.OTPClaimRequest{
		TestRunID:        testRunID,
		Mailbox:          secrets,
		LoginSubmittedAt: a.result.SubmittedAt,
		ExpectedUsername: a.cred.Username,
		WorkerIndex:      a.req.WorkerIndex,
	})
	if err != nil {
		return err
	}
	a.enter(StateOTPClaimed)

	return login.SubmitCode(ctx, code)
}

// stagger spaces out fresh logins of workers that start together:
// worker N waits (N mod K) * delay.
func (o *LoginOrchestrator) stagger(ctx context.Context, a *attempt) error {
	delay := StaggerDelay(a.req.WorkerIndex, o.cfg.StaggerModulo, o.cfg.StaggerDelay)
	if delay <= 0 {
		return nil
	}
	a.log.Debug().Dur("delay", delay).Msg("staggering fresh login")
	return utils.Sleep(ctx, o.clock, delay)
}

// StaggerDelay returns (workerIndex mod modulo) * delay.
func StaggerDelay(workerIndex, modulo int, delay time.Duration) time.Duration {
	if modulo < 1 || workerIndex < 0 {
		return 0
	}
	return time.Duration(workerIndex%modulo) * delay
}

// Release frees the account lock held by workerIndex. Safe to call when
// nothing is held.
func (o *LoginOrchestrator) Release(workerIndex int) {
	o.deps.Locks.Release(workerIndex)
}

// Logout signs the page out and forgets the saved session of
// (req.Profile, req.WorkerIndex). The session file is removed even when
// the UI logout fails.
func (o *LoginOrchestrator) Logout(ctx context.Context, page browser.Page, req LoginRequest) error {
	defer o.deps.Sessions.Delete(req.Profile, req.WorkerIndex)

	if err := pages.NewLoginPage(page, o.cfg.BaseURL).Logout(ctx, o.cfg.ReuseValidationTimeout); err != nil {
		return fmt.Errorf("logout worker %d: %w", req.WorkerIndex, err)
	}
	o.logger.ForWorker(req.WorkerIndex).Info().Str("profile", req.Profile).Msg("logged out")
	return nil
}

func (o *LoginOrchestrator) homeURL() string {
	return strings.TrimRight(o.cfg.BaseURL, "/") + "/" + strings.TrimLeft(o.cfg.HomePath, "/")
}

func (o *LoginOrchestrator) isSetupRedirect(url string) bool {
	for _, marker := range o.cfg.SetupMarkers {
		if marker != "" && strings.Contains(url, marker) {
			return true
		}
	}
	return false
}
