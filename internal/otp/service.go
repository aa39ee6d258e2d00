// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package otp claims Salesforce verification codes from the shared mailbox.
//
// Every worker polls the same inbox. A message is usable by a worker only
// if it arrived after that worker submitted its login and names the
// worker's username; among usable messages the claim ledger decides the
// winner, so a code is handed to at most one worker across the fleet.
package otp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-sf-harness/internal/adapter"
	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/internal/store"
	"github.com/MKhiriev/go-sf-harness/internal/timeline"
	"github.com/MKhiriev/go-sf-harness/internal/utils"
	"github.com/MKhiriev/go-sf-harness/models"
)

const (
	DefaultPollInterval         = 1500 * time.Millisecond
	DefaultTimeout              = 60 * time.Second
	DefaultMaxResults           = 10
	DefaultMaxConsecutiveErrors = 3
)

// Config tunes the claim loop. Zero values take the defaults above.
type Config struct {
	Query                string
	PollInterval         time.Duration
	Timeout              time.Duration
	MaxResults           int
	MaxConsecutiveErrors int
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.MaxConsecutiveErrors <= 0 {
		c.MaxConsecutiveErrors = DefaultMaxConsecutiveErrors
	}
	return c
}

// MailboxFactory opens a mailbox for a set of OAuth secrets.
type MailboxFactory func(secrets models.MailboxSecrets) (adapter.Mailbox, error)

// Service is safe for concurrent use by all workers. Mailboxes are opened
// once per distinct secret so workers share one access token.
type Service struct {
	cfg      Config
	open     MailboxFactory
	ledger   store.ClaimLedger
	clock    utils.Clock
	timeline *timeline.Recorder
	log      *logger.Logger

	mu        sync.Mutex
	mailboxes map[models.MailboxSecrets]adapter.Mailbox
}

func NewService(cfg Config, open MailboxFactory, ledger store.ClaimLedger, clock utils.Clock, rec *timeline.Recorder, log *logger.Logger) *Service {
	if clock == nil {
		clock = utils.NewRealClock()
	}
	return &Service{
		cfg:       cfg.withDefaults(),
		open:      open,
		ledger:    ledger,
		clock:     clock,
		timeline:  rec,
		log:       log,
		mailboxes: make(map[models.MailboxSecrets]adapter.Mailbox),
	}
}

// claimStats tracks distinct message ids across all polls of one claim.
type claimStats struct {
	seen    map[string]struct{}
	matched map[string]struct{}
	lost    map[string]struct{}

	// consecutive ledger write failures, reset by any decisive write
	ledgerFailures int
	lastLedgerErr  error
}

func newClaimStats() *claimStats {
	return &claimStats{
		seen:    make(map[string]struct{}),
		matched: make(map[string]struct{}),
		lost:    make(map[string]struct{}),
	}
}

// Claim polls the mailbox until a code addressed to req.ExpectedUsername,
// received at or after req.LoginSubmittedAt, is won in the ledger.
//
// Errors: ErrInvalidRequest, adapter.ErrMailboxAuth (immediately),
// adapter.ErrMailboxTransient (after MaxConsecutiveErrors failed list calls
// in a row), ErrClaimLedger (after MaxConsecutiveErrors failed ledger writes
// in a row), *OtpTimeoutError, or the context error.
func (s *Service) Claim(ctx context.Context, req models.OTPClaimRequest) (string, error) {
	if req.TestRunID == "" {
		return "", fmt.Errorf("%w: test run id is required", ErrInvalidRequest)
	}
	if req.ExpectedUsername == "" {
		return "", fmt.Errorf("%w: expected username is required for shared inbox matching", ErrInvalidRequest)
	}

	mb, err := s.mailbox(req.Mailbox)
	if err != nil {
		return "", err
	}

	query := req.Query
	if query == "" {
		query = s.cfg.Query
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = s.cfg.Timeout
	}

	log := s.log.ForWorker(req.WorkerIndex)
	log.Info().
		Str("test_run_id", req.TestRunID).
		Str("username", req.ExpectedUsername).
		Time("login_submitted_at", req.LoginSubmittedAt).
		Msg("fetching otp from shared inbox")

	var (
		code              string
		consecutiveErrors int
		stats             = newClaimStats()
		start             = s.clock.Now()
	)

	poller := utils.Poller{
		Clock:      s.clock,
		Interval:   s.cfg.PollInterval,
		Timeout:    timeout,
		DelayFirst: true,
	}
	err = poller.Run(ctx, nil, func(ctx context.Context, elapsed time.Duration) (bool, error) {
		refs, err := mb.ListMessages(ctx, query, s.cfg.MaxResults)
		if err != nil {
			if errors.Is(err, adapter.ErrMailboxAuth) {
				return false, err
			}
			consecutiveErrors++
			log.Warn().Err(err).
				Int("attempt", consecutiveErrors).
				Int("max_attempts", s.cfg.MaxConsecutiveErrors).
				Msg("mailbox list failed")
			if consecutiveErrors >= s.cfg.MaxConsecutiveErrors {
				return false, fmt.Errorf("%w: %d consecutive mailbox failures: %w",
					adapter.ErrMailboxTransient, consecutiveErrors, err)
			}
			return false, nil
		}
		consecutiveErrors = 0

		got, ok, err := s.claimFirst(ctx, log, mb, refs, req, stats)
		if err != nil {
			return false, err
		}
		if ok {
			code = got
			return true, nil
		}

		s.timeline.OTPWait(req.WorkerIndex, req.ExpectedUsername, elapsed, timeout)
		return false, nil
	})

	waited := s.clock.Now().Sub(start)
	switch {
	case err == nil:
		s.timeline.OTPClaimed(req.WorkerIndex, req.ExpectedUsername, code, waited)
		return code, nil
	case errors.Is(err, utils.ErrPollTimeout):
		return "", &OtpTimeoutError{
			Username: req.ExpectedUsername,
			Elapsed:  waited,
			Timeout:  timeout,
			Seen:     len(stats.seen),
			Matched:  len(stats.matched),
			Lost:     len(stats.lost),
			LastErr:  stats.lastLedgerErr,
		}
	case errors.Is(err, adapter.ErrMailboxAuth):
		log.Error().Err(err).Msg("mailbox refresh token is invalid or expired")
		return "", err
	default:
		return "", err
	}
}

// claimFirst walks one poll's candidates in mailbox order and returns the
// first code this worker wins.
func (s *Service) claimFirst(ctx context.Context, log *logger.Logger, mb adapter.Mailbox, refs []models.MessageRef, req models.OTPClaimRequest, stats *claimStats) (string, bool, error) {
	for _, ref := range refs {
		if ref.ID == "" {
			continue
		}
		if _, lost := stats.lost[ref.ID]; lost {
			continue
		}

		msg, err := mb.GetMessage(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, adapter.ErrMailboxAuth) {
				return "", false, err
			}
			log.Warn().Err(err).Str("message_id", ref.ID).Msg("failed to fetch message")
			continue
		}
		if strings.TrimSpace(msg.Body) == "" {
			continue
		}
		stats.seen[ref.ID] = struct{}{}

		if msg.ReceivedAt.Before(req.LoginSubmittedAt) {
			log.Debug().Str("message_id", ref.ID).Time("received_at", msg.ReceivedAt).Msg("message predates login, skipping")
			continue
		}
		code, ok := extractCode(msg.Body)
		if !ok {
			log.Debug().Str("message_id", ref.ID).Msg("message has no 6-digit code, skipping")
			continue
		}
		username, ok := extractUsername(msg.Body)
		if !ok {
			log.Debug().Str("message_id", ref.ID).Msg("message has no username marker, skipping")
			continue
		}
		if username != req.ExpectedUsername {
			log.Debug().Str("message_id", ref.ID).Str("addressed_to", username).Msg("message is for another user, skipping")
			continue
		}
		stats.matched[ref.ID] = struct{}{}

		err = s.ledger.PutIfAbsent(ctx, models.OtpClaimRecord{
			MessageID:        ref.ID,
			TestRunID:        req.TestRunID,
			OTP:              code,
			Username:         username,
			ClaimedAt:        s.clock.Now(),
			MessageTimestamp: msg.ReceivedAt,
		})
		if errors.Is(err, store.ErrClaimConflict) {
			stats.ledgerFailures = 0
			stats.lost[ref.ID] = struct{}{}
			log.Info().Str("message_id", ref.ID).Msg("code already claimed by another worker, trying next")
			continue
		}
		if err != nil {
			err = fmt.Errorf("%w: message %s user %q: %w", ErrClaimLedger, ref.ID, username, err)
			stats.ledgerFailures++
			stats.lastLedgerErr = err
			log.Warn().Err(err).
				Int("attempt", stats.ledgerFailures).
				Int("max_attempts", s.cfg.MaxConsecutiveErrors).
				Msg("claim ledger write failed")
			if stats.ledgerFailures >= s.cfg.MaxConsecutiveErrors {
				return "", false, err
			}
			continue
		}

		log.Info().Str("message_id", ref.ID).Str("otp", timeline.MaskOTP(code)).Msg("claimed otp")
		return code, true, nil
	}
	return "", false, nil
}

func (s *Service) mailbox(secrets models.MailboxSecrets) (adapter.Mailbox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mb, ok := s.mailboxes[secrets]; ok {
		return mb, nil
	}
	mb, err := s.open(secrets)
	if err != nil {
		return nil, err
	}
	s.mailboxes[secrets] = mb
	return mb, nil
}
