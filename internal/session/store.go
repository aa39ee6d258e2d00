// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session persists browser sessions per (profile, worker) so that a
// later login can skip the credential and OTP steps.
//
// A session file is the browser storage state (cookies plus localStorage per
// origin) with a metadata block naming the profile it was saved for. Apply
// refuses a file whose metadata is missing or names another profile.
//
// With a sealer configured, files are encrypted at rest and plaintext files
// are treated as unusable.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/MKhiriev/go-sf-harness/internal/browser"
	"github.com/MKhiriev/go-sf-harness/internal/config"
	"github.com/MKhiriev/go-sf-harness/internal/crypto"
	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/internal/utils"
	"github.com/MKhiriev/go-sf-harness/models"
)

// Store reads and writes session files under a single directory.
type Store struct {
	dir     string
	minSize int64
	sealer  crypto.Sealer
	clock   utils.Clock
	logger  *logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSealer encrypts session files with sealer.
func WithSealer(sealer crypto.Sealer) Option {
	return func(s *Store) {
		s.sealer = sealer
	}
}

func NewStore(cfg config.Session, clock utils.Clock, log *logger.Logger, opts ...Option) *Store {
	minSize := cfg.MinSize
	if minSize <= 0 {
		minSize = config.DefaultSessionMinSize
	}
	s := &Store{
		dir:     cfg.Dir,
		minSize: minSize,
		clock:   clock,
		logger:  log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeProfile drops whitespace and lower-cases the profile name.
// "Case Manager" and "casemanager" name the same profile.
func NormalizeProfile(profile string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, profile))
}

// Path returns <dir>/<normalized profile>-worker<N>.json.
func (s *Store) Path(profile string, workerIndex int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s-worker%d.json", NormalizeProfile(profile), workerIndex))
}

// Exists reports whether a session file is present and larger than the
// configured minimum size.
func (s *Store) Exists(profile string, workerIndex int) bool {
	info, err := os.Stat(s.Path(profile, workerIndex))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > s.minSize
}

// ErrCorruptSession marks a session file that exists but cannot be
// unsealed or decoded.
var ErrCorruptSession = errors.New("session file is corrupt")

// Load reads the session file. A missing file yields (nil, nil); any other
// failure is returned so that callers can tell "no session" from "broken
// session".
func (s *Store) Load(profile string, workerIndex int) (*models.SessionRecord, error) {
	path := s.Path(profile, workerIndex)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session %s: %w", path, err)
	}

	if s.sealer != nil {
		if raw, err = s.sealer.Open(raw); err != nil {
			return nil, fmt.Errorf("%w: unseal %s: %w", ErrCorruptSession, path, err)
		}
	}

	var record models.SessionRecord
	if err = json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrCorruptSession, path, err)
	}
	return &record, nil
}

// Apply loads the session for (profile, worker) into driver. It returns
// false when there is nothing usable to apply; the file is left in place.
func (s *Store) Apply(ctx context.Context, driver browser.StorageDriver, profile string, workerIndex int) bool {
	log := s.logger.ForWorker(workerIndex)

	record, err := s.Load(profile, workerIndex)
	if err != nil {
		log.Warn().Err(err).Str("profile", profile).Msg("session file unusable, falling back to fresh login")
		return false
	}
	if record == nil {
		return false
	}
	if record.Metadata == nil || record.Metadata.ProfileName == "" {
		log.Warn().Str("profile", profile).Msg("session file has no metadata, refusing to apply")
		return false
	}
	if NormalizeProfile(record.Metadata.ProfileName) != NormalizeProfile(profile) {
		log.Warn().
			Str("profile", profile).
			Str("stored_profile", record.Metadata.ProfileName).
			Msg("session belongs to another profile, refusing to apply")
		return false
	}

	if err = driver.AddCookies(ctx, record.Cookies); err != nil {
		log.Warn().Err(err).Msg("inject session cookies")
		return false
	}

	for _, origin := range record.Origins {
		if origin.Origin == "" || len(origin.LocalStorage) == 0 {
			continue
		}
		if err := driver.SetOriginStorage(ctx, origin); err != nil {
			// a missing localStorage entry only costs a fresh login later
			log.Warn().Err(err).Str("origin", origin.Origin).Msg("replay local storage")
		}
	}

	log.Debug().
		Str("profile", profile).
		Str("username", record.Metadata.Username).
		Int("cookies", len(record.Cookies)).
		Msg("session applied")
	return true
}

// Save snapshots driver and overwrites the session file.
func (s *Store) Save(ctx context.Context, driver browser.StorageDriver, profile string, workerIndex int, username string) error {
	state, err := driver.StorageState(ctx)
	if err != nil {
		return fmt.Errorf("snapshot storage state: %w", err)
	}

	record := models.SessionRecord{
		StorageState: state,
		Metadata: &models.SessionMetadata{
			ProfileName: profile,
			Username:    username,
			SavedAt:     s.clock.Now().UTC(),
			WorkerIndex: workerIndex,
		},
	}
	if record.Cookies == nil {
		record.Cookies = []models.Cookie{}
	}
	if record.Origins == nil {
		record.Origins = []models.OriginStorage{}
	}

	raw, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if s.sealer != nil {
		if raw, err = s.sealer.Seal(raw); err != nil {
			return fmt.Errorf("seal session: %w", err)
		}
	}
	if err = os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	path := s.Path(profile, workerIndex)
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write session: %w", err)
	}

	s.logger.ForWorker(workerIndex).Debug().Str("path", path).Str("username", username).Msg("session saved")
	return nil
}

// Delete removes the session file. Errors are logged, never returned.
func (s *Store) Delete(profile string, workerIndex int) {
	path := s.Path(profile, workerIndex)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.ForWorker(workerIndex).Warn().Err(err).Str("path", path).Msg("delete session file")
	}
}
