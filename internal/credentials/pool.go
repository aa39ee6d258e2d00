// Package credentials maps a worker to the Salesforce account it logs in as.
//
// Rosters are fetched from the secret store once per (environment, profile)
// and kept for the life of the process, so a given worker index always gets
// the same account during a run.
package credentials

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/models"
)

// RosterFetcher loads the ordered list of accounts for a profile. A missing
// environment or profile is reported as an empty roster, not an error.
type RosterFetcher interface {
	FetchRoster(ctx context.Context, environment, profile string) ([]models.Credential, error)
}

type rosterKey struct {
	environment string
	profile     string
}

// Pool resolves credentials for workers. Safe for concurrent use.
type Pool struct {
	fetcher RosterFetcher
	log     *logger.Logger

	mu      sync.RWMutex
	rosters map[rosterKey][]models.Credential
	group   singleflight.Group
}

func NewPool(fetcher RosterFetcher, log *logger.Logger) *Pool {
	if log == nil {
		log = logger.Nop()
	}
	return &Pool{
		fetcher: fetcher,
		log:     log,
		rosters: make(map[rosterKey][]models.Credential),
	}
}

// Resolve returns roster[workerIndex mod len(roster)] for the given
// environment and profile.
func (p *Pool) Resolve(ctx context.Context, environment, profile string, workerIndex int) (models.Credential, error) {
	roster, err := p.roster(ctx, environment, profile)
	if err != nil {
		return models.Credential{}, err
	}
	if len(roster) == 0 {
		return models.Credential{}, &NotFoundError{Environment: environment, Profile: profile}
	}

	slot := workerIndex % len(roster)
	if slot < 0 {
		slot += len(roster)
	}

	cred := roster[slot]
	cred.Environment = environment
	cred.Profile = profile

	p.log.ForWorker(workerIndex).Info().
		Str("profile", profile).
		Int("slot", slot).
		Int("roster_size", len(roster)).
		Str("username", cred.Username).
		Msg("credential resolved")

	return cred, nil
}

func (p *Pool) roster(ctx context.Context, environment, profile string) ([]models.Credential, error) {
	key := rosterKey{environment: environment, profile: profile}

	p.mu.RLock()
	roster, ok := p.rosters[key]
	p.mu.RUnlock()
	if ok {
		return roster, nil
	}

	v, err, _ := p.group.Do(environment+"\x00"+profile, func() (any, error) {
		p.mu.RLock()
		cached, ok := p.rosters[key]
		p.mu.RUnlock()
		if ok {
			return cached, nil
		}

		fetched, err := p.fetcher.FetchRoster(ctx, environment, profile)
		if err != nil {
			return nil, err
		}

		fetched = append([]models.Credential(nil), fetched...)
		p.mu.Lock()
		p.rosters[key] = fetched
		p.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching roster for %s/%s: %w", environment, profile, err)
	}

	return v.([]models.Credential), nil
}
