// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package lock provides the in-process registry that keeps two workers from
// being logged in as the same Salesforce account at the same time.
//
// Each username is either free or held by exactly one worker. A worker that
// asks for an account held by someone else joins a FIFO queue for it and is
// handed the lock directly when the holder releases, so a released account
// can never be taken by a late arrival ahead of the queue. Locks older than
// the stale threshold are reclaimed to survive workers that die without
// running their teardown.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/internal/timeline"
	"github.com/MKhiriev/go-sf-harness/internal/utils"
	"github.com/MKhiriev/go-sf-harness/models"
)

// Defaults used when the corresponding Config field is zero.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
	DefaultStaleAfter   = 10 * time.Minute
)

// Config tunes the coordinator.
type Config struct {
	// Timeout is how long Acquire waits before failing with LockTimeoutError.
	Timeout time.Duration
	// PollInterval is how often a queued worker re-checks the lock.
	PollInterval time.Duration
	// StaleAfter is the lock age past which the holder is presumed dead.
	StaleAfter time.Duration
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = DefaultStaleAfter
	}
	return c
}

type waiter struct {
	workerIndex int
	profile     string
	wake        chan struct{}
}

// Coordinator serialises access to accounts across workers of one process.
// A single instance must be shared by every worker.
type Coordinator struct {
	mu       sync.Mutex
	locks    map[string]*models.UserLock
	byWorker map[int]string
	queues   map[string][]*waiter

	cfg      Config
	clock    utils.Clock
	log      *logger.Logger
	timeline *timeline.Recorder
}

func NewCoordinator(cfg Config, clock utils.Clock, log *logger.Logger, rec *timeline.Recorder) *Coordinator {
	if clock == nil {
		clock = utils.NewRealClock()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{
		locks:    make(map[string]*models.UserLock),
		byWorker: make(map[int]string),
		queues:   make(map[string][]*waiter),
		cfg:      cfg.withDefaults(),
		clock:    clock,
		log:      log,
		timeline: rec,
	}
}

// Acquire blocks until workerIndex holds the lock on username, the
// configured timeout elapses or ctx is done.
//
// Acquiring an account the worker already holds returns immediately.
// Acquiring a different account first releases the one the worker holds,
// since a worker drives a single browser and can only be logged in once.
func (c *Coordinator) Acquire(ctx context.Context, username string, workerIndex int, profile string) error {
	log := c.log.ForWorker(workerIndex)

	c.mu.Lock()
	if held, ok := c.byWorker[workerIndex]; ok && held != username {
		log.Info().Str("released", held).Str("username", username).Msg("switching account, releasing previous lock")
		c.releaseLocked(workerIndex)
	}

	if l, ok := c.locks[username]; ok && l.LockedByWorker == workerIndex {
		l.LockedAt = c.clock.Now()
		c.mu.Unlock()
		log.Debug().Str("username", username).Msg("user lock re-entered")
		return nil
	}

	c.reclaimIfStaleLocked(username)

	if _, ok := c.locks[username]; !ok && len(c.queues[username]) == 0 {
		c.grantLocked(username, workerIndex, profile, true)
		c.mu.Unlock()
		return nil
	}

	for _, w := range c.queues[username] {
		if w.workerIndex == workerIndex {
			c.mu.Unlock()
			return fmt.Errorf("%w: worker %d, user %q", ErrAlreadyWaiting, workerIndex, username)
		}
	}

	w := &waiter{workerIndex: workerIndex, profile: profile, wake: make(chan struct{}, 1)}
	c.queues[username] = append(c.queues[username], w)
	holder := c.holderLocked(username)
	position := len(c.queues[username])
	c.timeline.LockWait(workerIndex, username, profile, holder)
	c.mu.Unlock()

	log.Info().
		Str("username", username).
		Int("held_by", holder).
		Int("position", position).
		Msg("user is locked, queued")

	start := c.clock.Now()
	poller := utils.Poller{
		Clock:      c.clock,
		Interval:   c.cfg.PollInterval,
		Timeout:    c.cfg.Timeout,
		DelayFirst: true,
	}
	err := poller.Run(ctx, w.wake, func(_ context.Context, _ time.Duration) (bool, error) {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.reclaimIfStaleLocked(username)
		if l, ok := c.locks[username]; ok {
			return l.LockedByWorker == workerIndex, nil
		}
		// free with nobody handed the lock: only possible after the head
		// waiter gave up, so promote whoever is first now
		if q := c.queues[username]; len(q) > 0 && q[0] == w {
			c.queues[username] = q[1:]
			c.grantLocked(username, workerIndex, profile, false)
			return true, nil
		}
		return false, nil
	})
	if err == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.locks[username]; ok && l.LockedByWorker == workerIndex {
		// handed over between the last check and the deadline
		return nil
	}
	c.removeWaiterLocked(username, w)
	c.promoteIfFreeLocked(username)

	if errors.Is(err, utils.ErrPollTimeout) {
		return &LockTimeoutError{
			Username:    username,
			WorkerIndex: workerIndex,
			HeldBy:      c.holderLocked(username),
			Waited:      c.clock.Now().Sub(start),
			Timeout:     c.cfg.Timeout,
		}
	}
	return fmt.Errorf("waiting for user %q: %w", username, err)
}

// Release frees whatever account workerIndex holds and hands it to the
// first queued worker. It is a no-op when the worker holds nothing and is
// safe to call from any teardown path.
func (c *Coordinator) Release(workerIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseLocked(workerIndex)
}

// Holder returns the lock on username, if any.
func (c *Coordinator) Holder(username string) (models.UserLock, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[username]
	if !ok {
		return models.UserLock{}, false
	}
	return *l, true
}

// HeldBy returns the username workerIndex holds.
func (c *Coordinator) HeldBy(workerIndex int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	username, ok := c.byWorker[workerIndex]
	return username, ok
}

// Waiting returns the queued worker indexes for username in arrival order.
func (c *Coordinator) Waiting(username string) []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]int, 0, len(c.queues[username]))
	for _, w := range c.queues[username] {
		out = append(out, w.workerIndex)
	}
	return out
}

// Snapshot returns every held lock, ordered by username.
func (c *Coordinator) Snapshot() []models.UserLock {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.UserLock, 0, len(c.locks))
	for _, l := range c.locks {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (c *Coordinator) grantLocked(username string, workerIndex int, profile string, immediate bool) {
	c.locks[username] = &models.UserLock{
		Username:       username,
		LockedByWorker: workerIndex,
		Profile:        profile,
		LockedAt:       c.clock.Now(),
	}
	c.byWorker[workerIndex] = username
	c.timeline.LockAcquired(workerIndex, username, profile, immediate)
}

func (c *Coordinator) releaseLocked(workerIndex int) {
	username, ok := c.byWorker[workerIndex]
	if !ok {
		return
	}
	delete(c.byWorker, workerIndex)
	delete(c.locks, username)
	c.timeline.LockReleased(workerIndex, username)

	c.promoteIfFreeLocked(username)
}

// promoteIfFreeLocked hands a free lock to the head of its queue.
func (c *Coordinator) promoteIfFreeLocked(username string) {
	if _, held := c.locks[username]; held {
		return
	}
	q := c.queues[username]
	if len(q) == 0 {
		delete(c.queues, username)
		return
	}

	next := q[0]
	if len(q) == 1 {
		delete(c.queues, username)
	} else {
		c.queues[username] = q[1:]
	}
	c.grantLocked(username, next.workerIndex, next.profile, false)

	select {
	case next.wake <- struct{}{}:
	default:
	}
}

func (c *Coordinator) reclaimIfStaleLocked(username string) {
	l, ok := c.locks[username]
	if !ok {
		return
	}
	age := l.Age(c.clock.Now())
	if age <= c.cfg.StaleAfter {
		return
	}

	c.log.ForWorker(l.LockedByWorker).Warn().
		Str("username", username).
		Dur("age", age).
		Dur("stale_after", c.cfg.StaleAfter).
		Msg("reclaiming stale user lock")
	c.releaseLocked(l.LockedByWorker)
}

func (c *Coordinator) removeWaiterLocked(username string, w *waiter) {
	q := c.queues[username]
	for i, qw := range q {
		if qw == w {
			c.queues[username] = append(q[:i:i], q[i+1:]...)
			break
		}
	}
	if len(c.queues[username]) == 0 {
		delete(c.queues, username)
	}
}

func (c *Coordinator) holderLocked(username string) int {
	if l, ok := c.locks[username]; ok {
		return l.LockedByWorker
	}
	return -1
}
