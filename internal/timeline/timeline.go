// Package timeline records what every parallel worker did and when: which
// account it was given, how long it queued for the account lock, whether it
// reused a session, and how long it waited for an OTP.
//
// A nil *Recorder is valid and records nothing, so components can take one
// unconditionally.
package timeline

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/internal/utils"
)

// EventType classifies a timeline entry.
type EventType string

const (
	TestStart       EventType = "TEST_START"
	TestEnd         EventType = "TEST_END"
	UserLockAcquire EventType = "USER_LOCK_ACQUIRE"
	UserLockWait    EventType = "USER_LOCK_WAIT"
	UserLockRelease EventType = "USER_LOCK_RELEASE"
	SessionReuse    EventType = "SESSION_REUSE"
	FreshLogin      EventType = "FRESH_LOGIN"
	OTPClaim        EventType = "OTP_CLAIM"
	OTPWait         EventType = "OTP_WAIT"
)

// Status of an event.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
	StatusWaiting Status = "WAITING"
)

// Event is a single timeline entry.
type Event struct {
	Timestamp   time.Time `json:"timestamp"`
	WorkerIndex int       `json:"workerIndex"`
	Type        EventType `json:"eventType"`
	TestName    string    `json:"testName,omitempty"`
	Username    string    `json:"username,omitempty"`
	Profile     string    `json:"profile,omitempty"`
	Status      Status    `json:"status,omitempty"`
	Details     string    `json:"details,omitempty"`
}

// Recorder collects events from all workers.
type Recorder struct {
	mu      sync.Mutex
	clock   utils.Clock
	log     *logger.Logger
	events  []Event
	started map[int]time.Time
}

func NewRecorder(clock utils.Clock, log *logger.Logger) *Recorder {
	if clock == nil {
		clock = utils.NewRealClock()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{
		clock:   clock,
		log:     log,
		started: make(map[int]time.Time),
	}
}

func (r *Recorder) add(e Event) Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.Timestamp = r.clock.Now()
	r.events = append(r.events, e)
	return e
}

// TestStart marks the beginning of a scenario on a worker.
func (r *Recorder) TestStart(workerIndex int, testName string) {
	if r == nil {
		return
	}
	e := r.add(Event{WorkerIndex: workerIndex, Type: TestStart, TestName: testName})

	r.mu.Lock()
	r.started[workerIndex] = e.Timestamp
	r.mu.Unlock()

	r.log.ForWorker(workerIndex).Info().Str("test", testName).Msg("test started")
}

// TestEnd marks the end of a scenario and logs its duration.
func (r *Recorder) TestEnd(workerIndex int, testName string, passed bool) {
	if r == nil {
		return
	}
	status := StatusSuccess
	if !passed {
		status = StatusFailed
	}
	e := r.add(Event{WorkerIndex: workerIndex, Type: TestEnd, TestName: testName, Status: status})

	r.mu.Lock()
	start, ok := r.started[workerIndex]
	delete(r.started, workerIndex)
	r.mu.Unlock()

	var took time.Duration
	if ok {
		took = e.Timestamp.Sub(start)
	}
	r.log.ForWorker(workerIndex).Info().
		Str("test", testName).
		Str("status", string(status)).
		Dur("duration", took).
		Msg("test finished")
}

// LockAcquired records that a worker now holds the lock on username.
func (r *Recorder) LockAcquired(workerIndex int, username, profile string, immediate bool) {
	if r == nil {
		return
	}
	details := "after wait"
	if immediate {
		details = "immediate"
	}
	r.add(Event{
		WorkerIndex: workerIndex, Type: UserLockAcquire,
		Username: username, Profile: profile, Status: StatusSuccess, Details: details,
	})
	r.log.ForWorker(workerIndex).Info().
		Str("username", username).
		Str("profile", profile).
		Str("mode", details).
		Msg("user lock acquired")
}

// LockWait records that a worker was queued behind another holder.
func (r *Recorder) LockWait(workerIndex int, username, profile string, blockedBy int) {
	if r == nil {
		return
	}
	r.add(Event{
		WorkerIndex: workerIndex, Type: UserLockWait,
		Username: username, Profile: profile, Status: StatusWaiting,
		Details: fmt.Sprintf("blocked by worker %d", blockedBy),
	})
	r.log.ForWorker(workerIndex).Info().
		Str("username", username).
		Int("blocked_by", blockedBy).
		Msg("waiting for user lock")
}

// LockReleased records a lock release.
func (r *Recorder) LockReleased(workerIndex int, username string) {
	if r == nil {
		return
	}
	r.add(Event{WorkerIndex: workerIndex, Type: UserLockRelease, Username: username, Status: StatusSuccess})
	r.log.ForWorker(workerIndex).Info().Str("username", username).Msg("user lock released")
}

// SessionReused records a login satisfied from a saved session.
func (r *Recorder) SessionReused(workerIndex int, username, profile string) {
	if r == nil {
		return
	}
	r.add(Event{WorkerIndex: workerIndex, Type: SessionReuse, Username: username, Profile: profile, Status: StatusSuccess})
	r.log.ForWorker(workerIndex).Info().
		Str("username", username).
		Str("profile", profile).
		Msg("session reused")
}

// FreshLogin records a credential submission.
func (r *Recorder) FreshLogin(workerIndex int, username, profile string) {
	if r == nil {
		return
	}
	r.add(Event{WorkerIndex: workerIndex, Type: FreshLogin, Username: username, Profile: profile, Status: StatusSuccess})
	r.log.ForWorker(workerIndex).Info().
		Str("username", username).
		Str("profile", profile).
		Msg("fresh login required")
}

// OTPClaimed records a successful claim. Only the first two digits of the
// code are kept.
func (r *Recorder) OTPClaimed(workerIndex int, username, otp string, waited time.Duration) {
	if r == nil {
		return
	}
	masked := MaskOTP(otp)
	r.add(Event{
		WorkerIndex: workerIndex, Type: OTPClaim, Username: username, Status: StatusSuccess,
		Details: fmt.Sprintf("otp %s, waited %s", masked, waited.Round(time.Second)),
	})
	r.log.ForWorker(workerIndex).Info().
		Str("username", username).
		Str("otp", masked).
		Dur("waited", waited).
		Msg("otp claimed")
}

// OTPWait records one unsuccessful poll of the mailbox.
func (r *Recorder) OTPWait(workerIndex int, username string, elapsed, timeout time.Duration) {
	if r == nil {
		return
	}
	r.add(Event{
		WorkerIndex: workerIndex, Type: OTPWait, Username: username, Status: StatusWaiting,
		Details: fmt.Sprintf("%s / %s", elapsed.Round(time.Second), timeout.Round(time.Second)),
	})
	r.log.ForWorker(workerIndex).Debug().
		Str("username", username).
		Dur("elapsed", elapsed).
		Dur("timeout", timeout).
		Msg("waiting for otp")
}

// Events returns a copy of everything recorded so far in insertion order.
func (r *Recorder) Events() []Event {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Summary renders a per-worker timeline.
func (r *Recorder) Summary() string {
	events := r.Events()

	byWorker := make(map[int][]Event)
	var workers []int
	for _, e := range events {
		if _, ok := byWorker[e.WorkerIndex]; !ok {
			workers = append(workers, e.WorkerIndex)
		}
		byWorker[e.WorkerIndex] = append(byWorker[e.WorkerIndex], e)
	}
	sort.Ints(workers)

	var b strings.Builder
	b.WriteString(strings.Repeat("=", 80) + "\n")
	b.WriteString("PARALLEL EXECUTION SUMMARY\n")
	b.WriteString(strings.Repeat("=", 80) + "\n")

	for _, w := range workers {
		fmt.Fprintf(&b, "\nWORKER %d:\n", w)
		b.WriteString(strings.Repeat("-", 80) + "\n")
		for _, e := range byWorker[w] {
			line := fmt.Sprintf("  %s | %-20s | %s", e.Timestamp.UTC().Format("15:04:05"), e.Type, e.Status)
			if e.TestName != "" {
				line += " [" + e.TestName + "]"
			}
			if e.Username != "" {
				line += fmt.Sprintf(" %q", e.Username)
			}
			if e.Profile != "" {
				line += " (" + e.Profile + ")"
			}
			b.WriteString(line + "\n")
		}
	}
	b.WriteString(strings.Repeat("=", 80) + "\n")

	return b.String()
}

// ExportJSON returns all events as an indented JSON array.
func (r *Recorder) ExportJSON() ([]byte, error) {
	events := r.Events()
	if events == nil {
		events = []Event{}
	}
	return json.MarshalIndent(events, "", "  ")
}

// MaskOTP keeps the first two characters of a code.
func MaskOTP(otp string) string {
	if len(otp) <= 2 {
		return otp + "****"
	}
	return otp[:2] + "****"
}
