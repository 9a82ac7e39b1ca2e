// Package runner owns the countdown's mutable state and evaluates the
// engines on every tick.
//
// The runner is the only writer of the target date. HTTP handlers, the
// CLI and the TUI all go through Update and Clear; the scheduler calls
// Tick. Side effects (celebrations, live updates) are published on the
// events hub rather than invoked directly.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ShaKy8/CountdownToRetirement/internal/clock"
	"github.com/ShaKy8/CountdownToRetirement/internal/countdown"
	"github.com/ShaKy8/CountdownToRetirement/internal/events"
	"github.com/ShaKy8/CountdownToRetirement/internal/logging"
	"github.com/ShaKy8/CountdownToRetirement/internal/metrics"
	"github.com/ShaKy8/CountdownToRetirement/internal/scheduler"
	"github.com/ShaKy8/CountdownToRetirement/internal/state"
)

// Store failures. Both are non-fatal: the countdown keeps running on the
// default or in-memory target.
var (
	ErrStoreRead  = errors.New("STORE_READ_FAILURE")
	ErrStoreWrite = errors.New("STORE_WRITE_FAILURE")
)

// Scheduler task IDs.
const (
	TickTaskID   = "countdown-tick"
	DigestTaskID = "daily-digest"
)

// TargetStore persists the user-chosen target date.
// GetTarget returns state.ErrNotFound when nothing is stored.
type TargetStore interface {
	GetTarget() (time.Time, error)
	SetTarget(time.Time) error
	ClearTarget() error
}

// State is everything the driving loop carries between ticks.
type State struct {
	Target            time.Time
	Anchor            time.Time
	PrevDaysRemaining int
	HasPrev           bool
	Reached           bool
	Custom            bool // Target was chosen by the user rather than the default
}

// Output is one complete evaluation, as handed to the presentation layer.
type Output struct {
	countdown.Snapshot
	countdown.CalendarMetrics
	countdown.ProgressState

	BandDescription string                      `json:"bandDescription"`
	Target          time.Time                   `json:"target"`
	TargetDisplay   string                      `json:"targetDateDisplay"`
	CustomTarget    bool                        `json:"customTarget"`
	Milestones      []countdown.MilestoneStatus `json:"milestones"`
	Motivation      string                      `json:"motivation"`
	GeneratedAt     time.Time                   `json:"generatedAt"`
}

// Options configures a Runner.
type Options struct {
	Clock         clock.Clock
	Store         TargetStore // nil keeps the target in memory only
	DefaultTarget time.Time
	Anchor        time.Time
	Milestones    []countdown.Milestone
	Messages      []string
	Location      *time.Location // zone for calendar counts and display; nil is time.Local
	TickInterval  time.Duration
	Hub           *events.Hub
	Logger        *logging.Logger
	Metrics       *metrics.Registry
}

// Runner drives the countdown.
type Runner struct {
	mu    sync.Mutex
	state State
	last  Output

	clock         clock.Clock
	store         TargetStore
	defaultTarget time.Time
	milestones    []countdown.Milestone
	messages      []string
	loc           *time.Location
	interval      time.Duration
	hub           *events.Hub
	logger        *logging.Logger
	metrics       *metrics.Registry
}

// New creates a runner and loads the persisted target. A missing or
// unreadable stored value falls back to DefaultTarget.
func New(opts Options) *Runner {
	r := &Runner{
		clock:         clock.OrReal(opts.Clock),
		store:         opts.Store,
		defaultTarget: opts.DefaultTarget,
		milestones:    opts.Milestones,
		messages:      opts.Messages,
		loc:           opts.Location,
		interval:      opts.TickInterval,
		hub:           opts.Hub,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
	}
	if r.milestones == nil {
		r.milestones = countdown.DefaultMilestones()
	}
	if r.messages == nil {
		r.messages = countdown.DefaultMessages
	}
	if r.loc == nil {
		r.loc = time.Local
	}
	if r.interval <= 0 {
		r.interval = time.Second
	}
	if r.logger == nil {
		r.logger = logging.WithComponent("runner")
	}

	r.state = State{Target: opts.DefaultTarget, Anchor: opts.Anchor}
	if t, ok := r.loadTarget(); ok {
		r.state.Target = t
		r.state.Custom = true
	}
	if r.metrics != nil {
		r.metrics.RecordTargetPersisted(r.state.Custom)
	}

	r.logger.Info("countdown initialised",
		"target", r.state.Target.Format(countdown.PersistLayout),
		"custom", r.state.Custom)
	return r
}

func (r *Runner) loadTarget() (time.Time, bool) {
	if r.store == nil {
		return time.Time{}, false
	}
	t, err := r.store.GetTarget()
	if errors.Is(err, state.ErrNotFound) {
		return time.Time{}, false
	}
	if err != nil {
		r.storeFailed("read", fmt.Errorf("%w: %w", ErrStoreRead, err))
		return time.Time{}, false
	}
	return t, true
}

func (r *Runner) storeFailed(op string, err error) {
	r.logger.Warn("target store failure", "op", op, "error", err)
	r.hub.EmitStoreError(op, err)
	if r.metrics != nil {
		r.metrics.RecordStoreError(op)
	}
}

// Tick runs one complete evaluation and publishes it.
func (r *Runner) Tick() Output {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tickLocked()
}

func (r *Runner) tickLocked() Output {
	out := r.evaluateLocked(r.clock.Now())
	r.last = out

	if r.metrics != nil {
		r.metrics.RecordTick(out.Days, out.Percentage)
	}
	r.hub.Publish(events.Event{Type: events.EventTick, Source: "runner", Data: out})
	return out
}

// evaluateLocked feeds now and the current target through the engines.
// Once the target is reached the engines are no longer consulted until the
// target changes.
func (r *Runner) evaluateLocked(now time.Time) Output {
	st := &r.state
	if st.Reached {
		return r.reachedOutput(now)
	}

	snap := countdown.ComputeCountdown(now, st.Target)
	if snap.IsReached {
		st.Reached = true
		r.logger.Info("target reached", "target", st.Target.Format(countdown.PersistLayout))
		r.hub.Publish(events.Event{
			Type:   events.EventTargetReached,
			Source: "runner",
			Data:   events.TargetData{Target: st.Target, Persisted: st.Custom},
		})
		return r.reachedOutput(now)
	}

	local := now.In(r.loc)
	progress := countdown.ComputeProgress(st.Anchor, st.Target, now)

	if st.HasPrev {
		if trigger, ok := CrossedTrigger(st.PrevDaysRemaining, snap.Days); ok {
			r.logger.Info("milestone crossed", "trigger", trigger, "days", snap.Days)
			r.hub.EmitMilestoneTransition(st.PrevDaysRemaining, snap.Days, trigger)
			if r.metrics != nil {
				r.metrics.RecordMilestone(trigger)
			}
		}
	}
	st.PrevDaysRemaining = snap.Days
	st.HasPrev = true

	return Output{
		Snapshot:        snap,
		CalendarMetrics: countdown.ComputeCalendarMetrics(local, st.Target),
		ProgressState:   progress,
		BandDescription: progress.Band.Description(),
		Target:          st.Target,
		TargetDisplay:   countdown.FormatTargetDisplay(st.Target, r.loc),
		CustomTarget:    st.Custom,
		Milestones:      countdown.EvaluateMilestones(r.milestones, snap.Days),
		Motivation:      countdown.Motivation(now, r.messages),
		GeneratedAt:     now,
	}
}

func (r *Runner) reachedOutput(now time.Time) Output {
	return Output{
		Snapshot:        countdown.Snapshot{IsReached: true},
		ProgressState:   countdown.ProgressState{Percentage: 100, Band: countdown.BandFinal},
		BandDescription: countdown.BandFinal.Description(),
		Target:          r.state.Target,
		TargetDisplay:   countdown.FormatTargetDisplay(r.state.Target, r.loc),
		CustomTarget:    r.state.Custom,
		GeneratedAt:     now,
	}
}

// Update validates candidate and, if accepted, replaces the target.
//
// A rejected candidate returns a *countdown.ValidationError and leaves the
// target untouched. An accepted candidate always replaces the in-memory
// target; if persisting it fails the error wraps ErrStoreWrite and the new
// target stays active for this process.
func (r *Runner) Update(candidate string) (time.Time, error) {
	now := r.clock.Now().In(r.loc)
	t, err := countdown.Validate(candidate, now)
	if err != nil {
		r.rejected(candidate, err)
		return time.Time{}, err
	}
	return t, r.replace(t)
}

// UpdateTime is Update for an already-parsed instant. The accepted target is
// moved into the configured location.
func (r *Runner) UpdateTime(candidate time.Time) (time.Time, error) {
	t, err := countdown.ValidateInstant(candidate.In(r.loc), r.clock.Now())
	if err != nil {
		r.rejected(candidate.Format(countdown.PersistLayout), err)
		return time.Time{}, err
	}
	return t, r.replace(t)
}

func (r *Runner) rejected(input string, err error) {
	reason, _ := countdown.ReasonOf(err)
	r.logger.Info("target rejected", "input", input, "reason", reason)
	r.hub.EmitValidationRejected(input, string(reason), reason.Message())
	if r.metrics != nil {
		r.metrics.RecordRejection(string(reason))
	}
}

func (r *Runner) replace(t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.state.Target
	r.state.Target = t
	r.state.Custom = true
	r.resetLocked()

	var werr error
	persisted := false
	if r.store != nil {
		if err := r.store.SetTarget(t); err != nil {
			werr = fmt.Errorf("%w: %w", ErrStoreWrite, err)
			r.storeFailed("write", werr)
		} else {
			persisted = true
		}
	}
	if r.metrics != nil {
		r.metrics.RecordTargetPersisted(persisted)
	}

	r.logger.Info("target updated",
		"target", t.Format(countdown.PersistLayout),
		"previous", previous.Format(countdown.PersistLayout),
		"persisted", persisted)
	r.hub.Publish(events.Event{
		Type:   events.EventTargetUpdated,
		Source: "runner",
		Data:   events.TargetData{Target: t, Previous: previous, Persisted: persisted},
	})

	r.tickLocked()
	return werr
}

// Clear removes the stored target and returns to the default.
// The in-memory target is reset even if the store fails.
func (r *Runner) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.state.Target
	r.state.Target = r.defaultTarget
	r.state.Custom = false
	r.resetLocked()

	var werr error
	if r.store != nil {
		if err := r.store.ClearTarget(); err != nil {
			werr = fmt.Errorf("%w: %w", ErrStoreWrite, err)
			r.storeFailed("clear", werr)
		}
	}
	if r.metrics != nil {
		r.metrics.RecordTargetPersisted(false)
	}

	r.logger.Info("target cleared", "default", r.defaultTarget.Format(countdown.PersistLayout))
	r.hub.Publish(events.Event{
		Type:   events.EventTargetCleared,
		Source: "runner",
		Data:   events.TargetData{Target: r.defaultTarget, Previous: previous, Persisted: werr == nil},
	})

	r.tickLocked()
	return werr
}

// resetLocked forgets per-target history so a new target never inherits
// the previous one's reached flag or milestone baseline.
func (r *Runner) resetLocked() {
	r.state.Reached = false
	r.state.HasPrev = false
	r.state.PrevDaysRemaining = 0
}

// Snapshot returns the most recent output without re-evaluating.
// Before the first tick it evaluates once.
func (r *Runner) Snapshot() Output {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last.GeneratedAt.IsZero() {
		return r.tickLocked()
	}
	return r.last
}

// State returns a copy of the current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Task returns the scheduler registration for the periodic tick.
func (r *Runner) Task() *scheduler.Task {
	return &scheduler.Task{
		ID:          TickTaskID,
		Name:        "Countdown Tick",
		Description: "Recompute the countdown and publish it",
		Schedule:    scheduler.Every(r.interval),
		Enabled:     true,
		RunOnStart:  true,
		Func: func(ctx context.Context) error {
			r.Tick()
			return nil
		},
	}
}

// DigestTask returns a task that logs a one-line summary at local midnight.
func (r *Runner) DigestTask() *scheduler.Task {
	return &scheduler.Task{
		ID:          DigestTaskID,
		Name:        "Daily Digest",
		Description: "Log the day's countdown summary",
		Schedule:    &scheduler.DailySchedule{Hour: 0, Minute: 0, Location: r.loc},
		Enabled:     true,
		Func: func(ctx context.Context) error {
			out := r.Snapshot()
			if out.IsReached {
				r.logger.Info("daily digest", "reached", true)
				return nil
			}
			r.logger.Info("daily digest",
				"days", out.Days,
				"work_days", out.WorkDays,
				"weekends", out.WeekendCount,
				"progress", fmt.Sprintf("%.1f%%", out.Percentage),
				"band", out.Band)
			return nil
		},
	}
}
