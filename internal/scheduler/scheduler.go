// Package scheduler provides a small task scheduler for periodic jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ShaKy8/CountdownToRetirement/internal/clock"
	"github.com/ShaKy8/CountdownToRetirement/internal/logging"
)

// DefaultResolution is how often the scheduler checks for due tasks.
const DefaultResolution = 100 * time.Millisecond

// TaskFunc is a function that performs a scheduled task.
// It receives a context that will be cancelled if the scheduler stops.
type TaskFunc func(ctx context.Context) error

// Schedule defines when a task should run.
type Schedule interface {
	// Next returns the next time the task should run after the given time.
	Next(after time.Time) time.Time
}

// Task represents a scheduled task.
type Task struct {
	ID          string
	Name        string
	Description string
	Schedule    Schedule
	Func        TaskFunc
	Enabled     bool
	RunOnStart  bool // Run immediately when scheduler starts
	Timeout     time.Duration
}

// TaskStatus represents the current status of a task.
type TaskStatus struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Enabled      bool          `json:"enabled"`
	Running      bool          `json:"running"`
	LastRun      time.Time     `json:"last_run,omitempty"`
	LastDuration time.Duration `json:"last_duration,omitempty"`
	LastError    string        `json:"last_error,omitempty"`
	NextRun      time.Time     `json:"next_run,omitempty"`
	RunCount     int64         `json:"run_count"`
	ErrorCount   int64         `json:"error_count"`
	SkipCount    int64         `json:"skip_count"`
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the time source used for schedule arithmetic.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) { s.clock = clock.OrReal(c) }
}

// WithResolution sets how often due tasks are checked.
func WithResolution(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.resolution = d
		}
	}
}

// Scheduler manages and runs scheduled tasks.
//
// A task never runs concurrently with itself: a run that comes due while
// the previous one is still executing is skipped, not queued.
type Scheduler struct {
	tasks      map[string]*taskEntry
	mu         sync.RWMutex
	logger     *slog.Logger
	clock      clock.Clock
	resolution time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
	running    bool
	wg         sync.WaitGroup
}

type taskEntry struct {
	task       *Task
	status     TaskStatus
	nextRun    time.Time
	inFlight   bool
	cancelFunc context.CancelFunc
}

// New creates a new scheduler.
func New(logger *logging.Logger, opts ...Option) *Scheduler {
	var l *slog.Logger
	if logger == nil {
		l = slog.Default()
	} else {
		// Use the embedded slog.Logger
		l = logger.Logger
	}

	s := &Scheduler{
		tasks:      make(map[string]*taskEntry),
		logger:     l.With("component", "scheduler"),
		clock:      &clock.RealClock{},
		resolution: DefaultResolution,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddTask adds a task to the scheduler.
func (s *Scheduler) AddTask(task *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" {
		return fmt.Errorf("task ID is required")
	}
	if task.Schedule == nil {
		return fmt.Errorf("task schedule is required")
	}
	if task.Func == nil {
		return fmt.Errorf("task function is required")
	}

	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("task %s already exists", task.ID)
	}

	entry := &taskEntry{
		task: task,
		status: TaskStatus{
			ID:          task.ID,
			Name:        task.Name,
			Description: task.Description,
			Enabled:     task.Enabled,
		},
	}

	if task.Enabled {
		entry.nextRun = task.Schedule.Next(s.clock.Now())
		entry.status.NextRun = entry.nextRun
	}

	s.tasks[task.ID] = entry
	s.logger.Info("task added", "id", task.ID, "name", task.Name)

	return nil
}

// RemoveTask removes a task from the scheduler.
func (s *Scheduler) RemoveTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("task %s not found", id)
	}

	// Cancel if running
	if entry.cancelFunc != nil {
		entry.cancelFunc()
	}

	delete(s.tasks, id)
	s.logger.Info("task removed", "id", id)
	return nil
}

// EnableTask enables or disables a task.
func (s *Scheduler) EnableTask(id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("task %s not found", id)
	}

	entry.task.Enabled = enabled
	entry.status.Enabled = enabled

	if enabled {
		entry.nextRun = entry.task.Schedule.Next(s.clock.Now())
	} else {
		entry.nextRun = time.Time{}
	}
	entry.status.NextRun = entry.nextRun

	return nil
}

// RunTask runs a task immediately, regardless of schedule.
// It is skipped if the task is already running.
func (s *Scheduler) RunTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("task %s not found", id)
	}
	s.dispatchLocked(entry)
	return nil
}

// GetStatus returns the status of all tasks.
func (s *Scheduler) GetStatus() []TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]TaskStatus, 0, len(s.tasks))
	for _, entry := range s.tasks {
		statuses = append(statuses, entry.status)
	}

	// Sort by name
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Name < statuses[j].Name
	})

	return statuses
}

// GetTaskStatus returns the status of a specific task.
func (s *Scheduler) GetTaskStatus(id string) (TaskStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.tasks[id]
	if !exists {
		return TaskStatus{}, false
	}
	return entry.status, true
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.running = true

	s.logger.Info("scheduler started", "resolution", s.resolution)

	// Run tasks that should run on start
	for _, entry := range s.tasks {
		if entry.task.Enabled && entry.task.RunOnStart {
			s.dispatchLocked(entry)
		}
	}

	// Start the main scheduler loop
	s.wg.Add(1)
	go s.run(s.ctx)
}

// Stop stops the scheduler and waits for running tasks to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	// Wait for the loop and running tasks
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// IsRunning returns whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.resolution)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndRunTasks(s.clock.Now())
		}
	}
}

// checkAndRunTasks checks all tasks and runs those that are due.
func (s *Scheduler) checkAndRunTasks(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.tasks {
		if !entry.task.Enabled || entry.nextRun.IsZero() {
			continue
		}
		if now.Before(entry.nextRun) {
			continue
		}
		if entry.inFlight {
			// Coalesce: drop this occurrence and move on to the next slot.
			entry.status.SkipCount++
			entry.nextRun = s.nextAfter(entry, now)
			entry.status.NextRun = entry.nextRun
			s.logger.Debug("task still running, skipping", "id", entry.task.ID)
			continue
		}
		s.dispatchLocked(entry)
	}
}

// nextAfter advances from the previous slot so intervals do not drift,
// jumping forward when the previous slot is already behind now.
func (s *Scheduler) nextAfter(entry *taskEntry, now time.Time) time.Time {
	next := now
	if !entry.nextRun.IsZero() {
		next = entry.task.Schedule.Next(entry.nextRun)
	}
	if !next.After(now) {
		next = entry.task.Schedule.Next(now)
	}
	return next
}

// dispatchLocked starts a run of entry unless one is already in flight.
// Caller must hold s.mu.
func (s *Scheduler) dispatchLocked(entry *taskEntry) {
	if entry.inFlight {
		entry.status.SkipCount++
		return
	}
	entry.inFlight = true
	entry.status.Running = true
	if entry.task.Enabled {
		entry.nextRun = s.nextAfter(entry, s.clock.Now())
		entry.status.NextRun = entry.nextRun
	}

	parent := s.ctx
	if parent == nil {
		parent = context.Background()
	}

	s.wg.Add(1)
	go s.executeTask(parent, entry)
}

// executeTask runs a single task.
func (s *Scheduler) executeTask(parent context.Context, entry *taskEntry) {
	defer s.wg.Done()

	task := entry.task
	s.logger.Debug("executing task", "id", task.ID, "name", task.Name)

	// Create task context with timeout
	var ctx context.Context
	var cancel context.CancelFunc
	if task.Timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, task.Timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	// Store cancel func so task can be cancelled
	s.mu.Lock()
	entry.cancelFunc = cancel
	s.mu.Unlock()

	start := s.clock.Now()
	err := task.Func(ctx)
	duration := s.clock.Since(start)
	cancel()

	// Update status
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.cancelFunc = nil
	entry.inFlight = false
	entry.status.Running = false
	entry.status.LastRun = start
	entry.status.LastDuration = duration
	entry.status.RunCount++
	if err != nil {
		entry.status.LastError = err.Error()
		entry.status.ErrorCount++
		s.logger.Warn("task failed", "id", task.ID, "error", err, "duration", duration)
	} else {
		entry.status.LastError = ""
		s.logger.Debug("task completed", "id", task.ID, "duration", duration)
	}
}
