package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrLoadInProgress is returned by RunNow when a load is already under way.
var ErrLoadInProgress = errors.New("a load is already in progress")

// TriggerFunc starts a full reload and returns the id of the load run.
// It may block until the load finishes or merely enqueue it.
type TriggerFunc func(ctx context.Context) (string, error)

// ActiveRunChecker reports whether a recorded load is pending or running.
type ActiveRunChecker interface {
	HasActiveRun(ctx context.Context) (bool, error)
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// LoadScheduler periodically triggers a full reload of both dumps.
// A tick is skipped while a previous load is still active.
type LoadScheduler struct {
	schedule string
	trigger  TriggerFunc
	active   ActiveRunChecker

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isLoading  bool
	cancelFunc context.CancelFunc
}

// NewLoadScheduler creates a scheduler. active may be nil, in which case
// only loads triggered by this scheduler are considered.
func NewLoadScheduler(schedule string, trigger TriggerFunc, active ActiveRunChecker) *LoadScheduler {
	return &LoadScheduler{
		schedule: schedule,
		trigger:  trigger,
		active:   active,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start registers the reload job and starts the cron loop. The scheduler
// stops when ctx is cancelled.
func (s *LoadScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	cancelCtx, cancel := context.WithCancel(ctx)

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.runLoad(cancelCtx); err != nil && !errors.Is(err, ErrLoadInProgress) {
			log.Printf("[SCHEDULER] Scheduled load failed: %v", err)
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule load job: %w", err)
	}
	s.entryID = entryID
	s.cancelFunc = cancel

	s.cron.Start()
	s.isRunning = true

	next := s.cron.Entry(entryID).Next
	log.Printf("[SCHEDULER] Load scheduler started with schedule '%s'. Next run: %v", s.schedule, next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop cancels a running scheduled load, then waits for its trigger to return.
func (s *LoadScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-s.cron.Stop().Done()
	log.Printf("[SCHEDULER] Load scheduler stopped")
}

// RunNow triggers a reload immediately, subject to the same overlap rule
// as scheduled ticks.
func (s *LoadScheduler) RunNow(ctx context.Context) (string, error) {
	return s.runLoad(ctx)
}

func (s *LoadScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsLoading reports whether a trigger started by this scheduler has not
// yet returned.
func (s *LoadScheduler) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// GetNextRunTime returns when the next reload will fire, or nil when the
// scheduler is stopped.
func (s *LoadScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	t := entry.Next
	return &t
}

func (s *LoadScheduler) runLoad(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.isLoading {
		s.mu.Unlock()
		log.Printf("[SCHEDULER] Load skipped (already loading)")
		return "", ErrLoadInProgress
	}
	s.isLoading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isLoading = false
		s.mu.Unlock()
	}()

	if s.active != nil {
		active, err := s.active.HasActiveRun(ctx)
		if err != nil {
			return "", fmt.Errorf("check active loads: %w", err)
		}
		if active {
			log.Printf("[SCHEDULER] Load skipped (a recorded run is still active)")
			return "", ErrLoadInProgress
		}
	}

	log.Printf("[SCHEDULER] Triggering full reload")
	runID, err := s.trigger(ctx)
	if err != nil {
		return "", err
	}
	log.Printf("[SCHEDULER] Reload %s triggered", runID)
	return runID, nil
}
