/*
Copyright 2024 Hanbit Bank Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package bankcore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hanbitbank/bankcore/config"
	"github.com/hanbitbank/bankcore/model"
)

// AccrualRunner is the narrow surface the scheduler drives. Bankcore
// satisfies it.
type AccrualRunner interface {
	RunBulkInterest(ctx context.Context, actorID string) (*BulkRunSummary, error)
}

// SchedulerStatus describes the scheduler for status queries.
type SchedulerStatus struct {
	Running       bool      `json:"running"`
	LastRun       time.Time `json:"last_run,omitempty"`
	NextExecution string    `json:"next_execution"`
}

// Scheduler periodically checks whether the monthly accrual window has
// arrived and triggers one bulk interest run per qualifying month. The
// window is the last calendar day of the month at the configured trigger
// hour, minute zero; the lastRun guard keeps repeated ticks inside one
// window from firing twice.
type Scheduler struct {
	runner      AccrualRunner
	clock       Clock
	interval    time.Duration
	triggerHour int
	stopTimeout time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
	lastRun time.Time // zero when the scheduler has never fired
}

func NewScheduler(runner AccrualRunner) (*Scheduler, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		runner:      runner,
		clock:       realClock{},
		interval:    time.Duration(configuration.Scheduler.PollIntervalSec) * time.Second,
		triggerHour: configuration.Scheduler.TriggerHour,
		stopTimeout: time.Duration(configuration.Scheduler.StopTimeoutSec) * time.Second,
	}, nil
}

// Start spawns the background loop. Idempotent when already running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.wg.Add(1)
	go s.loop(s.stopCh)
	logrus.Infof("accrual scheduler started, checking every %v for the month-end %02d:00 window",
		s.interval, s.triggerHour)
}

// Stop signals the loop to exit and waits, bounded by the configured
// timeout. Only the next wake is cancelled: an in-flight bulk run completes,
// since aborting it could strand per-account accruals mid-sequence.
// Idempotent when already stopped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		logrus.Info("accrual scheduler stopped")
	case <-time.After(s.stopTimeout):
		logrus.Warn("accrual scheduler did not stop within timeout; a bulk run is still in flight")
	}
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) loop(stopCh chan struct{}) {
	defer s.wg.Done()

	// Align the first wake to the next interval boundary so hourly ticks
	// land on minute zero, where the window check looks.
	now := s.clock.Now()
	timer := time.NewTimer(now.Truncate(s.interval).Add(s.interval).Sub(now))
	defer timer.Stop()
	select {
	case <-timer.C:
		s.tick()
	case <-stopCh:
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-stopCh:
			return
		}
	}
}

// tick evaluates the window and fires at most one bulk run per qualifying
// month. Errors are logged and retried on the next tick; they never crash
// the loop.
func (s *Scheduler) tick() {
	now := s.clock.Now()
	if !s.shouldRun(now) {
		return
	}

	logrus.Infof("accrual window reached at %s, starting automatic interest run", now.Format(time.RFC3339))
	summary, err := s.runner.RunBulkInterest(context.Background(), model.ActorAutoScheduler)
	if err != nil {
		logrus.Errorf("automatic interest run failed: %v", err)
		return
	}

	s.mu.Lock()
	s.lastRun = now
	s.mu.Unlock()
	logrus.Infof("automatic interest run complete: %d applied, %d failed, total %d",
		summary.Applied, summary.Failed, summary.TotalAmount)
}

func (s *Scheduler) shouldRun(now time.Time) bool {
	if !model.IsLastDayOfMonth(now) || now.Hour() != s.triggerHour || now.Minute() != 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !sameMonth(s.lastRun, now)
}

func sameMonth(a, b time.Time) bool {
	return !a.IsZero() && a.Year() == b.Year() && a.Month() == b.Month()
}

// NextExecutionInfo estimates the next automatic run: the last day of the
// current month at the trigger hour, advanced one day if that instant has
// already passed. Display-only; the loop's window check is authoritative.
func (s *Scheduler) NextExecutionInfo() string {
	now := s.clock.Now()
	lastDay := model.LastDayOfMonth(now)
	candidate := time.Date(lastDay.Year(), lastDay.Month(), lastDay.Day(), s.triggerHour, 0, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return fmt.Sprintf("next execution: %s", candidate.Format("2006-01-02 15:04:05"))
}

func (s *Scheduler) Status() SchedulerStatus {
	s.mu.Lock()
	running := s.running
	lastRun := s.lastRun
	s.mu.Unlock()
	return SchedulerStatus{
		Running:       running,
		LastRun:       lastRun,
		NextExecution: s.NextExecutionInfo(),
	}
}
