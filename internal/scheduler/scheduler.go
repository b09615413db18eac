package scheduler

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"

	"github.com/i474232898/weather-dashboard/internal/settings"
)

const autoRefreshTag = "auto-refresh"

// Refresher is the part of the weather state the scheduler drives.
type Refresher interface {
	Refresh()
}

// Scheduler refreshes the weather periodically while auto-refresh is on.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Refresher
	onRefresh func()

	mu       sync.Mutex
	interval time.Duration
}

// New creates a new Scheduler. onRefresh, when set, runs after every
// scheduled refresh.
func New(target Refresher, onRefresh func()) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		target:    target,
		onRefresh: onRefresh,
	}
}

// Start starts the underlying scheduler and applies the initial settings.
func (s *Scheduler) Start(prefs settings.Bag) error {
	s.scheduler.StartAsync()
	return s.Apply(prefs)
}

// Apply reschedules the refresh job to match prefs.
func (s *Scheduler) Apply(prefs settings.Bag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.scheduler.RemoveByTag(autoRefreshTag)
	s.interval = 0

	if !prefs.AutoRefresh {
		log.Info("scheduler: auto-refresh disabled")
		return nil
	}

	minutes := prefs.RefreshInterval
	if minutes <= 0 {
		minutes = 5
	}

	_, err := s.scheduler.Every(minutes).Minutes().
		Tag(autoRefreshTag).
		WaitForSchedule().
		Do(s.run)
	if err != nil {
		return err
	}

	s.interval = time.Duration(minutes) * time.Minute
	log.WithField("interval", s.interval).Info("scheduler: auto-refresh scheduled")
	return nil
}

// Interval returns the active refresh interval, zero when disabled.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *Scheduler) run() {
	log.Debug("scheduler: running weather refresh job")
	s.target.Refresh()
	if s.onRefresh != nil {
		s.onRefresh()
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
