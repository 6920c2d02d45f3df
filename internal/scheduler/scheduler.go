package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Sweeper is implemented by stores that can evict idle entries.
type Sweeper interface {
	Sweep() int
	Len() int
}

// Scheduler periodically evicts idle widget sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	interval  time.Duration
}

// New creates a new Scheduler.
func New(sweeper Sweeper, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		sweeper:   sweeper,
		interval:  interval,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: sweep interval not set; sessions will not be evicted")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce performs a single sweep.
func (s *Scheduler) RunOnce() {
	removed := s.sweeper.Sweep()
	if removed > 0 {
		log.Printf("scheduler: evicted %d idle sessions, %d remaining", removed, s.sweeper.Len())
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
