package duel

import (
	"time"

	"github.com/go-co-op/gocron"
)

// Reaper periodically sweeps the registry so abandoned rooms cannot
// accumulate for the lifetime of the process.
type Reaper struct {
	scheduler *gocron.Scheduler
	registry  *Registry
	interval  time.Duration
}

// NewReaper creates a reaper sweeping the registry at the given interval.
func NewReaper(registry *Registry, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Reaper{
		scheduler: gocron.NewScheduler(time.UTC),
		registry:  registry,
		interval:  interval,
	}
}

// Start begins sweeping in the background.
func (r *Reaper) Start() {
	r.scheduler.Every(r.interval).Do(r.registry.Sweep)
	r.scheduler.StartAsync()
}

// Stop terminates the sweep job.
func (r *Reaper) Stop() {
	r.scheduler.Stop()
}
