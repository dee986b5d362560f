// Package modules holds the engine modules of the pipeline monitor binary.
package modules

import (
	"context"
	"time"

	. "github.com/Drew-CodeRGV/TheWirelessMonitor/utils/log"
)

const defaultTickInterval = 60 * time.Second

type SchedulerConfig struct {
	// Name of the scheduler module.
	Name string

	// Poll interval of the job table. Defaults to one minute.
	TickInterval time.Duration
}

// Scheduler drives the recurring pipeline passes from a static job table.
// Due jobs run sequentially on the scheduler goroutine; the pipeline mutex
// inside the service layer already forbids overlapping passes, so there is
// nothing to gain from running them in parallel here.
type Scheduler struct {
	Config SchedulerConfig

	jobs []*ScheduledJob
}

// Return a new instance of Scheduler.
func NewScheduler(config SchedulerConfig, jobs []*ScheduledJob) *Scheduler {
	if config.TickInterval <= 0 {
		config.TickInterval = defaultTickInterval
	}
	return &Scheduler{
		Config: config,
		jobs:   jobs,
	}
}

func (s *Scheduler) RunModule(ctx context.Context) error {
	now := time.Now().UTC()
	for _, job := range s.jobs {
		job.Prime(now)
		Log.Infof("scheduled job %s, first run at %s", job.Name(), job.NextRun().Format(time.RFC3339))
	}

	ticker := time.NewTicker(s.Config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runDueJobs(ctx)
		}
	}
}

func (s *Scheduler) runDueJobs(ctx context.Context) {
	now := time.Now().UTC()
	for _, job := range s.jobs {
		if !job.Due(now) {
			continue
		}
		s.runJob(ctx, job)
		job.UpdateLastAndNextTime(time.Now().UTC())
	}
}

// runJob executes one job, containing panics so a misbehaving pass cannot
// take the whole scheduler down.
func (s *Scheduler) runJob(ctx context.Context, job *ScheduledJob) {
	defer func() {
		if r := recover(); r != nil {
			Log.Errorf("job %s panicked: %v", job.Name(), r)
		}
	}()

	Log.Infof("running job %s", job.Name())
	if err := job.Run(ctx); err != nil {
		Log.Errorf("job %s failed: %v", job.Name(), err)
	}
}

func (s *Scheduler) Name() string {
	return s.Config.Name
}

func (s *Scheduler) Shutdown() {}
