package modules

import (
	"context"
	"sync"
	"time"
)

// Schedule describes when a ScheduledJob fires. Two kinds exist: routinely
// (fixed interval, optionally starting immediately) and weekly (a weekday
// plus an hour of the day, UTC).
type Schedule struct {
	// Fixed interval, the routinely kind when > 0.
	Every            time.Duration
	StartImmediately bool

	// Weekly slot, used when Every == 0.
	Weekday time.Weekday
	Hour    int
}

func Routinely(every time.Duration, startImmediately bool) Schedule {
	return Schedule{Every: every, StartImmediately: startImmediately}
}

func WeeklyAt(weekday time.Weekday, hour int) Schedule {
	return Schedule{Weekday: weekday, Hour: hour}
}

// NextAfter computes the first fire time strictly after t.
func (s Schedule) NextAfter(t time.Time) time.Time {
	if s.Every > 0 {
		return t.Add(s.Every)
	}

	next := time.Date(t.Year(), t.Month(), t.Day(), s.Hour, 0, 0, 0, time.UTC)
	for next.Weekday() != s.Weekday || !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// ScheduledJob binds a schedule to a pipeline pass. The scheduler polls Due
// on its tick and runs due jobs sequentially. This struct is thread-safe.
type ScheduledJob struct {
	m sync.RWMutex

	name     string
	schedule Schedule
	run      func(ctx context.Context) error

	// The last time this job was executed.
	lastRun time.Time

	// The next time this job should be executed.
	nextRun time.Time

	// How many times this job has been executed.
	runCount int64
}

func NewScheduledJob(name string, schedule Schedule, run func(ctx context.Context) error) *ScheduledJob {
	return &ScheduledJob{
		name:     name,
		schedule: schedule,
		run:      run,
	}
}

func (j *ScheduledJob) Name() string {
	return j.name
}

// Prime sets the first fire time. Routinely jobs with StartImmediately fire
// on the first tick after priming.
func (j *ScheduledJob) Prime(now time.Time) {
	j.m.Lock()
	defer j.m.Unlock()

	if j.schedule.Every > 0 && j.schedule.StartImmediately {
		j.nextRun = now
		return
	}
	j.nextRun = j.schedule.NextAfter(now)
}

func (j *ScheduledJob) Due(now time.Time) bool {
	j.m.RLock()
	defer j.m.RUnlock()

	return !j.nextRun.IsZero() && !now.Before(j.nextRun)
}

// UpdateLastAndNextTime advances the job after an execution, successful or
// not. A failed run still waits out the full interval.
func (j *ScheduledJob) UpdateLastAndNextTime(now time.Time) {
	j.m.Lock()
	defer j.m.Unlock()

	j.lastRun = now
	j.nextRun = j.schedule.NextAfter(now)
	j.runCount += 1
}

func (j *ScheduledJob) HasRunBefore() bool {
	j.m.RLock()
	defer j.m.RUnlock()

	return !j.lastRun.IsZero()
}

func (j *ScheduledJob) RunCount() int64 {
	j.m.RLock()
	defer j.m.RUnlock()

	return j.runCount
}

func (j *ScheduledJob) NextRun() time.Time {
	j.m.RLock()
	defer j.m.RUnlock()

	return j.nextRun
}

func (j *ScheduledJob) Run(ctx context.Context) error {
	return j.run(ctx)
}
