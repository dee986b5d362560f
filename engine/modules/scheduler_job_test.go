package modules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleNextAfterRoutinely(t *testing.T) {
	schedule := Routinely(6*time.Hour, false)
	base := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, base.Add(6*time.Hour), schedule.NextAfter(base))
}

func TestScheduleNextAfterWeekly(t *testing.T) {
	schedule := WeeklyAt(time.Monday, 8)

	// Monday Jan 5 2026. Before the slot fires the same day, at or past it
	// fires next Monday.
	monday := time.Date(2026, time.January, 5, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC), schedule.NextAfter(monday))

	atSlot := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.January, 12, 8, 0, 0, 0, time.UTC), schedule.NextAfter(atSlot))

	wednesday := time.Date(2026, time.January, 7, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.January, 12, 8, 0, 0, 0, time.UTC), schedule.NextAfter(wednesday))
}

func TestScheduledJobPrimeAndDue(t *testing.T) {
	run := func(ctx context.Context) error { return nil }
	now := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)

	immediate := NewScheduledJob("immediate", Routinely(time.Hour, true), run)
	assert.False(t, immediate.Due(now), "unprimed job is never due")
	immediate.Prime(now)
	assert.True(t, immediate.Due(now))

	deferred := NewScheduledJob("deferred", Routinely(time.Hour, false), run)
	deferred.Prime(now)
	assert.False(t, deferred.Due(now))
	assert.True(t, deferred.Due(now.Add(time.Hour)))
}

func TestScheduledJobUpdateLastAndNextTime(t *testing.T) {
	job := NewScheduledJob("job", Routinely(time.Hour, true), func(ctx context.Context) error { return nil })
	now := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	job.Prime(now)

	assert.False(t, job.HasRunBefore())
	assert.Equal(t, int64(0), job.RunCount())

	job.UpdateLastAndNextTime(now)

	assert.True(t, job.HasRunBefore())
	assert.Equal(t, int64(1), job.RunCount())
	assert.Equal(t, now.Add(time.Hour), job.NextRun())
	assert.False(t, job.Due(now))
	assert.True(t, job.Due(now.Add(time.Hour)))
}
