package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RunsImmediatelyAndOnTick(t *testing.T) {
	var runs atomic.Int32
	m := NewManager()
	m.Register(Job{
		Name:     "counter",
		Interval: 10 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	m.Start()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, m.Shutdown(time.Second))
}

func TestManager_SkipsJobsWithoutInterval(t *testing.T) {
	m := NewManager()
	m.Register(Job{Name: "broken", Fn: func(context.Context) error { return nil }})
	m.Register(NewHealthCheckJob(func(context.Context) error { return nil }))

	assert.Equal(t, []string{"health_check"}, m.Jobs())
}

func TestManager_SurvivesPanicsAndErrors(t *testing.T) {
	var runs atomic.Int32
	m := NewManager()
	m.Register(Job{
		Name:     "flaky",
		Interval: 5 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			if runs.Add(1) == 1 {
				panic("boom")
			}
			return errors.New("still failing")
		},
	})
	m.Start()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, m.Shutdown(time.Second))
}

func TestHistoryRetentionJob_ComputesCutoff(t *testing.T) {
	now := time.Date(2024, 6, 30, 3, 0, 0, 0, time.UTC)
	var gotBefore time.Time
	var gotArchive bool

	job := NewHistoryRetentionJob(func(ctx context.Context, before time.Time, archive bool) (RetentionResult, error) {
		gotBefore, gotArchive = before, archive
		return RetentionResult{Deleted: 3}, nil
	}, RetentionJobConfig{RetentionDays: 30, Archive: true}, func() time.Time { return now })

	require.NoError(t, job.Fn(context.Background()))
	assert.Equal(t, "history_retention", job.Name)
	assert.Equal(t, 24*time.Hour, job.Interval)
	assert.Equal(t, time.Date(2024, 5, 31, 3, 0, 0, 0, time.UTC), gotBefore)
	assert.True(t, gotArchive)
}

func TestHistoryRetentionJob_PropagatesError(t *testing.T) {
	job := NewHistoryRetentionJob(func(context.Context, time.Time, bool) (RetentionResult, error) {
		return RetentionResult{}, errors.New("db down")
	}, RetentionJobConfig{RetentionDays: 7}, nil)

	assert.Error(t, job.Fn(context.Background()))
}

func TestTrackerBacklogJob(t *testing.T) {
	job := NewTrackerBacklogJob(func() int { return 900 }, 1000)
	assert.True(t, job.SkipInitialRun)
	assert.NoError(t, job.Fn(context.Background()))
}
