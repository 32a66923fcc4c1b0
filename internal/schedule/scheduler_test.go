// internal/schedule/scheduler_test.go
package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsRegisteredJob(t *testing.T) {
	s := NewScheduler(zerolog.Nop())

	var runs atomic.Int64
	require.NoError(t, s.Add("tick", "@every 10ms", func(context.Context) {
		runs.Add(1)
	}))

	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, runs.Load(), int64(1))
}

func TestSchedulerRejectsInvalidSpec(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	assert.Error(t, s.Add("broken", "not a cron spec", func(context.Context) {}))
}

func TestSchedulerAcceptsDailyNoonSpec(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	assert.NoError(t, s.Add("overdue-loans", "0 12 * * *", func(context.Context) {}))
}

func TestSchedulerStopWaitsForRunningJob(t *testing.T) {
	s := NewScheduler(zerolog.Nop())

	started := make(chan struct{})
	var finished atomic.Bool
	require.NoError(t, s.Add("slow", "@every 10ms", func(context.Context) {
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(30 * time.Millisecond)
		finished.Store(true)
	}))

	s.Start()
	<-started
	s.Stop()

	assert.True(t, finished.Load())
}
