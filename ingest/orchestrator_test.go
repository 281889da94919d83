package ingest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxquotes/storage/types"
)

const testJobName = "test-job"

func TestOrchestrator_New(t *testing.T) {
	t.Parallel()

	t.Run("default orchestrator", func(t *testing.T) {
		t.Parallel()

		o := New()

		require.NotNil(t, o)

		assert.NotNil(t, o.logger)
		assert.Equal(t, time.Second, o.queryInterval)
	})

	t.Run("query interval", func(t *testing.T) {
		t.Parallel()

		o := New(WithQueryInterval(time.Minute))

		require.NotNil(t, o)
		assert.Equal(t, time.Minute, o.queryInterval)
	})
}

func TestOrchestrator_Register(t *testing.T) {
	t.Parallel()

	t.Run("nil job", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, New().Register(nil), errInvalidJob)
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		job := &mockJob{
			intervalFn: func() time.Duration {
				return time.Hour
			},
		}

		assert.ErrorIs(t, New().Register(job), errInvalidJob)
	})

	t.Run("invalid interval", func(t *testing.T) {
		t.Parallel()

		for _, interval := range []time.Duration{0, -time.Hour} {
			job := &mockJob{
				nameFn: func() string {
					return testJobName
				},
				intervalFn: func() time.Duration {
					return interval
				},
			}

			assert.ErrorIs(t, New().Register(job), errInvalidInterval)
		}
	})

	t.Run("valid job is scheduled immediately", func(t *testing.T) {
		t.Parallel()

		var (
			o = New()

			job = &mockJob{
				nameFn: func() string {
					return testJobName
				},
				intervalFn: func() time.Duration {
					return time.Hour
				},
			}
		)

		require.NoError(t, o.Register(job))

		var count int

		o.registeredJobs.Range(
			func(_, _ any) bool {
				count++

				return true
			},
		)

		assert.Equal(t, 1, count)
		require.Equal(t, 1, o.q.Len())

		scheduled := o.q.Index(0)
		assert.True(t, scheduled.at.Before(time.Now().Add(time.Second)))
	})
}

func TestOrchestrator_Start(t *testing.T) {
	t.Parallel()

	t.Run("ctx canceled", func(t *testing.T) {
		t.Parallel()

		var (
			o     = New(WithQueryInterval(time.Millisecond * 10))
			errCh = make(chan error, 1)
		)

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- o.Start(ctx)
		}()

		cancel()

		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("orchestrator did not shut down in time")
		}
	})

	t.Run("job rescheduled after success", func(t *testing.T) {
		t.Parallel()

		var (
			runCount atomic.Int32
			runDone  = make(chan struct{})
			errCh    = make(chan error, 1)

			o = New(WithQueryInterval(time.Millisecond * 10))

			job = &mockJob{
				nameFn: func() string {
					return testJobName
				},
				intervalFn: func() time.Duration {
					return time.Millisecond * 50
				},
				runFn: func(context.Context) ([]*types.Quote, error) {
					if runCount.Add(1) == 2 {
						close(runDone)
					}

					return []*types.Quote{{Source: "https://a.example"}}, nil
				},
			}
		)

		require.NoError(t, o.Register(job))

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- o.Start(ctx)
		}()

		select {
		case <-runDone:
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for reschedule")
		}

		cancel()
		require.NoError(t, <-errCh)

		assert.GreaterOrEqual(t, runCount.Load(), int32(2))
	})

	t.Run("failed job waits for the next interval", func(t *testing.T) {
		t.Parallel()

		var (
			runCount atomic.Int32
			firstRun = make(chan struct{})
			errCh    = make(chan error, 1)

			o = New(WithQueryInterval(time.Millisecond * 10))

			job = &mockJob{
				nameFn: func() string {
					return testJobName
				},
				intervalFn: func() time.Duration {
					return time.Hour
				},
				runFn: func(context.Context) ([]*types.Quote, error) {
					if runCount.Add(1) == 1 {
						close(firstRun)
					}

					return nil, errors.New("refresh error")
				},
			}
		)

		require.NoError(t, o.Register(job))

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- o.Start(ctx)
		}()

		select {
		case <-firstRun:
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for job run")
		}

		// The failed run is rescheduled an interval away
		require.Eventually(t, func() bool {
			o.qMux.Lock()
			defer o.qMux.Unlock()

			return o.q.Len() == 1 && o.q.Index(0).at.After(time.Now().Add(30*time.Minute))
		}, 5*time.Second, 10*time.Millisecond)

		cancel()
		require.NoError(t, <-errCh)

		assert.Equal(t, int32(1), runCount.Load())
	})

	t.Run("multiple jobs", func(t *testing.T) {
		t.Parallel()

		var (
			seen     sync.Map
			runCount atomic.Int32
			allRun   = make(chan struct{})
			errCh    = make(chan error, 1)

			o = New(WithQueryInterval(time.Millisecond * 10))
		)

		for _, region := range types.Regions {
			refresher := &mockRefresher{
				refreshFn: func(_ context.Context, r types.Region) ([]*types.Quote, error) {
					seen.Store(r, struct{}{})

					if runCount.Add(1) == int32(len(types.Regions)) {
						close(allRun)
					}

					return nil, nil
				},
			}

			require.NoError(t, o.Register(NewRegionJob(refresher, region, time.Hour)))
		}

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- o.Start(ctx)
		}()

		select {
		case <-allRun:
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for jobs")
		}

		cancel()
		require.NoError(t, <-errCh)

		for _, region := range types.Regions {
			_, ok := seen.Load(region)
			assert.True(t, ok, "region %s should be refreshed", region)
		}
	})
}

func TestRegionJob(t *testing.T) {
	t.Parallel()

	var (
		price = 850.5
		batch = []*types.Quote{{Source: "https://a.example", BuyPrice: &price}}

		refresher = &mockRefresher{
			refreshFn: func(_ context.Context, region types.Region) ([]*types.Quote, error) {
				assert.Equal(t, types.RegionBR, region)

				return batch, nil
			},
		}

		job = NewRegionJob(refresher, types.RegionBR, time.Minute)
	)

	assert.Equal(t, "refresh-br", job.Name())
	assert.Equal(t, time.Minute, job.Interval())

	quotes, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, batch, quotes)
}
