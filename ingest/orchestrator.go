package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"
)

var (
	errInvalidJob      = errors.New("invalid job")
	errInvalidInterval = errors.New("invalid interval")
)

// Orchestrator is the scheduler for registered background refresh jobs
type Orchestrator struct {
	logger *slog.Logger

	registeredJobs sync.Map

	q             iq.Queue[scheduledRun]
	queryInterval time.Duration
	qMux          sync.Mutex
}

// New creates a new Orchestrator instance
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		q:             iq.NewQueue[scheduledRun](),
		queryInterval: time.Second,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Register registers a new job with the orchestrator.
// The job is immediately queued up for execution
func (o *Orchestrator) Register(j Job) error {
	if j == nil || j.Name() == "" {
		return errInvalidJob
	}

	if j.Interval() <= 0 {
		return errInvalidInterval
	}

	id := xid.New()
	o.registeredJobs.Store(id, j)

	o.logger.Info(
		"registered refresh job",
		"name", j.Name(),
		"interval", j.Interval().String(),
	)

	o.scheduleRun(time.Now().UTC(), id, j)

	return nil
}

// Start starts the job orchestration loop [BLOCKING]
func (o *Orchestrator) Start(ctx context.Context) error {
	collectorCh := make(chan *workerResponse, 100)

	ticker := time.NewTicker(o.queryInterval)
	defer ticker.Stop()

	// handleDue spawns a worker for every job that is due
	handleDue := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				next := o.nextRun()
				if next == nil {
					return
				}

				o.logger.Debug(
					"running refresh job",
					"name", next.job.Name(),
				)

				info := &workerInfo{
					job:   next.job,
					jobID: next.jobID,
					resCh: collectorCh,
				}

				go handleJob(ctx, info)
			}
		}
	}

	// Run the jobs due on boot
	handleDue()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("refresh orchestrator shut down")

			return nil
		case <-ticker.C:
			handleDue()
		case response := <-collectorCh:
			jRaw, ok := o.registeredJobs.Load(response.jobID)
			if !ok {
				o.logger.Error(
					"unable to load registered job",
					"id", response.jobID.String(),
				)

				continue
			}

			j, _ := jRaw.(Job)

			if response.error != nil {
				o.logger.Error(
					"refresh job failed",
					"name", j.Name(),
					"id", response.jobID.String(),
					"err", response.error,
				)
			} else {
				o.logger.Info(
					"refresh job completed",
					"name", j.Name(),
					"quotes", response.quotes,
					"resolved", response.resolved,
				)
			}

			// Failed runs are not retried early, the next regular run replaces them
			o.scheduleRun(time.Now().UTC().Add(j.Interval()), response.jobID, j)
		}
	}
}

// scheduleRun schedules a future job run
func (o *Orchestrator) scheduleRun(at time.Time, jobID xid.ID, j Job) {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	o.q.Push(scheduledRun{
		at:    at,
		jobID: jobID,
		job:   j,
	})
}

// nextRun pops the next due job run, as of the moment of calling
func (o *Orchestrator) nextRun() *scheduledRun {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	if o.q.Len() == 0 {
		return nil // every job is running
	}

	if o.q.Index(0).at.After(time.Now().UTC()) {
		return nil // the earliest run is in the future
	}

	return o.q.PopFront()
}
