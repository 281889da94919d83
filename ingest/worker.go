package ingest

import (
	"context"
	"time"

	"github.com/rs/xid"
)

// scheduledRun is a single scheduled job run
type scheduledRun struct {
	at    time.Time
	job   Job
	jobID xid.ID
}

// Less orders scheduled runs by their due-time (earliest first)
func (a scheduledRun) Less(b scheduledRun) bool {
	return a.at.Before(b.at)
}

// workerInfo is the work context for the job routine
type workerInfo struct {
	job   Job
	resCh chan<- *workerResponse
	jobID xid.ID
}

// workerResponse is the job routine response
type workerResponse struct {
	error    error  // encountered error, if any
	quotes   int    // number of quotes in the refreshed batch
	resolved int    // number of quotes with at least one price side
	jobID    xid.ID // the job ID
}

// handleJob executes a single job run
func handleJob(ctx context.Context, info *workerInfo) {
	quotes, err := info.job.Run(ctx)

	response := &workerResponse{
		error:  err,
		quotes: len(quotes),
		jobID:  info.jobID,
	}

	for _, q := range quotes {
		if q.BuyPrice != nil || q.SellPrice != nil {
			response.resolved++
		}
	}

	select {
	case <-ctx.Done():
	case info.resCh <- response:
	}
}
