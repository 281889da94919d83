package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/sig-0/fxquotes/storage/types"
)

// Job is a single periodically executed refresh job
type Job interface {
	// Name returns the human-readable name of the job
	Name() string

	// Interval returns the interval at which the job should run
	Interval() time.Duration

	// Run executes the job, yielding the refreshed quote batch
	Run(context.Context) ([]*types.Quote, error)
}

// Refresher refreshes the quote batch of a region
type Refresher interface {
	Refresh(context.Context, types.Region) ([]*types.Quote, error)
}

// RegionJob keeps a single region's quote batch warm
type RegionJob struct {
	refresher Refresher
	region    types.Region
	interval  time.Duration
}

// NewRegionJob creates a new refresh job for the given region
func NewRegionJob(r Refresher, region types.Region, interval time.Duration) *RegionJob {
	return &RegionJob{
		refresher: r,
		region:    region,
		interval:  interval,
	}
}

func (j *RegionJob) Name() string {
	return fmt.Sprintf("refresh-%s", j.region)
}

func (j *RegionJob) Interval() time.Duration {
	return j.interval
}

func (j *RegionJob) Run(ctx context.Context) ([]*types.Quote, error) {
	return j.refresher.Refresh(ctx, j.region)
}
