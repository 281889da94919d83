package ingest

import (
	"context"
	"time"

	"github.com/sig-0/fxquotes/storage/types"
)

type (
	nameDelegate     func() string
	intervalDelegate func() time.Duration
	runDelegate      func(context.Context) ([]*types.Quote, error)
	refreshDelegate  func(context.Context, types.Region) ([]*types.Quote, error)
)

type mockJob struct {
	nameFn     nameDelegate
	intervalFn intervalDelegate
	runFn      runDelegate
}

func (m *mockJob) Name() string {
	if m.nameFn != nil {
		return m.nameFn()
	}

	return ""
}

func (m *mockJob) Interval() time.Duration {
	if m.intervalFn != nil {
		return m.intervalFn()
	}

	return 0
}

func (m *mockJob) Run(ctx context.Context) ([]*types.Quote, error) {
	if m.runFn != nil {
		return m.runFn(ctx)
	}

	return nil, nil
}

type mockRefresher struct {
	refreshFn refreshDelegate
}

func (m *mockRefresher) Refresh(ctx context.Context, region types.Region) ([]*types.Quote, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, region)
	}

	return nil, nil
}
