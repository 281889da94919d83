package quotes

import (
	"context"

	"github.com/sig-0/fxquotes/storage/types"
)

type fetchDelegate func(context.Context, types.Source) ([]byte, error)

type mockFetcher struct {
	fetchFn fetchDelegate
}

func (m *mockFetcher) Fetch(ctx context.Context, source types.Source) ([]byte, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, source)
	}

	return nil, nil
}

type (
	getDelegate func(context.Context, types.Region) ([]*types.Quote, bool, error)
	setDelegate func(context.Context, types.Region, []*types.Quote) error
)

type mockCache struct {
	getFn getDelegate
	setFn setDelegate
}

func (m *mockCache) Get(ctx context.Context, region types.Region) ([]*types.Quote, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, region)
	}

	return nil, false, nil
}

func (m *mockCache) Set(ctx context.Context, region types.Region, quotes []*types.Quote) error {
	if m.setFn != nil {
		return m.setFn(ctx, region, quotes)
	}

	return nil
}
