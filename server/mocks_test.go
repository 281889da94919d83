package server

import (
	"context"

	"github.com/sig-0/fxquotes/storage/types"
)

type getQuotesDelegate func(context.Context, types.Region) ([]*types.Quote, error)

type mockQuoter struct {
	getQuotesFn getQuotesDelegate
}

func (m *mockQuoter) GetQuotes(ctx context.Context, region types.Region) ([]*types.Quote, error) {
	if m.getQuotesFn != nil {
		return m.getQuotesFn(ctx, region)
	}

	return nil, nil
}
