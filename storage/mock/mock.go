package mock

import (
	"context"

	"github.com/sig-0/fxquotes/storage/types"
)

type SaveQuoteDelegate func(context.Context, *types.Quote) error

type Storage struct {
	SaveQuoteFn SaveQuoteDelegate
}

func (m *Storage) SaveQuote(ctx context.Context, quote *types.Quote) error {
	if m.SaveQuoteFn != nil {
		return m.SaveQuoteFn(ctx, quote)
	}

	return nil
}
