package storage

import (
	"context"

	"github.com/sig-0/fxquotes/storage/types"
)

// Storage is the append-only quote observation log
type Storage interface {
	// SaveQuote appends the given quote observation
	SaveQuote(context.Context, *types.Quote) error
}
