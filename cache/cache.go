package cache

import (
	"context"

	"github.com/sig-0/fxquotes/storage/types"
)

// Cache is a per-region quote batch cache.
// Every region's entry carries its own time-to-live
type Cache interface {
	// Get returns the cached batch for the region, if present and fresh
	Get(context.Context, types.Region) ([]*types.Quote, bool, error)

	// Set stores the batch for the region, resetting its time-to-live
	Set(context.Context, types.Region, []*types.Quote) error
}
