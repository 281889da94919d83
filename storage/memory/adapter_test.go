package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxquotes/storage/types"
)

func TestStorage_SaveQuote(t *testing.T) {
	t.Parallel()

	t.Run("append only, in order", func(t *testing.T) {
		t.Parallel()

		var (
			s   = NewStorage()
			buy = 5.31
			loc = time.FixedZone("BRT", -3*60*60)
		)

		require.NoError(t, s.SaveQuote(context.Background(), &types.Quote{
			Source:      "https://wise.com",
			Region:      types.RegionBR,
			BuyPrice:    &buy,
			RetrievedAt: time.Date(2026, time.January, 10, 9, 0, 0, 0, loc),
		}))
		require.NoError(t, s.SaveQuote(context.Background(), &types.Quote{
			Source: "https://nubank.com.br",
			Region: types.RegionBR,
		}))

		quotes := s.Quotes()

		require.Len(t, quotes, 2)
		assert.Equal(t, types.Source("https://wise.com"), quotes[0].Source)
		assert.Equal(t, time.UTC, quotes[0].RetrievedAt.Location())
		assert.Equal(t, types.Source("https://nubank.com.br"), quotes[1].Source)
		assert.Nil(t, quotes[1].BuyPrice)
	})

	t.Run("concurrent saves", func(t *testing.T) {
		t.Parallel()

		var (
			s  = NewStorage()
			wg sync.WaitGroup
		)

		for i := 0; i < 50; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_ = s.SaveQuote(context.Background(), &types.Quote{Region: types.RegionAR})
			}()
		}

		wg.Wait()

		assert.Equal(t, 50, s.Len())
	})
}
