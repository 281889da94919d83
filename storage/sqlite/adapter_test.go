package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxquotes/storage/types"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "quotes.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestStorage_Open(t *testing.T) {
	t.Parallel()

	t.Run("migration is idempotent", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "quotes.db")

		first, err := Open(context.Background(), path)
		require.NoError(t, err)
		require.NoError(t, first.Close())

		second, err := Open(context.Background(), path)
		require.NoError(t, err)
		require.NoError(t, second.Close())
	})
}

func TestStorage_SaveQuote(t *testing.T) {
	t.Parallel()

	var (
		s   = openTestStorage(t)
		ctx = context.Background()

		buy         = 1180.5
		retrievedAt = time.Date(2026, time.January, 10, 12, 30, 0, 0, time.UTC)
	)

	require.NoError(t, s.SaveQuote(ctx, &types.Quote{
		Source:      "https://dolarhoy.com",
		Region:      types.RegionAR,
		BuyPrice:    &buy,
		RetrievedAt: retrievedAt,
	}))

	var (
		source, region string
		buyPrice       sql.NullFloat64
		sellPrice      sql.NullFloat64
		retrievedMs    int64
	)

	row := s.db.QueryRowContext(
		ctx,
		`SELECT source, buy_price, sell_price, region, retrieved_at FROM quotes`,
	)
	require.NoError(t, row.Scan(&source, &buyPrice, &sellPrice, &region, &retrievedMs))

	assert.Equal(t, "https://dolarhoy.com", source)
	assert.Equal(t, "ar", region)

	assert.True(t, buyPrice.Valid)
	assert.Equal(t, buy, buyPrice.Float64)

	// absent sides are stored as NULL, not zero
	assert.False(t, sellPrice.Valid)

	assert.Equal(t, retrievedAt.UnixMilli(), retrievedMs)
}

func TestStorage_SaveQuote_AppendOnly(t *testing.T) {
	t.Parallel()

	var (
		s   = openTestStorage(t)
		ctx = context.Background()
	)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.SaveQuote(ctx, &types.Quote{
			Source:      "https://wise.com",
			Region:      types.RegionBR,
			RetrievedAt: time.Now(),
		}))
	}

	var count int

	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&count))
	assert.Equal(t, 3, count)
}
