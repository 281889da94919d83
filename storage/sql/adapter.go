package sql

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/sig-0/fxquotes/storage/types"
)

const saveQuote = `INSERT INTO quotes (source, buy_price, sell_price, region, retrieved_at)
VALUES ($1, $2, $3, $4, $5)`

// numericScale is the number of decimal places stored for prices
const numericScale = 6

// DBTX is the subset of pgx used by the storage (satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx)
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
}

// Storage is the Postgres observation log
type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) *Storage {
	return &Storage{
		db: db,
	}
}

func (s *Storage) SaveQuote(ctx context.Context, q *types.Quote) error {
	_, err := s.db.Exec(
		ctx,
		saveQuote,
		q.Source.String(),
		floatToNumeric(q.BuyPrice),
		floatToNumeric(q.SellPrice),
		q.Region.String(),
		timeToTimestampz(q.RetrievedAt),
	)
	if err != nil {
		return fmt.Errorf("unable to save quote: %w", err)
	}

	return nil
}

// floatToNumeric converts the optional float value to postgres numeric
func floatToNumeric(value *float64) pgtype.Numeric {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return pgtype.Numeric{}
	}

	// arbitrary precision coefficient, rounded to 6dp
	d := decimal.NewFromFloat(*value).Round(numericScale)

	return pgtype.Numeric{
		Int:   d.Coefficient(),
		Exp:   d.Exponent(),
		Valid: true,
	}
}

// timeToTimestampz converts the time value to postgres timestamp
func timeToTimestampz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{
		Time:  t.UTC(),
		Valid: true,
	}
}
