package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/sig-0/fxquotes/storage/types"
)

const schema = `CREATE TABLE IF NOT EXISTS quotes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT,
	buy_price REAL,
	sell_price REAL,
	region TEXT,
	retrieved_at INTEGER
);`

const saveQuote = `INSERT INTO quotes (source, buy_price, sell_price, region, retrieved_at)
VALUES (?, ?, ?, ?, ?)`

// Storage is the SQLite observation log
type Storage struct {
	db *sql.DB
}

// Open opens (and migrates) the SQLite database at the given path
func Open(ctx context.Context, path string) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("unable to create DB directory: %w", err)
		}
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		path,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open DB: %w", err)
	}

	// Single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("unable to migrate DB: %w", err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) SaveQuote(ctx context.Context, q *types.Quote) error {
	_, err := s.db.ExecContext(
		ctx,
		saveQuote,
		q.Source.String(),
		nullFloat(q.BuyPrice),
		nullFloat(q.SellPrice),
		q.Region.String(),
		q.RetrievedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("unable to save quote: %w", err)
	}

	return nil
}

// Close closes the underlying DB
func (s *Storage) Close() error {
	return s.db.Close()
}

// nullFloat converts an optional price to a nullable column value
func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{
		Float64: *v,
		Valid:   true,
	}
}
