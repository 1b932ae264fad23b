package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
)

// ClickHouseBarStore implements BarStore for ClickHouse. Bars fetched during
// training are recorded here so the historical endpoint can serve a recent
// copy when the provider is down.
type ClickHouseBarStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseBarStore creates ClickHouse-backed bar storage.
func NewClickHouseBarStore(db *sql.DB, table string) repository.BarStore {
	return &ClickHouseBarStore{db: db, table: table}
}

func (s *ClickHouseBarStore) StoreBatch(ctx context.Context, ticker string, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	// Multi-row VALUES insert, chunked to limit statement size.
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*3)
		for _, b := range bars[start:end] {
			if b.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?)")
			args = append(args, ticker, b.Date, b.Close)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ticker, d, close) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseBarStore) Query(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error) {
	q := fmt.Sprintf("SELECT d, max(close) FROM %s WHERE ticker = ? AND d >= ? AND d <= ? GROUP BY d ORDER BY d ASC", s.table)
	rows, err := s.db.QueryContext(ctx, q, ticker, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Close); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (s *ClickHouseBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseBarStore) Close() error {
	return nil // Connection pool managed by pkg/clickhouse
}
