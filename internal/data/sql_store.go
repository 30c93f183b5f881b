package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TomasB/geoloc/internal/apperr"
	_ "modernc.org/sqlite"
)

const rangeQuery = `SELECT country_code, city FROM iptable WHERE ? BETWEEN "start" AND "end" LIMIT 1`

// SQLStore implements RangeStore over the iptable relation of a SQLite database.
type SQLStore struct {
	db *sql.DB
}

// OpenSQLStore opens the SQLite database at path and checks it is reachable.
func OpenSQLStore(ctx context.Context, path string) (RangeStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach sqlite database: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// QueryRange runs the BETWEEN query and returns its first row.
func (s *SQLStore) QueryRange(ctx context.Context, addr uint32) (string, string, error) {
	var country, city string
	err := s.db.QueryRowContext(ctx, rangeQuery, int64(addr)).Scan(&country, &city)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", apperr.ErrLookup
	}
	if err != nil {
		return "", "", fmt.Errorf("range query failed: %w", err)
	}
	return country, city, nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
