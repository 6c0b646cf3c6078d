package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/SmitUplenchwar2687/Retrace/internal/clock"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS timelines (
	timeline_id   TEXT PRIMARY KEY,
	name          TEXT NOT NULL UNIQUE,
	data          BLOB NOT NULL,
	created_at_ns INTEGER NOT NULL
)`

// SQLiteStorage keeps timelines in a single SQLite table.
type SQLiteStorage struct {
	db    *sql.DB
	clock clock.Clock
}

// NewSQLiteStorage opens (or creates) the database at path and ensures the
// schema exists. ":memory:" gives a private in-memory database. Saves are
// stamped with c; a nil clock uses real time.
func NewSQLiteStorage(path string, c clock.Clock) (*SQLiteStorage, error) {
	if c == nil {
		c = clock.NewRealClock()
	}
	if path == "" {
		path = "retrace.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create timelines table: %w", err)
	}
	return &SQLiteStorage{db: db, clock: c}, nil
}

func (s *SQLiteStorage) Save(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	query := `
		INSERT INTO timelines (timeline_id, name, data, created_at_ns)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			created_at_ns = excluded.created_at_ns
	`
	_, err := s.db.ExecContext(ctx, query, uuid.New().String(), name, data, s.clock.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("insert timeline: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM timelines WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, unavailable(name, nil)
	}
	if err != nil {
		return nil, unavailable(name, err)
	}
	return data, nil
}

func (s *SQLiteStorage) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM timelines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list timelines: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan timeline name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SavedAt returns when name was last saved.
func (s *SQLiteStorage) SavedAt(ctx context.Context, name string) (time.Time, error) {
	var ns int64
	err := s.db.QueryRowContext(ctx, `SELECT created_at_ns FROM timelines WHERE name = ?`, name).Scan(&ns)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, unavailable(name, nil)
	}
	if err != nil {
		return time.Time{}, unavailable(name, err)
	}
	return time.Unix(0, ns), nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
