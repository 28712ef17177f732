package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB keeps key-value documents in a SQL table. The same schema works on
// Postgres (pgx) and SQLite; only the placeholders differ.
type DB struct {
	Client *sql.DB

	getQuery string
	setQuery string
	delQuery string
}

const kvSchema = `
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`

// NewPostgres creates a Postgres connection with sane defaults and ensures
// the kv table exists.
func NewPostgres(ctx context.Context, connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return newDB(ctx, db, postgresQueries)
}

type kvQueries struct{ get, set, del string }

var postgresQueries = kvQueries{
	get: `SELECT value FROM kv WHERE key = $1`,
	set: `INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	del: `DELETE FROM kv WHERE key = $1`,
}

var sqliteQueries = kvQueries{
	get: `SELECT value FROM kv WHERE key = ?`,
	set: `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	del: `DELETE FROM kv WHERE key = ?`,
}

func newDB(ctx context.Context, db *sql.DB, q kvQueries) (*DB, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := db.ExecContext(ctx, kvSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate kv: %w", err)
	}
	return &DB{Client: db, getQuery: q.get, setQuery: q.set, delQuery: q.del}, nil
}

// Get returns the value stored at key.
func (d *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := d.Client.QueryRowContext(ctx, d.getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set upserts value at key in a single statement.
func (d *DB) Set(ctx context.Context, key, value string) error {
	_, err := d.Client.ExecContext(ctx, d.setQuery, key, value, time.Now().UTC())
	return err
}

// Remove deletes key.
func (d *DB) Remove(ctx context.Context, key string) error {
	_, err := d.Client.ExecContext(ctx, d.delQuery, key)
	return err
}

// Healthy pings the database.
func (d *DB) Healthy(ctx context.Context) bool {
	if d == nil || d.Client == nil {
		return false
	}
	return d.Client.PingContext(ctx) == nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
