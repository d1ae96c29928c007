package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection with sane defaults and applies the
// schema migration.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &DB{Client: db}, nil
}

// migrate applies the schema. The unique index on
// (student_id, course, lecturer, marked_on) is what makes the duplicate
// check-in race safe across server instances.
func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		username      TEXT NOT NULL,
		email         TEXT NOT NULL,
		matric_number TEXT NOT NULL,
		photo_url     TEXT,
		qr_code_url   TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id          UUID PRIMARY KEY,
		student_id  UUID NOT NULL REFERENCES students(id),
		lecturer    TEXT NOT NULL DEFAULT 'Unknown',
		course      TEXT NOT NULL DEFAULT 'Unknown',
		marked_on   DATE NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_once_per_day
		ON attendance (student_id, course, lecturer, marked_on);
	CREATE INDEX IF NOT EXISTS idx_attendance_student ON attendance (student_id);
	`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
