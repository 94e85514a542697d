package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const DefaultSnapshotName = "default"

type pgExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps each named snapshot as one row of booking_snapshots.
type PostgresStore struct {
	db   pgExecutor
	name string
}

func NewPostgresStore(db pgExecutor, name string) *PostgresStore {
	if name == "" {
		name = DefaultSnapshotName
	}
	return &PostgresStore{db: db, name: name}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS booking_snapshots (
		name       TEXT PRIMARY KEY,
		payload    BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("create booking_snapshots: %w", err)
	}
	return nil
}

func (s *PostgresStore) Read(ctx context.Context) (io.ReadCloser, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, `SELECT payload FROM booking_snapshots WHERE name=$1`, s.name).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot %s: %w", s.name, err)
	}
	return io.NopCloser(bytes.NewReader(payload)), nil
}

func (s *PostgresStore) Write(ctx context.Context, data []byte) error {
	_, err := s.db.Exec(ctx, `INSERT INTO booking_snapshots (name, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`, s.name, data)
	if err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", s.name, err)
	}
	return nil
}
