package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultPostgresTable is the table used when no custom table is configured.
// The schema is created by the migration shipped under migrations/.
const DefaultPostgresTable = "notification_store"

// Postgres is a Store keeping one row per key with a jsonb payload column.
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

// PostgresOption configures a Postgres store.
type PostgresOption func(*Postgres)

// WithPostgresTable overrides the table name. The table must have the same
// shape as DefaultPostgresTable.
func WithPostgresTable(table string) PostgresOption {
	return func(p *Postgres) {
		if table != "" {
			p.table = table
		}
	}
}

// NewPostgres creates a postgres-backed store over the provided pool.
func NewPostgres(pool *pgxpool.Pool, opts ...PostgresOption) (*Postgres, error) {
	if pool == nil {
		return nil, ErrNilClient
	}

	p := &Postgres{pool: pool, table: DefaultPostgresTable}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Postgres) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	var data []byte
	query := fmt.Sprintf(`SELECT data FROM %s WHERE key = $1`, p.table)
	if err := p.pool.QueryRow(ctx, query, key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to load key %q from postgres: %w", key, err)
	}
	return data, nil
}

func (p *Postgres) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, p.table)
	if _, err := p.pool.Exec(ctx, query, key, data); err != nil {
		return fmt.Errorf("failed to save key %q to postgres: %w", key, err)
	}
	return nil
}
