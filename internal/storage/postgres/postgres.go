package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/FranksOps/uagen/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ensure postgresBackend implements storage.Backend
var _ storage.Backend = (*postgresBackend)(nil)

type postgresBackend struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS user_agents (
	ua TEXT PRIMARY KEY,
	seq BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

// New creates a new Postgres-backed storage.Backend.
func New(ctx context.Context, dsn string) (storage.Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	_, err = pool.Exec(ctx, schema)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &postgresBackend{pool: pool}, nil
}

func (b *postgresBackend) Load(ctx context.Context) (*storage.Set, error) {
	rows, err := b.pool.Query(ctx, `SELECT ua FROM user_agents ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query user agents: %w", err)
	}

	uas, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect user agents: %w", err)
	}

	return storage.NewSet(uas...), nil
}

func (b *postgresBackend) Save(ctx context.Context, set *storage.Set) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", storage.ErrWriteFailure, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var base int64
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(seq), -1) + 1 FROM user_agents`).Scan(&base); err != nil {
		return fmt.Errorf("%w: read sequence: %v", storage.ErrWriteFailure, err)
	}

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for i, ua := range set.Items() {
		batch.Queue(`INSERT INTO user_agents (ua, seq, created_at) VALUES ($1, $2, $3) ON CONFLICT (ua) DO NOTHING`,
			ua, base+int64(i), now)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%w: insert: %v", storage.ErrWriteFailure, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", storage.ErrWriteFailure, err)
	}
	return nil
}

func (b *postgresBackend) Close() error {
	b.pool.Close()
	return nil
}
