package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/FranksOps/uagen/internal/storage"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ensure sqliteBackend implements storage.Backend
var _ storage.Backend = (*sqliteBackend)(nil)

type sqliteBackend struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS user_agents (
	ua TEXT PRIMARY KEY,
	seq INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);
`

// New creates a new SQLite-backed storage.Backend.
func New(dsn string) (storage.Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		if isNotADB(err) {
			return nil, fmt.Errorf("%w: %s: %v", storage.ErrCorruptStore, dsn, err)
		}
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &sqliteBackend{db: db}, nil
}

func isNotADB(err error) bool {
	var se *msqlite.Error
	return errors.As(err, &se) && (se.Code()&0xff) == sqlite3.SQLITE_NOTADB
}

func (b *sqliteBackend) Load(ctx context.Context) (*storage.Set, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT ua FROM user_agents ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query user agents: %w", err)
	}
	defer rows.Close()

	set := storage.NewSet()
	for rows.Next() {
		var ua string
		if err := rows.Scan(&ua); err != nil {
			return nil, fmt.Errorf("scan user agent: %w", err)
		}
		set.Add(ua)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user agents: %w", err)
	}

	return set, nil
}

// Save inserts every entry not already stored, in a single transaction.
// Stored rows are never updated or removed.
func (b *sqliteBackend) Save(ctx context.Context, set *storage.Set) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", storage.ErrWriteFailure, err)
	}
	defer func() { _ = tx.Rollback() }()

	var base int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), -1) + 1 FROM user_agents`).Scan(&base); err != nil {
		return fmt.Errorf("%w: read sequence: %v", storage.ErrWriteFailure, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO user_agents (ua, seq, created_at) VALUES (?, ?, ?) ON CONFLICT(ua) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("%w: prepare: %v", storage.ErrWriteFailure, err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, ua := range set.Items() {
		if _, err := stmt.ExecContext(ctx, ua, base+int64(i), now); err != nil {
			return fmt.Errorf("%w: insert: %v", storage.ErrWriteFailure, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", storage.ErrWriteFailure, err)
	}
	return nil
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}
