// Package sqlite provides a SQLite-backed vault store for local,
// single-machine use.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/q42jaap/opvault/internal/common"
	"github.com/q42jaap/opvault/internal/dbx"
	"github.com/q42jaap/opvault/internal/item"
	"github.com/q42jaap/opvault/internal/vault/sqlite/migrations"
)

// Store implements vault.Store over a DBTX (either *sql.DB or *sql.Tx).
// Item snapshots are stored as JSON documents alongside a few indexed
// columns.
type Store struct {
	db dbx.DBTX
}

// NewStore returns a Store bound to the given DBTX.
func NewStore(db dbx.DBTX) *Store {
	return &Store{db: db}
}

// Open opens (or creates) the SQLite database at dsn, runs migrations and
// returns a ready store together with the underlying handle for closing.
func Open(ctx context.Context, dsn string) (*Store, *sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", common.ErrStore, err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("%w: %w", common.ErrStore, err)
	}
	return NewStore(db), db, nil
}

// RunMigrations sets up goose with the embedded migrations and applies them.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// PersistItem upserts the item by id and returns the committed snapshot.
func (s *Store) PersistItem(ctx context.Context, it *item.Item) (*item.Item, error) {
	data, err := json.Marshal(it)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStore, err)
	}

	query := `INSERT INTO items (id, title, version, data, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				version = excluded.version,
				data = excluded.data,
				updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		it.ID, it.Title, it.Version, string(data),
		it.CreatedAt.Format(time.RFC3339Nano), it.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to upsert item: %w", common.ErrStore, err)
	}

	return s.FetchItem(ctx, it.ID)
}

// FetchItem returns the stored snapshot of a single item.
func (s *Store) FetchItem(ctx context.Context, id string) (*item.Item, error) {
	query := `SELECT data FROM items WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: item %s", common.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: query row scan failed: %w", common.ErrStore, err)
	}

	var it item.Item
	if err := json.Unmarshal([]byte(data), &it); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStore, err)
	}
	return &it, nil
}

// DeleteItem removes the item row. It expects exactly one row to be affected.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete item: %w", common.ErrStore, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get rows affected: %w", common.ErrStore, err)
	}
	if ra == 0 {
		return fmt.Errorf("%w: item %s", common.ErrNotFound, id)
	}
	return nil
}
