// Package postgres provides a PostgreSQL-backed vault store for shared
// deployments.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/q42jaap/opvault/internal/common"
	"github.com/q42jaap/opvault/internal/dbx"
	"github.com/q42jaap/opvault/internal/item"
	"github.com/q42jaap/opvault/internal/vault/postgres/migrations"
)

// Store implements vault.Store over a DBTX (*sql.DB or *sql.Tx) using a
// JSONB document column per item.
type Store struct {
	db dbx.DBTX
}

// NewStore returns a Store bound to the given DBTX.
func NewStore(db dbx.DBTX) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL via the pgx stdlib driver, runs migrations
// and returns a ready store together with the underlying handle.
func Open(ctx context.Context, dsn string) (*Store, *sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", common.ErrStore, err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("%w: %w", common.ErrStore, err)
	}
	return NewStore(db), db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// PersistItem upserts the item by id and returns the committed snapshot.
func (s *Store) PersistItem(ctx context.Context, it *item.Item) (*item.Item, error) {
	data, err := json.Marshal(it)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStore, err)
	}

	query := `
		INSERT INTO items (id, title, version, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			title = EXCLUDED.title,
			version = EXCLUDED.version,
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at;
	`
	_, err = s.db.ExecContext(ctx, query,
		it.ID, it.Title, it.Version, string(data), it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to upsert item: %w", common.ErrStore, err)
	}

	return s.FetchItem(ctx, it.ID)
}

// FetchItem returns the stored snapshot of a single item.
func (s *Store) FetchItem(ctx context.Context, id string) (*item.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM items WHERE id = $1`, id)

	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: item %s", common.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: query row scan failed: %w", common.ErrStore, err)
	}

	var it item.Item
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStore, err)
	}
	return &it, nil
}

// DeleteItem removes the item row. It expects exactly one row to be affected.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
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
