package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/q42jaap/opvault/internal/common"
	"github.com/q42jaap/opvault/internal/item"
)

// Tests in this file need a running PostgreSQL instance; they are skipped
// unless OPVAULT_TEST_DATABASE_DSN is set.
func setupStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("OPVAULT_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("OPVAULT_TEST_DATABASE_DSN not set")
	}
	s, db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM items`)
		_ = db.Close()
	})
	return s
}

func sampleItem(id string) *item.Item {
	now := time.Now().UTC()
	return &item.Item{
		ID:        id,
		Title:     "Created Login",
		Version:   1,
		Vault:     item.VaultRef{ID: "vault-1"},
		Category:  item.CategoryLogin,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPersistFetchDelete(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	committed, err := s.PersistItem(ctx, sampleItem("pg-item-1"))
	require.NoError(t, err)
	require.Equal(t, "pg-item-1", committed.ID)

	got, err := s.FetchItem(ctx, "pg-item-1")
	require.NoError(t, err)
	require.Equal(t, committed.Title, got.Title)

	require.NoError(t, s.DeleteItem(ctx, "pg-item-1"))

	_, err = s.FetchItem(ctx, "pg-item-1")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPersist_Upsert(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	it := sampleItem("pg-item-2")
	_, err := s.PersistItem(ctx, it)
	require.NoError(t, err)

	it.Version = 2
	it.Title = "Updated"
	committed, err := s.PersistItem(ctx, it)
	require.NoError(t, err)
	require.Equal(t, int64(2), committed.Version)
	require.Equal(t, "Updated", committed.Title)
}

func TestDelete_Absent(t *testing.T) {
	s := setupStore(t)
	err := s.DeleteItem(context.Background(), "pg-missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}
