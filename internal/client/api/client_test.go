package api

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/q42jaap/opvault/internal/auth"
	"github.com/q42jaap/opvault/internal/common"
	"github.com/q42jaap/opvault/internal/items"
	"github.com/q42jaap/opvault/internal/logging"
	"github.com/q42jaap/opvault/internal/secret"
	"github.com/q42jaap/opvault/internal/server/httpapi"
	"github.com/q42jaap/opvault/internal/vault/inmemory"
)

func newServerAndClient(t *testing.T) *Client {
	t.Helper()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc := items.NewService(inmemory.NewStore(), secret.NewGenerator(), log)

	hash, err := auth.HashSecret("service-secret")
	require.NoError(t, err)

	router := httpapi.NewRouter(httpapi.RouterOptions{
		Items:             svc,
		Logger:            log,
		SecretKey:         []byte("client-test-key"),
		AccountID:         "svc-account",
		AccountSecretHash: hash,
		TokenValidity:     time.Hour,
	})

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return NewClient(ts.URL, 5*time.Second)
}

func login(t *testing.T, c *Client) {
	t.Helper()
	require.NoError(t, c.Login(context.Background(), "svc-account", "service-secret"))
}

func TestClient_LoginFailure(t *testing.T) {
	c := newServerAndClient(t)

	err := c.Login(context.Background(), "svc-account", "wrong")
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.False(t, c.LoggedIn())
}

func TestClient_RequestsWithoutLoginFail(t *testing.T) {
	c := newServerAndClient(t)

	_, err := c.GetItem(context.Background(), "any")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestClient_CreateGetEditDelete(t *testing.T) {
	c := newServerAndClient(t)
	login(t, c)
	ctx := context.Background()

	created, err := c.CreateItem(ctx, CreateItemRequest{
		Vault:    "vault-1",
		Category: "Login",
		Title:    "Created Login",
		Fields: []FieldSpec{
			{Path: "username", Type: "text", Value: "created"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, int64(1), created.Version)

	got, err := c.GetItem(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Created Login", got.Title)
	require.Len(t, got.Fields, 1)

	title := "Updated Login"
	edited, err := c.EditItem(ctx, created.ID, EditItemRequest{
		Title:  &title,
		Fields: []FieldSpec{{Path: "username", Type: "text", Value: "updated"}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), edited.Version)
	require.Equal(t, "updated", edited.Fields[0].Value)
	require.Equal(t, got.Fields[0].ID, edited.Fields[0].ID)

	require.NoError(t, c.DeleteItem(ctx, created.ID))

	_, err = c.GetItem(ctx, created.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestClient_FilterFields(t *testing.T) {
	c := newServerAndClient(t)
	login(t, c)
	ctx := context.Background()

	created, err := c.CreateItem(ctx, CreateItemRequest{
		Vault:    "vault-1",
		Category: "Login",
		Title:    "Filtered",
		Fields: []FieldSpec{
			{Path: "username", Type: "text", Value: "alice"},
			{Path: "extra.username", Type: "text", Value: "nested"},
		},
	})
	require.NoError(t, err)

	fields, single, err := c.FilterFields(ctx, created.ID, []string{"username"}, nil)
	require.NoError(t, err)
	require.False(t, single, "two matches arrive as an array")
	require.Len(t, fields, 2)

	fields, single, err = c.FilterFields(ctx, created.ID, nil, []string{"string"})
	require.NoError(t, err)
	require.False(t, single)
	require.Len(t, fields, 2)

	_, err = c.EditItem(ctx, created.ID, EditItemRequest{
		Fields: []FieldSpec{{Path: "pin", Type: "password", Value: "0000"}},
	})
	require.NoError(t, err)

	fields, single, err = c.FilterFields(ctx, created.ID, []string{"pin"}, nil)
	require.NoError(t, err)
	require.True(t, single, "a lone match arrives as one object")
	require.Equal(t, "0000", fields[0].Value)
}
