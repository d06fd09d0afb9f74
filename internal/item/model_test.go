package item

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldsByLabel_CaseSensitive(t *testing.T) {
	it := &Item{Fields: []Field{
		{ID: "1", Label: "username", Value: "a"},
		{ID: "2", Label: "Username", Value: "b"},
		{ID: "3", Label: "notes", Value: "c"},
	}}

	got := it.FieldsByLabel([]string{"username"})
	require.Len(t, got, 1)
	require.Equal(t, "1", got[0].ID)

	got = it.FieldsByLabel([]string{"username", "notes"})
	require.Len(t, got, 2)
	require.Equal(t, []string{"1", "3"}, []string{got[0].ID, got[1].ID})

	require.Empty(t, it.FieldsByLabel([]string{"absent"}))
}

func TestFieldsByType_CaseInsensitiveTokens(t *testing.T) {
	it := &Item{Fields: []Field{
		{ID: "1", Type: FieldTypeString},
		{ID: "2", Type: FieldTypeConcealed},
		{ID: "3", Type: FieldTypeString},
	}}

	got := it.FieldsByType([]string{"string"})
	require.Len(t, got, 2)
	require.Equal(t, "1", got[0].ID)
	require.Equal(t, "3", got[1].ID)

	require.Len(t, it.FieldsByType([]string{"CONCEALED"}), 1)
	require.Empty(t, it.FieldsByType([]string{"URL"}))
}

func TestSetPrimaryURL_ReplacesExistingPrimary(t *testing.T) {
	it := &Item{}
	it.SetPrimaryURL("https://a.example")
	it.SetPrimaryURL("https://b.example")

	require.Len(t, it.URLs, 1)
	require.True(t, it.URLs[0].Primary)
	require.Equal(t, "https://b.example", it.URLs[0].Href)
}

func TestRefreshReferences(t *testing.T) {
	it := testItem()
	a := NewAssembler(it, AssembleOptions{})
	ctx := context.Background()

	require.NoError(t, a.Apply(ctx, FieldSpec{Path: "username", Type: "text", Value: "alice"}))
	require.NoError(t, a.Apply(ctx, FieldSpec{Path: "details.pin", Type: "text", Value: "1234"}))
	it.RefreshReferences()

	require.Equal(t, "op://Private/Created Login/username", it.Fields[0].Reference)
	require.Equal(t, "op://Private/Created Login/details/pin", it.Fields[1].Reference)
}

func TestRefreshReferences_FallsBackToVaultID(t *testing.T) {
	it := testItem()
	it.Vault.Name = ""
	a := NewAssembler(it, AssembleOptions{})

	require.NoError(t, a.Apply(context.Background(), FieldSpec{Path: "username", Type: "text", Value: "x"}))
	it.RefreshReferences()

	require.Equal(t, "op://vault-1/Created Login/username", it.Fields[0].Reference)
}

func TestItemJSONShape(t *testing.T) {
	it := testItem()
	a := NewAssembler(it, AssembleOptions{})
	require.NoError(t, a.Apply(context.Background(), FieldSpec{Path: "password", Type: "password", Value: "hunter2"}))
	it.SetPrimaryURL("https://example.com")

	b, err := json.Marshal(it)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	require.Equal(t, "item-1", m["id"])
	require.Equal(t, "Login", m["category"])
	require.Contains(t, m, "created_at")
	require.Contains(t, m, "updated_at")

	fields := m["fields"].([]any)
	field := fields[0].(map[string]any)
	require.Equal(t, "CONCEALED", field["type"])
	require.Equal(t, "PASSWORD", field["purpose"])

	details := field["password_details"].(map[string]any)
	require.Contains(t, details, "strength")
	require.NotContains(t, details, "generated", "generated=false must be omitted")

	urls := m["urls"].([]any)
	url := urls[0].(map[string]any)
	require.Equal(t, true, url["primary"])
	require.Equal(t, "https://example.com", url["href"])
}
