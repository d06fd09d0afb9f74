// Package migrations embeds the PostgreSQL schema migrations for the
// server-side vault store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
