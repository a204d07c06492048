// Package migrations embeds the SQL migrations of the reference store.
package migrations

import "embed"

// FS holds the migration files, named NNN_name.up.sql and NNN_name.down.sql.
//
//go:embed *.sql
var FS embed.FS
