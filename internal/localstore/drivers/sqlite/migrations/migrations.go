// Package migrations embeds the schema migration files for the sqlite
// key-value store driver.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
