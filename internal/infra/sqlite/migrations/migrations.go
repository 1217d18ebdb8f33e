// Package migrations holds the schema of the SQLite score archive.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
