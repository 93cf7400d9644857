// Package migrations holds the PostgreSQL schema of hacksphere.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the ordered set of schema changes, identified by file name.
var Migrations = migrate.NewMigrations()

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
