package postgres

import (
	"embed"

	pkgpostgres "github.com/bibbank/mortgageflex/pkg/postgres"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations is the schema shipped with the binary. A non-empty dir (for
// example "file://./migrations") overrides it.
func Migrations(dir string) pkgpostgres.MigrationSource {
	if dir != "" {
		return pkgpostgres.MigrationSource{URL: dir}
	}
	return pkgpostgres.MigrationSource{FS: migrationFiles, Path: "migrations"}
}
