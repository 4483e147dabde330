package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibbank/mortgageflex/internal/infrastructure/config"
	pgrepo "github.com/bibbank/mortgageflex/internal/infrastructure/postgres"
	pkgpostgres "github.com/bibbank/mortgageflex/pkg/postgres"
)

func migrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
		Long: `Apply or roll back the database schema.

The connection is read from the DB_* environment variables (or a .env file).
Migrations are embedded in the binary unless --dir points elsewhere.

Examples:
  mortgagectl migrate up
  mortgagectl migrate down --dir file://./internal/infrastructure/postgres/migrations`,
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "migration source URL overriding the embedded files")

	for _, direction := range []pkgpostgres.Direction{pkgpostgres.Up, pkgpostgres.Down} {
		cmd.AddCommand(&cobra.Command{
			Use:   direction.String(),
			Short: fmt.Sprintf("Migrate the schema %s", direction),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg := config.Load()
				if dir == "" {
					dir = cfg.MigrationsDir
				}
				v, err := pkgpostgres.Migrate(cfg.Postgres().DSN(), pgrepo.Migrations(dir), direction)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema %s complete, version %d\n", direction, v)
				return err
			},
		})
	}
	return cmd
}
