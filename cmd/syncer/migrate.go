package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"insta_syncer/internal/storage/postgres"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			db, err := ctx.database()
			if err != nil {
				return err
			}

			version, err := postgres.RunMigrations(db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema at version %d\n", version)
			return nil
		},
	}
}
