package cmd

import (
	"github.com/spf13/cobra"

	"github.com/meinhoongagan/hospital-app/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the Postgres appointment schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := db.Connect(cmd.Context(), cfg.Postgres, log)
		if err != nil {
			return err
		}
		defer db.Close(gdb)
		return db.Migrate(gdb, log)
	},
}
