package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MigrateCmd creates or updates the database schema.
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			if _, err := openDB(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema migrated on %s\n", cfg.DBDriver)
			return nil
		},
	}
}
