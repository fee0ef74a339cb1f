package cli

import (
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates or updates the database schema.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.db.Migrate(); err != nil {
				return err
			}
			rt.log.Info("database schema is up to date")
			return nil
		},
	}
}
