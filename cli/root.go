// Package cli holds the cobra commands of the foodgram-api server binary.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the foodgram-api command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "foodgram-api",
		Short: "Foodgram API server and administration commands",
		Long: `foodgram-api runs the Foodgram REST API and provides the administration
commands around it: schema migrations, ingredient import and tag management.

Examples:
  foodgram-api serve
  foodgram-api migrate
  foodgram-api load-ingredients data/ingredients.json
  foodgram-api create-tag --name Breakfast --color "#E26C2D" --slug breakfast`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewLoadIngredientsCommand())
	cmd.AddCommand(NewCreateTagCommand())
	cmd.AddCommand(NewConfigCommand())

	return cmd
}
