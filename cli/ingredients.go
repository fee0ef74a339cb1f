package cli

import (
	"fmt"
	"os"

	"github.com/kutbudev/foodgram/pkg/repository"
	"github.com/spf13/cobra"
)

// NewLoadIngredientsCommand imports the ingredient catalog from a JSON or YAML file.
func NewLoadIngredientsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load-ingredients <file>",
		Short: "Import ingredients from a JSON or YAML file",
		Long: `Reads a list of {"name", "measurement_unit"} records and inserts the ones
that are not in the catalog yet. Existing (name, unit) pairs are left alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ingredients, err := repository.ReadIngredientFixtures(f, args[0])
			if err != nil {
				return err
			}

			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			added, err := repository.NewCatalogRepository(rt.db.DB).ImportIngredients(cmd.Context(), ingredients)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d ingredients (%d new, %d already present).\n",
				len(ingredients), added, int64(len(ingredients))-added)
			return nil
		},
	}
}
