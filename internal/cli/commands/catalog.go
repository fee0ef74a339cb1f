package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/kutbudev/foodgram/internal/api"
	"github.com/urfave/cli/v2"
)

func NewTagsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "List recipe tags",
		Action: func(c *cli.Context) error {
			tags, err := api.NewClient().ListTags(c.Context)
			if err != nil {
				return describe(err)
			}
			if len(tags) == 0 {
				fmt.Println("No tags yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSLUG\tCOLOR")
			for _, t := range tags {
				swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render("■")
				fmt.Fprintf(w, "%d\t%s\t%s\t%s %s\n", t.ID, t.Name, t.Slug, swatch, t.Color)
			}
			return w.Flush()
		},
	}
}

func NewIngredientsCommand() *cli.Command {
	return &cli.Command{
		Name:      "ingredients",
		Usage:     "Search ingredients by name prefix",
		ArgsUsage: "[prefix]",
		Action: func(c *cli.Context) error {
			ingredients, err := api.NewClient().ListIngredients(c.Context, c.Args().First())
			if err != nil {
				return describe(err)
			}
			if len(ingredients) == 0 {
				fmt.Println("No ingredients found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tUNIT")
			for _, i := range ingredients {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i.ID, i.Name, i.MeasurementUnit)
			}
			return w.Flush()
		},
	}
}
