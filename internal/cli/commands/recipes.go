package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/kutbudev/foodgram/internal/api"
	"github.com/kutbudev/foodgram/internal/models"
	"github.com/urfave/cli/v2"
)

// NewRecipesCommand creates all subcommands for the 'recipes' command group.
func NewRecipesCommand() *cli.Command {
	return &cli.Command{
		Name:    "recipes",
		Aliases: []string{"r"},
		Usage:   "Browse and manage recipes",
		Subcommands: []*cli.Command{
			recipesListCmd(),
			recipesShowCmd(),
			recipesBrowseCmd(),
			recipesDeleteCmd(),
		},
	}
}

func recipeFilterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "tag",
			Aliases: []string{"t"},
			Usage:   "Tag slug, repeatable (any match)",
		},
		&cli.UintFlag{
			Name:    "author",
			Aliases: []string{"a"},
			Usage:   "Author user ID",
		},
		&cli.BoolFlag{
			Name:  "favorited",
			Usage: "Only recipes you favorited",
		},
		&cli.BoolFlag{
			Name:  "in-cart",
			Usage: "Only recipes in your shopping cart",
		},
		&cli.IntFlag{
			Name:  "page",
			Usage: "Page number",
			Value: 1,
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Recipes per page (server default when 0)",
		},
	}
}

func recipeFilter(c *cli.Context) api.RecipeFilter {
	return api.RecipeFilter{
		Tags:           c.StringSlice("tag"),
		Author:         c.Uint("author"),
		Favorited:      c.Bool("favorited"),
		InShoppingCart: c.Bool("in-cart"),
		Page:           c.Int("page"),
		Limit:          c.Int("limit"),
	}
}

func recipesListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List recipes, newest first",
		Flags:   recipeFilterFlags(),
		Action: func(c *cli.Context) error {
			page, err := api.NewClient().ListRecipes(c.Context, recipeFilter(c))
			if err != nil {
				return describe(err)
			}
			if len(page.Results) == 0 {
				fmt.Println("No recipes found.")
				return nil
			}
			printRecipeTable(os.Stdout, page.Results)
			fmt.Printf("\n%d recipes in total", page.Count)
			if page.Next != nil {
				fmt.Printf(", more with --page %d", c.Int("page")+1)
			}
			fmt.Println()
			return nil
		},
	}
}

func printRecipeTable(out io.Writer, recipes []models.Recipe) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAUTHOR\tTIME\tTAGS\t♥\t🛒")
	for _, r := range recipes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d min\t%s\t%s\t%s\n",
			r.ID,
			truncateString(r.Name, 40),
			r.Author.Username,
			r.CookingTime,
			tagSlugs(r.Tags),
			mark(r.IsFavorited),
			mark(r.IsInShoppingCart))
	}
	w.Flush()
}

func tagSlugs(tags []models.Tag) string {
	slugs := make([]string, 0, len(tags))
	for _, t := range tags {
		slugs = append(slugs, t.Slug)
	}
	return strings.Join(slugs, ",")
}

func mark(b bool) string {
	if b {
		return "✓"
	}
	return ""
}

func recipesShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a recipe",
		ArgsUsage: "<recipe-id>",
		Action: func(c *cli.Context) error {
			id, err := idArg(c, "recipe")
			if err != nil {
				return err
			}
			recipe, err := api.NewClient().GetRecipe(c.Context, id)
			if err != nil {
				return describe(err)
			}
			return renderRecipe(os.Stdout, recipe, terminalWidth())
		},
	}
}

func recipesDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete one of your recipes",
		ArgsUsage: "<recipe-id>",
		Action: func(c *cli.Context) error {
			id, err := idArg(c, "recipe")
			if err != nil {
				return err
			}
			if err := api.NewClient().DeleteRecipe(c.Context, id); err != nil {
				return describe(err)
			}
			fmt.Printf("🗑️  Recipe %d deleted.\n", id)
			return nil
		},
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E26C2D"))
	metaStyle  = lipgloss.NewStyle().Faint(true)
)

// renderRecipe prints a styled header followed by the markdown body.
func renderRecipe(out io.Writer, r *models.Recipe, width int) error {
	fmt.Fprintln(out, titleStyle.Render(r.Name))

	meta := fmt.Sprintf("#%d · by %s · %d min", r.ID, r.Author.FullName(), r.CookingTime)
	if r.IsFavorited {
		meta += " · ♥ favorite"
	}
	if r.IsInShoppingCart {
		meta += " · 🛒 in cart"
	}
	fmt.Fprintln(out, metaStyle.Render(meta))

	if len(r.Tags) > 0 {
		chips := make([]string, 0, len(r.Tags))
		for _, t := range r.Tags {
			chips = append(chips, lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color(t.Color)).
				Padding(0, 1).
				Render(t.Name))
		}
		fmt.Fprintln(out, strings.Join(chips, " "))
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return err
	}
	body, err := renderer.Render(recipeMarkdown(r))
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, body)
	return err
}

func recipeMarkdown(r *models.Recipe) string {
	var b strings.Builder
	b.WriteString("## Ingredients\n\n")
	for _, line := range r.Ingredients {
		fmt.Fprintf(&b, "- %s: %d %s\n", line.Name, line.Amount, line.MeasurementUnit)
	}
	b.WriteString("\n## Instructions\n\n")
	b.WriteString(strings.TrimSpace(r.Text))
	b.WriteString("\n")
	if r.Image != "" {
		fmt.Fprintf(&b, "\n[Photo](%s)\n", r.Image)
	}
	return b.String()
}
