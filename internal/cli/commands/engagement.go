package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/kutbudev/foodgram/internal/api"
	"github.com/kutbudev/foodgram/internal/models"
	"github.com/urfave/cli/v2"
)

func NewFavoriteCommand() *cli.Command {
	return &cli.Command{
		Name:    "favorite",
		Aliases: []string{"fav"},
		Usage:   "Add or remove favorite recipes",
		Subcommands: []*cli.Command{
			membershipCmd("add", "Favorite a recipe", func(ctx context.Context, c *api.Client, id uint) (*models.RecipeShort, error) {
				return c.AddFavorite(ctx, id)
			}, "♥ Added '%s' to favorites.\n"),
			removeMembershipCmd("remove", "Unfavorite a recipe", func(ctx context.Context, c *api.Client, id uint) error {
				return c.RemoveFavorite(ctx, id)
			}, "Removed recipe %d from favorites.\n"),
		},
	}
}

func NewCartCommand() *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "Manage the shopping cart",
		Subcommands: []*cli.Command{
			membershipCmd("add", "Put a recipe in the cart", func(ctx context.Context, c *api.Client, id uint) (*models.RecipeShort, error) {
				return c.AddToCart(ctx, id)
			}, "🛒 Added '%s' to the shopping cart.\n"),
			removeMembershipCmd("remove", "Take a recipe out of the cart", func(ctx context.Context, c *api.Client, id uint) error {
				return c.RemoveFromCart(ctx, id)
			}, "Removed recipe %d from the shopping cart.\n"),
			cartDownloadCmd(),
		},
	}
}

func membershipCmd(name, usage string, add func(context.Context, *api.Client, uint) (*models.RecipeShort, error), done string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<recipe-id>",
		Action: func(c *cli.Context) error {
			id, err := idArg(c, "recipe")
			if err != nil {
				return err
			}
			recipe, err := add(c.Context, api.NewClient(), id)
			if err != nil {
				return describe(err)
			}
			fmt.Printf(done, recipe.Name)
			return nil
		},
	}
}

func removeMembershipCmd(name, usage string, remove func(context.Context, *api.Client, uint) error, done string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Aliases:   []string{"rm"},
		Usage:     usage,
		ArgsUsage: "<recipe-id>",
		Action: func(c *cli.Context) error {
			id, err := idArg(c, "recipe")
			if err != nil {
				return err
			}
			if err := remove(c.Context, api.NewClient(), id); err != nil {
				return describe(err)
			}
			fmt.Printf(done, id)
			return nil
		},
	}
}

func cartDownloadCmd() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Print the aggregated shopping list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the list to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy the list to the clipboard",
			},
		},
		Action: func(c *cli.Context) error {
			list, err := api.NewClient().DownloadShoppingCart(c.Context)
			if err != nil {
				return describe(err)
			}
			if strings.TrimSpace(list) == "" {
				fmt.Println("Your shopping cart is empty.")
				return nil
			}

			if path := c.String("output"); path != "" {
				if err := os.WriteFile(path, []byte(list+"\n"), 0644); err != nil {
					return fmt.Errorf("could not write %s: %w", path, err)
				}
				fmt.Printf("✅ Shopping list saved to %s\n", path)
			} else {
				fmt.Println(list)
			}

			if c.Bool("copy") {
				if err := clipboard.WriteAll(list); err != nil {
					return fmt.Errorf("could not copy to clipboard: %w", err)
				}
				fmt.Println("📋 Copied to clipboard.")
			}
			return nil
		},
	}
}
