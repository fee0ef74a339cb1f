package main

import (
	"log"
	"os"

	"github.com/kutbudev/foodgram/internal/cli/commands"
	"github.com/urfave/cli/v2"
)

// Version will be set during build with ldflags
var Version = "1.0.0"

func main() {
	app := &cli.App{
		Name:    "foodgram",
		Usage:   "Command-line client for the Foodgram recipe API",
		Version: Version,
		Commands: []*cli.Command{
			// Account
			commands.NewLoginCommand(),
			commands.NewLogoutCommand(),
			commands.NewWhoamiCommand(),

			// Catalog
			commands.NewTagsCommand(),
			commands.NewIngredientsCommand(),

			// Recipes
			commands.NewRecipesCommand(),
			commands.NewFavoriteCommand(),
			commands.NewCartCommand(),

			// Authors
			commands.NewSubscriptionsCommand(),
			commands.NewSubscribeCommand(),
			commands.NewUnsubscribeCommand(),

			// Meta
			commands.NewMcpCommand(),
			commands.NewConfigCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
