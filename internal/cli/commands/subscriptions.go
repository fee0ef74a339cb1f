package commands

import (
	"fmt"
	"strings"

	"github.com/kutbudev/foodgram/internal/api"
	"github.com/urfave/cli/v2"
)

func NewSubscriptionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "subscriptions",
		Usage: "List the authors you follow with their newest recipes",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "recipes-limit",
				Usage: "Recipes shown per author",
				Value: 3,
			},
			&cli.IntFlag{
				Name:  "page",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Authors per page",
			},
		},
		Action: func(c *cli.Context) error {
			page, err := api.NewClient().Subscriptions(c.Context, api.SubscriptionOptions{
				Page:         c.Int("page"),
				Limit:        c.Int("limit"),
				RecipesLimit: c.Int("recipes-limit"),
			})
			if err != nil {
				return describe(err)
			}
			if len(page.Results) == 0 {
				fmt.Println("You are not subscribed to anyone yet.")
				return nil
			}

			for _, sub := range page.Results {
				fmt.Printf("👤 %s (@%s, id %d) · %d recipes\n", sub.FullName(), sub.Username, sub.ID, sub.RecipesCount)
				for _, r := range sub.Recipes {
					fmt.Printf("   - #%d %s (%d min)\n", r.ID, r.Name, r.CookingTime)
				}
			}
			if page.Next != nil {
				fmt.Printf("\nMore with --page %d\n", c.Int("page")+1)
			}
			return nil
		},
	}
}

func NewSubscribeCommand() *cli.Command {
	return &cli.Command{
		Name:      "subscribe",
		Usage:     "Follow an author",
		ArgsUsage: "<user-id>",
		Action: func(c *cli.Context) error {
			id, err := idArg(c, "user")
			if err != nil {
				return err
			}
			sub, err := api.NewClient().Subscribe(c.Context, id)
			if err != nil {
				return describe(err)
			}
			fmt.Printf("✅ Subscribed to %s (%d recipes)\n", strings.TrimSpace(sub.FullName()), sub.RecipesCount)
			return nil
		},
	}
}

func NewUnsubscribeCommand() *cli.Command {
	return &cli.Command{
		Name:      "unsubscribe",
		Usage:     "Stop following an author",
		ArgsUsage: "<user-id>",
		Action: func(c *cli.Context) error {
			id, err := idArg(c, "user")
			if err != nil {
				return err
			}
			if err := api.NewClient().Unsubscribe(c.Context, id); err != nil {
				return describe(err)
			}
			fmt.Printf("Unsubscribed from user %d.\n", id)
			return nil
		},
	}
}
