package commands

import (
	"fmt"
	"net/url"

	"github.com/kutbudev/foodgram/internal/config"
	"github.com/kutbudev/foodgram/internal/credentials"
	"github.com/urfave/cli/v2"
)

func NewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change CLI settings",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the current settings",
				Action: func(c *cli.Context) error {
					cfg, err := config.LoadConfig()
					if err != nil {
						return err
					}
					path, _ := config.GetConfigPath()
					_, tokenErr := credentials.Token()

					fmt.Printf("Config file:   %s\n", path)
					fmt.Printf("API URL:       %s\n", cfg.ResolveAPIURL())
					fmt.Printf("Email:         %s\n", cfg.Email)
					fmt.Printf("Logged in:     %t\n", tokenErr == nil)
					fmt.Printf("Token storage: %s\n", credentials.StorageMode())
					return nil
				},
			},
			{
				Name:      "set-url",
				Usage:     "Point the CLI at another API",
				ArgsUsage: "<url>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("URL is required")
					}
					raw := c.Args().First()
					u, err := url.Parse(raw)
					if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
						return fmt.Errorf("invalid URL %q, expected e.g. https://foodgram.example.com/api", raw)
					}

					cfg, err := config.LoadConfig()
					if err != nil {
						cfg = &config.Config{}
					}
					cfg.APIURL = raw
					if err := config.SaveConfig(cfg); err != nil {
						return fmt.Errorf("could not save config: %w", err)
					}
					fmt.Printf("✅ API URL set to %s\n", cfg.ResolveAPIURL())
					return nil
				},
			},
		},
	}
}
