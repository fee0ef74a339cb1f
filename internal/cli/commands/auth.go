package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/kutbudev/foodgram/internal/api"
	"github.com/kutbudev/foodgram/internal/config"
	"github.com/kutbudev/foodgram/internal/credentials"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func NewLoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the API token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Account email",
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password (prompted when omitted)",
				EnvVars: []string{"FOODGRAM_PASSWORD"},
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				cfg = &config.Config{}
			}

			email, password := c.String("email"), c.String("password")
			if email == "" {
				email = cfg.Email
			}
			if email == "" || password == "" {
				if email, password, err = promptCredentials(email); err != nil {
					return err
				}
			}

			client := api.NewClientWithURL(cfg.ResolveAPIURL(), "")
			token, err := client.Login(c.Context, email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", describe(err))
			}
			if err := credentials.StoreToken(token); err != nil {
				return fmt.Errorf("could not store token: %w", err)
			}

			cfg.Email = email
			if err := config.SaveConfig(cfg); err != nil {
				return fmt.Errorf("could not save config: %w", err)
			}

			me, err := client.Me(c.Context)
			if err != nil {
				fmt.Println("✅ Login successful!")
				return nil
			}
			fmt.Printf("✅ Logged in as %s (%s)\n", me.Username, me.Email)
			return nil
		},
	}
}

// promptCredentials asks interactively on a terminal and reads two lines otherwise.
func promptCredentials(email string) (string, string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		reader := bufio.NewReader(os.Stdin)
		if email == "" {
			line, err := reader.ReadString('\n')
			if err != nil {
				return "", "", fmt.Errorf("could not read email: %w", err)
			}
			email = strings.TrimSpace(line)
		}
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("could not read password: %w", err)
		}
		return email, strings.TrimSpace(line), nil
	}

	var qs []*survey.Question
	if email == "" {
		qs = append(qs, &survey.Question{
			Name:     "email",
			Prompt:   &survey.Input{Message: "Email:"},
			Validate: survey.Required,
		})
	}
	qs = append(qs, &survey.Question{
		Name:     "password",
		Prompt:   &survey.Password{Message: "Password:"},
		Validate: survey.Required,
	})

	answers := struct {
		Email    string
		Password string
	}{Email: email}
	if err := survey.Ask(qs, &answers); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(answers.Email), answers.Password, nil
}

func NewLogoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Revoke the API token and forget it",
		Action: func(c *cli.Context) error {
			client := api.NewClient()
			if client.Token == "" {
				fmt.Println("Not logged in.")
				return nil
			}
			if err := client.Logout(c.Context); err != nil && !api.IsStatus(err, 401) {
				return describe(err)
			}
			if err := credentials.DeleteToken(); err != nil {
				return fmt.Errorf("could not remove token: %w", err)
			}
			fmt.Println("👋 Logged out.")
			return nil
		},
	}
}

func NewWhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the logged-in account",
		Action: func(c *cli.Context) error {
			client := api.NewClient()
			if client.Token == "" {
				return errors.New("not logged in (run 'foodgram login')")
			}
			me, err := client.Me(c.Context)
			if err != nil {
				return describe(err)
			}
			fmt.Printf("ID:       %d\n", me.ID)
			fmt.Printf("Username: %s\n", me.Username)
			fmt.Printf("Name:     %s\n", me.FullName())
			fmt.Printf("Email:    %s\n", me.Email)
			fmt.Printf("API:      %s\n", client.BaseURL)
			return nil
		},
	}
}
