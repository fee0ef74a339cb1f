package commands

// Helper functions shared across commands

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/kutbudev/foodgram/internal/api"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// idArg parses the first positional argument as a positive id.
func idArg(c *cli.Context, what string) (uint, error) {
	if c.NArg() == 0 {
		return 0, fmt.Errorf("%s ID is required", what)
	}
	id, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s ID %q", what, c.Args().First())
	}
	return uint(id), nil
}

// describe turns API errors into one-line messages for the terminal.
func describe(err error) error {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s (run 'foodgram login')", apiErr.Message())
	}
	return errors.New(apiErr.Message())
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
