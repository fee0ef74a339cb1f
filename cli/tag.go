package cli

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kutbudev/foodgram/pkg/models"
	"github.com/kutbudev/foodgram/pkg/repository"
	"github.com/spf13/cobra"
)

var (
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// NewCreateTagCommand adds a tag to the catalog. The API exposes tags read-only.
func NewCreateTagCommand() *cobra.Command {
	var (
		name  string
		color string
		slug  string
	)

	cmd := &cobra.Command{
		Use:   "create-tag",
		Short: "Add a recipe tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := newTag(name, color, slug)
			if err != nil {
				return err
			}

			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := repository.NewCatalogRepository(rt.db.DB).CreateTag(cmd.Context(), tag); err != nil {
				if errors.Is(err, repository.ErrAlreadyExists) {
					return fmt.Errorf("a tag with this name, color or slug already exists")
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created tag #%d %s (%s, %s)\n", tag.ID, tag.Name, tag.Color, tag.Slug)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Tag name (required)")
	cmd.Flags().StringVarP(&color, "color", "c", "", "Hex color, e.g. #E26C2D (required)")
	cmd.Flags().StringVarP(&slug, "slug", "s", "", "URL slug, defaults to the lower-cased name")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("color")

	return cmd
}

func newTag(name, color, slug string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 50 {
		return nil, fmt.Errorf("tag name must be 1-50 characters")
	}
	if !colorPattern.MatchString(color) {
		return nil, fmt.Errorf("invalid color %q, expected #RRGGBB", color)
	}
	if slug == "" {
		slug = strings.ReplaceAll(strings.ToLower(name), " ", "-")
	}
	if len(slug) > 50 || !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("invalid slug %q", slug)
	}
	return &models.Tag{Name: name, Color: strings.ToUpper(color), Slug: slug}, nil
}
