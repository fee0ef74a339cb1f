// Package mcp exposes read-only Foodgram tools to MCP clients over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/kutbudev/foodgram/internal/api"
	"github.com/kutbudev/foodgram/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// Backend is the part of the API client the tools use.
type Backend interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	ListRecipes(ctx context.Context, filter api.RecipeFilter) (*models.Page[models.Recipe], error)
	GetRecipe(ctx context.Context, id uint) (*models.Recipe, error)
	DownloadShoppingCart(ctx context.Context) (string, error)
}

// NewServer builds an MCP server with every Foodgram tool registered.
func NewServer(backend Backend) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "foodgram",
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `Foodgram is a recipe sharing service.

- list_tags shows the tag slugs accepted by search_recipes.
- search_ingredients finds catalog ingredients by name prefix.
- search_recipes lists recipes, newest first, optionally by tag, author, favorites or shopping cart.
- get_recipe returns one recipe with its ingredients and instructions.
- shopping_list returns the aggregated ingredients of the user's shopping cart.

Favorites, shopping cart and shopping_list need the CLI to be logged in ("foodgram login").`,
		},
	)
	registerTools(server, &tools{backend: backend})
	return server
}

// ServeStdio runs the MCP server over stdin/stdout until ctx is done.
func ServeStdio(ctx context.Context, client *api.Client) error {
	if client == nil {
		return errors.New("api client is required")
	}
	return NewServer(client).Run(ctx, &mcp.StdioTransport{})
}

// wrapResultAsObject ensures structured output is always an object, never a bare array
func wrapResultAsObject(result interface{}) map[string]interface{} {
	if result == nil {
		return map[string]interface{}{"items": []interface{}{}, "count": 0}
	}

	b, err := json.Marshal(result)
	if err != nil {
		return map[string]interface{}{"data": result}
	}

	if len(b) > 0 && b[0] == '[' {
		var arr []interface{}
		if err := json.Unmarshal(b, &arr); err == nil {
			return map[string]interface{}{"items": arr, "count": len(arr)}
		}
	}

	if len(b) > 0 && b[0] == '{' {
		var obj map[string]interface{}
		if err := json.Unmarshal(b, &obj); err == nil {
			return obj
		}
	}

	return map[string]interface{}{"data": result}
}

func boolPtr(b bool) *bool {
	return &b
}
