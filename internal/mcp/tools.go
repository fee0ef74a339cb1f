package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/kutbudev/foodgram/internal/api"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type tools struct {
	backend Backend
}

func registerTools(server *mcp.Server, t *tools) {
	readOnly := func(title string) *mcp.ToolAnnotations {
		return &mcp.ToolAnnotations{
			Title:         title,
			ReadOnlyHint:  true,
			OpenWorldHint: boolPtr(false),
		}
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tags",
		Description: "List every recipe tag with its slug and color.",
		Annotations: readOnly("List Tags"),
	}, t.handleListTags)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_ingredients",
		Description: "Find catalog ingredients whose name starts with the given prefix (case-insensitive).",
		Annotations: readOnly("Search Ingredients"),
	}, t.handleSearchIngredients)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_recipes",
		Description: "List recipes newest first. Optional: tags (slugs, any match), author (user id), favorited, in_shopping_cart, page, limit.",
		Annotations: readOnly("Search Recipes"),
	}, t.handleSearchRecipes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_recipe",
		Description: "Get one recipe by id with tags, author, ingredient amounts and instructions.",
		Annotations: readOnly("Get Recipe"),
	}, t.handleGetRecipe)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "shopping_list",
		Description: "Aggregated ingredients of every recipe in the logged-in user's shopping cart.",
		Annotations: readOnly("Shopping List"),
	}, t.handleShoppingList)
}

type EmptyInput struct{}

type SearchIngredientsInput struct {
	Prefix string `json:"prefix,omitempty" jsonschema:"start of the ingredient name"`
}

type SearchRecipesInput struct {
	Tags           []string `json:"tags,omitempty" jsonschema:"tag slugs, a recipe matches if it has any of them"`
	Author         uint     `json:"author,omitempty" jsonschema:"author user id"`
	Favorited      bool     `json:"favorited,omitempty" jsonschema:"only recipes the user favorited"`
	InShoppingCart bool     `json:"in_shopping_cart,omitempty" jsonschema:"only recipes in the user's shopping cart"`
	Page           int      `json:"page,omitempty"`
	Limit          int      `json:"limit,omitempty"`
}

type GetRecipeInput struct {
	ID uint `json:"id" jsonschema:"recipe id"`
}

func (t *tools) handleListTags(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	tags, err := t.backend.ListTags(ctx)
	if err != nil {
		return nil, nil, err
	}
	return nil, wrapResultAsObject(tags), nil
}

func (t *tools) handleSearchIngredients(ctx context.Context, req *mcp.CallToolRequest, input SearchIngredientsInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	ingredients, err := t.backend.ListIngredients(ctx, strings.TrimSpace(input.Prefix))
	if err != nil {
		return nil, nil, err
	}
	return nil, wrapResultAsObject(ingredients), nil
}

func (t *tools) handleSearchRecipes(ctx context.Context, req *mcp.CallToolRequest, input SearchRecipesInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	page, err := t.backend.ListRecipes(ctx, api.RecipeFilter{
		Tags:           input.Tags,
		Author:         input.Author,
		Favorited:      input.Favorited,
		InShoppingCart: input.InShoppingCart,
		Page:           input.Page,
		Limit:          input.Limit,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, wrapResultAsObject(page), nil
}

func (t *tools) handleGetRecipe(ctx context.Context, req *mcp.CallToolRequest, input GetRecipeInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if input.ID == 0 {
		return nil, nil, errors.New("id is required")
	}
	recipe, err := t.backend.GetRecipe(ctx, input.ID)
	if err != nil {
		return nil, nil, err
	}
	return nil, wrapResultAsObject(recipe), nil
}

func (t *tools) handleShoppingList(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	text, err := t.backend.DownloadShoppingCart(ctx)
	if err != nil {
		return nil, nil, err
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return nil, map[string]interface{}{"lines": lines, "count": len(lines)}, nil
}

type toolDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolDefinitions describes the tools for "foodgram mcp tools".
func ToolDefinitions() []toolDef {
	empty := map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
	return []toolDef{
		{
			Name:        "list_tags",
			Description: "List every recipe tag with its slug and color.",
			InputSchema: empty,
		},
		{
			Name:        "search_ingredients",
			Description: "Find catalog ingredients whose name starts with the given prefix.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"prefix": map[string]interface{}{"type": "string", "description": "start of the ingredient name"},
				},
			},
		},
		{
			Name:        "search_recipes",
			Description: "List recipes newest first, optionally filtered.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"tags":             map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
					"author":           map[string]interface{}{"type": "integer"},
					"favorited":        map[string]interface{}{"type": "boolean"},
					"in_shopping_cart": map[string]interface{}{"type": "boolean"},
					"page":             map[string]interface{}{"type": "integer"},
					"limit":            map[string]interface{}{"type": "integer"},
				},
			},
		},
		{
			Name:        "get_recipe",
			Description: "Get one recipe by id.",
			InputSchema: map[string]interface{}{
				"type":     "object",
				"required": []string{"id"},
				"properties": map[string]interface{}{
					"id": map[string]interface{}{"type": "integer", "description": "recipe id"},
				},
			},
		},
		{
			Name:        "shopping_list",
			Description: "Aggregated ingredients of the shopping cart.",
			InputSchema: empty,
		},
	}
}
