package mcp

import (
	"context"
	"testing"

	"github.com/kutbudev/foodgram/internal/api"
	"github.com/kutbudev/foodgram/internal/models"
)

type fakeBackend struct {
	filter api.RecipeFilter
	prefix string
}

func (f *fakeBackend) ListTags(ctx context.Context) ([]models.Tag, error) {
	return []models.Tag{{ID: 1, Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}}, nil
}

func (f *fakeBackend) ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	f.prefix = prefix
	return []models.Ingredient{{ID: 2, Name: "salt", MeasurementUnit: "g"}}, nil
}

func (f *fakeBackend) ListRecipes(ctx context.Context, filter api.RecipeFilter) (*models.Page[models.Recipe], error) {
	f.filter = filter
	return &models.Page[models.Recipe]{Count: 1, Results: []models.Recipe{{ID: 5, Name: "Omelette"}}}, nil
}

func (f *fakeBackend) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	return &models.Recipe{ID: id, Name: "Omelette"}, nil
}

func (f *fakeBackend) DownloadShoppingCart(ctx context.Context) (string, error) {
	return "Milk - 200ml\nSalt - 8g\n", nil
}

func TestToolHandlers(t *testing.T) {
	backend := &fakeBackend{}
	tl := &tools{backend: backend}
	ctx := context.Background()

	_, out, err := tl.handleListTags(ctx, nil, EmptyInput{})
	if err != nil {
		t.Fatal(err)
	}
	if out["count"] != 1 {
		t.Errorf("list_tags count = %v", out["count"])
	}

	if _, _, err := tl.handleSearchIngredients(ctx, nil, SearchIngredientsInput{Prefix: "  sa "}); err != nil {
		t.Fatal(err)
	}
	if backend.prefix != "sa" {
		t.Errorf("prefix = %q, want trimmed", backend.prefix)
	}

	_, out, err = tl.handleSearchRecipes(ctx, nil, SearchRecipesInput{Tags: []string{"breakfast"}, Favorited: true})
	if err != nil {
		t.Fatal(err)
	}
	if !backend.filter.Favorited || len(backend.filter.Tags) != 1 {
		t.Errorf("filter not forwarded: %+v", backend.filter)
	}
	if out["count"] != float64(1) {
		t.Errorf("search_recipes count = %v", out["count"])
	}

	if _, _, err := tl.handleGetRecipe(ctx, nil, GetRecipeInput{}); err == nil {
		t.Error("get_recipe without id should fail")
	}
	_, out, err = tl.handleGetRecipe(ctx, nil, GetRecipeInput{ID: 5})
	if err != nil {
		t.Fatal(err)
	}
	if out["name"] != "Omelette" {
		t.Errorf("get_recipe = %v", out)
	}

	_, out, err = tl.handleShoppingList(ctx, nil, EmptyInput{})
	if err != nil {
		t.Fatal(err)
	}
	lines, _ := out["lines"].([]string)
	if len(lines) != 2 || lines[1] != "Salt - 8g" {
		t.Errorf("shopping_list lines = %v", out["lines"])
	}
}

func TestToolDefinitionsMatchRegisteredTools(t *testing.T) {
	want := map[string]bool{
		"list_tags": true, "search_ingredients": true, "search_recipes": true,
		"get_recipe": true, "shopping_list": true,
	}
	defs := ToolDefinitions()
	if len(defs) != len(want) {
		t.Fatalf("got %d definitions, want %d", len(defs), len(want))
	}
	for _, d := range defs {
		if !want[d.Name] {
			t.Errorf("unexpected tool %q", d.Name)
		}
	}
	if NewServer(&fakeBackend{}) == nil {
		t.Error("NewServer returned nil")
	}
}
