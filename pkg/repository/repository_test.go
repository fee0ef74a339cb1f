package repository_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/kutbudev/foodgram/internal/testutil"
	"github.com/kutbudev/foodgram/pkg/models"
	"github.com/kutbudev/foodgram/pkg/repository"
)

func TestShoppingListAggregatesSharedIngredients(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	buyer := testutil.CreateUser(t, db, "buyer")
	tag := testutil.CreateTag(t, db, "dinner", "#112233")
	salt := testutil.CreateIngredient(t, db, "Salt", "g")
	milk := testutil.CreateIngredient(t, db, "Milk", "ml")

	a := testutil.CreateRecipe(t, db, author, "a", []uint{tag.ID}, []repository.IngredientAmount{{IngredientID: salt.ID, Amount: 5}})
	b := testutil.CreateRecipe(t, db, author, "b", []uint{tag.ID}, []repository.IngredientAmount{
		{IngredientID: salt.ID, Amount: 3},
		{IngredientID: milk.ID, Amount: 200},
	})

	engagement := repository.NewEngagementRepository(db)
	for _, id := range []uint{a.ID, b.ID} {
		if err := engagement.AddToCart(ctx, buyer.ID, id); err != nil {
			t.Fatalf("AddToCart(%d) error = %v", id, err)
		}
	}

	lines, err := engagement.ShoppingList(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("ShoppingList() error = %v", err)
	}

	got := repository.FormatShoppingList(lines)
	want := "Milk - 200ml\nSalt - 8g"
	if got != want {
		t.Errorf("FormatShoppingList() = %q, want %q", got, want)
	}

	empty, err := engagement.ShoppingList(ctx, author.ID)
	if err != nil {
		t.Fatalf("ShoppingList() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("ShoppingList() for empty cart = %v, want none", empty)
	}
}

func TestMembershipUniqueness(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "user")
	tag := testutil.CreateTag(t, db, "lunch", "#aabbcc")
	salt := testutil.CreateIngredient(t, db, "Salt", "g")
	recipe := testutil.CreateRecipe(t, db, user, "soup", []uint{tag.ID}, []repository.IngredientAmount{{IngredientID: salt.ID, Amount: 1}})

	engagement := repository.NewEngagementRepository(db)

	tests := []struct {
		name   string
		add    func(context.Context, uint, uint) error
		remove func(context.Context, uint, uint) error
	}{
		{"favorite", engagement.AddFavorite, engagement.RemoveFavorite},
		{"cart", engagement.AddToCart, engagement.RemoveFromCart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.add(ctx, user.ID, recipe.ID); err != nil {
				t.Fatalf("first add error = %v", err)
			}
			if err := tt.add(ctx, user.ID, recipe.ID); !errors.Is(err, repository.ErrAlreadyExists) {
				t.Errorf("second add error = %v, want ErrAlreadyExists", err)
			}
			if err := tt.remove(ctx, user.ID, recipe.ID); err != nil {
				t.Errorf("remove error = %v", err)
			}
			if err := tt.remove(ctx, user.ID, recipe.ID); !errors.Is(err, repository.ErrNotFound) {
				t.Errorf("second remove error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestRecipeRoundTripAndReplace(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "chef")
	t1 := testutil.CreateTag(t, db, "breakfast", "#000001")
	t2 := testutil.CreateTag(t, db, "vegan", "#000002")
	t3 := testutil.CreateTag(t, db, "quick", "#000003")
	i1 := testutil.CreateIngredient(t, db, "Flour", "g")
	i2 := testutil.CreateIngredient(t, db, "Sugar", "g")
	i3 := testutil.CreateIngredient(t, db, "Egg", "pcs")

	created := testutil.CreateRecipe(t, db, author, "pancakes", []uint{t1.ID, t2.ID}, []repository.IngredientAmount{
		{IngredientID: i1.ID, Amount: 5},
		{IngredientID: i2.ID, Amount: 3},
	})

	recipes := repository.NewRecipeRepository(db)
	got, err := recipes.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ids := tagIDs(got); ids != "1,2" {
		t.Errorf("tags = %s, want 1,2", ids)
	}
	if pairs := ingredientPairs(got); pairs != "Flour=5,Sugar=3" {
		t.Errorf("ingredients = %s, want Flour=5,Sugar=3", pairs)
	}
	if got.Author == nil || got.Author.ID != author.ID {
		t.Errorf("Author = %+v, want id %d", got.Author, author.ID)
	}

	update := &models.Recipe{ID: created.ID, Name: "crepes", Image: created.Image, Text: "thin", CookingTime: 15}
	updated, err := recipes.Update(ctx, update, []uint{t3.ID}, []repository.IngredientAmount{{IngredientID: i3.ID, Amount: 2}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "crepes" || updated.CookingTime != 15 {
		t.Errorf("Update() = %s/%d, want crepes/15", updated.Name, updated.CookingTime)
	}
	if ids := tagIDs(updated); ids != "3" {
		t.Errorf("tags after update = %s, want 3", ids)
	}
	if pairs := ingredientPairs(updated); pairs != "Egg=2" {
		t.Errorf("ingredients after update = %s, want Egg=2", pairs)
	}

	var stale int64
	db.Model(&models.IngredientInRecipe{}).Where("recipe_id = ?", created.ID).Count(&stale)
	if stale != 1 {
		t.Errorf("ingredient lines stored = %d, want 1", stale)
	}
}

func TestRecipeListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	sweet := testutil.CreateTag(t, db, "sweet", "#ff0000")
	salty := testutil.CreateTag(t, db, "salty", "#00ff00")
	salt := testutil.CreateIngredient(t, db, "Salt", "g")
	lines := []repository.IngredientAmount{{IngredientID: salt.ID, Amount: 1}}

	cake := testutil.CreateRecipe(t, db, alice, "cake", []uint{sweet.ID}, lines)
	chips := testutil.CreateRecipe(t, db, alice, "chips", []uint{salty.ID}, lines)
	fudge := testutil.CreateRecipe(t, db, bob, "fudge", []uint{sweet.ID, salty.ID}, lines)

	engagement := repository.NewEngagementRepository(db)
	if err := engagement.AddFavorite(ctx, bob.ID, cake.ID); err != nil {
		t.Fatal(err)
	}
	if err := engagement.AddToCart(ctx, bob.ID, chips.ID); err != nil {
		t.Fatal(err)
	}

	yes, no := true, false
	tests := []struct {
		name   string
		filter repository.RecipeFilter
		want   []uint
	}{
		{"all newest first", repository.RecipeFilter{}, []uint{fudge.ID, chips.ID, cake.ID}},
		{"author", repository.RecipeFilter{AuthorID: &alice.ID}, []uint{chips.ID, cake.ID}},
		{"any of tags", repository.RecipeFilter{Tags: []string{"sweet"}}, []uint{fudge.ID, cake.ID}},
		{"two tags no duplicates", repository.RecipeFilter{Tags: []string{"sweet", "salty"}}, []uint{fudge.ID, chips.ID, cake.ID}},
		{"favorited", repository.RecipeFilter{Favorited: &yes, ViewerID: bob.ID}, []uint{cake.ID}},
		{"not favorited", repository.RecipeFilter{Favorited: &no, ViewerID: bob.ID}, []uint{fudge.ID, chips.ID}},
		{"in cart", repository.RecipeFilter{InCart: &yes, ViewerID: bob.ID}, []uint{chips.ID}},
		{"anonymous ignores favorited", repository.RecipeFilter{Favorited: &yes}, []uint{fudge.ID, chips.ID, cake.ID}},
	}

	recipes := repository.NewRecipeRepository(db)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := recipes.List(ctx, tt.filter, repository.Page{})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if total != int64(len(tt.want)) {
				t.Errorf("total = %d, want %d", total, len(tt.want))
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List() returned %d recipes, want %d", len(got), len(tt.want))
			}
			for i, recipe := range got {
				if recipe.ID != tt.want[i] {
					t.Errorf("List()[%d].ID = %d, want %d", i, recipe.ID, tt.want[i])
				}
			}
		})
	}

	page, total, err := recipes.List(ctx, repository.RecipeFilter{}, repository.Page{Number: 2, Size: 2})
	if err != nil {
		t.Fatalf("List() page error = %v", err)
	}
	if total != 3 || len(page) != 1 || page[0].ID != cake.ID {
		t.Errorf("page 2 = %d items (total %d), want only cake", len(page), total)
	}
}

func TestSubscriptions(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	if _, err := users.Subscribe(ctx, alice.ID, alice.ID); !errors.Is(err, repository.ErrSelfSubscription) {
		t.Errorf("Subscribe(self) error = %v, want ErrSelfSubscription", err)
	}
	if _, err := users.Subscribe(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if _, err := users.Subscribe(ctx, alice.ID, bob.ID); !errors.Is(err, repository.ErrAlreadyExists) {
		t.Errorf("duplicate Subscribe() error = %v, want ErrAlreadyExists", err)
	}

	following, total, err := users.Subscriptions(ctx, bob.ID, repository.Page{})
	if err != nil {
		t.Fatalf("Subscriptions() error = %v", err)
	}
	if total != 1 || len(following) != 1 || following[0].ID != alice.ID {
		t.Errorf("Subscriptions() = %v (total %d), want alice", following, total)
	}

	set, err := users.SubscribedTo(ctx, bob.ID, []uint{alice.ID, bob.ID})
	if err != nil {
		t.Fatalf("SubscribedTo() error = %v", err)
	}
	if !set[alice.ID] || set[bob.ID] {
		t.Errorf("SubscribedTo() = %v", set)
	}

	if err := users.Unsubscribe(ctx, alice.ID, bob.ID); err != nil {
		t.Errorf("Unsubscribe() error = %v", err)
	}
	if err := users.Unsubscribe(ctx, alice.ID, bob.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second Unsubscribe() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	engagement := repository.NewEngagementRepository(db)

	doomed := testutil.CreateUser(t, db, "doomed")
	other := testutil.CreateUser(t, db, "other")
	tag := testutil.CreateTag(t, db, "misc", "#123456")
	salt := testutil.CreateIngredient(t, db, "Salt", "g")
	lines := []repository.IngredientAmount{{IngredientID: salt.ID, Amount: 2}}

	own := testutil.CreateRecipe(t, db, doomed, "own", []uint{tag.ID}, lines)
	foreign := testutil.CreateRecipe(t, db, other, "foreign", []uint{tag.ID}, lines)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(engagement.AddFavorite(ctx, doomed.ID, foreign.ID))
	must(engagement.AddToCart(ctx, doomed.ID, foreign.ID))
	must(engagement.AddFavorite(ctx, other.ID, own.ID))
	must(engagement.AddToCart(ctx, other.ID, own.ID))
	_, err := users.Subscribe(ctx, other.ID, doomed.ID)
	must(err)
	_, err = users.Subscribe(ctx, doomed.ID, other.ID)
	must(err)
	must(repository.NewTokenRepository(db).Create(ctx, &models.AuthToken{
		ID: "token-1", UserID: doomed.ID, CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour),
	}))

	must(users.Delete(ctx, doomed.ID))

	counts := []struct {
		name  string
		model interface{}
		want  int64
	}{
		{"users", &models.User{}, 1},
		{"recipes", &models.Recipe{}, 1},
		{"recipe_tags", &models.RecipeTag{}, 1},
		{"ingredient lines", &models.IngredientInRecipe{}, 1},
		{"favorites", &models.Favorite{}, 0},
		{"cart", &models.ShoppingCartItem{}, 0},
		{"subscriptions", &models.Subscription{}, 0},
		{"tokens", &models.AuthToken{}, 0},
	}
	for _, c := range counts {
		var n int64
		if err := db.Model(c.model).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", c.name, err)
		}
		if n != c.want {
			t.Errorf("%s remaining = %d, want %d", c.name, n, c.want)
		}
	}

	if err := users.Delete(ctx, doomed.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestCatalog(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	catalog := repository.NewCatalogRepository(db)

	n, err := catalog.ImportIngredients(ctx, []models.Ingredient{
		{Name: "Sugar", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "Salt", MeasurementUnit: "tsp"},
		{Name: "50%_mix", MeasurementUnit: "g"},
	})
	if err != nil {
		t.Fatalf("ImportIngredients() error = %v", err)
	}
	if n != 4 {
		t.Errorf("ImportIngredients() = %d, want 4", n)
	}

	again, err := catalog.ImportIngredients(ctx, []models.Ingredient{{Name: "Sugar", MeasurementUnit: "g"}})
	if err != nil {
		t.Fatalf("re-import error = %v", err)
	}
	if again != 0 {
		t.Errorf("re-import inserted %d rows, want 0", again)
	}

	tests := []struct {
		prefix string
		want   int
	}{
		{"", 4},
		{"SA", 2},
		{"sug", 1},
		{"50%", 1},
		{"5_", 0},
		{"pepper", 0},
	}
	for _, tt := range tests {
		got, err := catalog.ListIngredients(ctx, tt.prefix)
		if err != nil {
			t.Fatalf("ListIngredients(%q) error = %v", tt.prefix, err)
		}
		if len(got) != tt.want {
			t.Errorf("ListIngredients(%q) = %d rows, want %d", tt.prefix, len(got), tt.want)
		}
	}

	tag := testutil.CreateTag(t, db, "one", "#010101")
	if err := catalog.CreateTag(ctx, &models.Tag{Name: "two", Color: "#010101", Slug: "two"}); !errors.Is(err, repository.ErrAlreadyExists) {
		t.Errorf("CreateTag(dup color) error = %v, want ErrAlreadyExists", err)
	}
	missing, err := catalog.MissingTags(ctx, []uint{tag.ID, 999})
	if err != nil {
		t.Fatalf("MissingTags() error = %v", err)
	}
	if len(missing) != 1 || missing[0] != 999 {
		t.Errorf("MissingTags() = %v, want [999]", missing)
	}
}

func TestReadIngredientFixtures(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		body     string
		want     int
		wantErr  bool
	}{
		{"json", "ingredients.json", `[{"name":"Salt","measurement_unit":"g"},{"name":"Salt","measurement_unit":"g"},{"name":"","measurement_unit":"g"}]`, 1, false},
		{"yaml", "ingredients.yaml", "- name: Milk\n  measurement_unit: ml\n- name: Egg\n  measurement_unit: pcs\n", 2, false},
		{"broken", "ingredients.json", `{`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repository.ReadIngredientFixtures(strings.NewReader(tt.body), tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadIngredientFixtures() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("ReadIngredientFixtures() = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func tagIDs(r *models.Recipe) string {
	ids := make([]string, 0, len(r.Tags))
	for _, tag := range r.Tags {
		ids = append(ids, strconv.FormatUint(uint64(tag.ID), 10))
	}
	return strings.Join(ids, ",")
}

func ingredientPairs(r *models.Recipe) string {
	pairs := make([]string, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		pairs = append(pairs, line.Ingredient.Name+"="+strconv.Itoa(line.Amount))
	}
	return strings.Join(pairs, ",")
}
