// Package testutil provides a migrated throwaway database and seed helpers
// shared by the repository and handler tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/kutbudev/foodgram/pkg/models"
	"github.com/kutbudev/foodgram/pkg/repository"
	"gorm.io/gorm"
)

// NewDB opens a migrated SQLite database in a temp dir with foreign keys on.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "foodgram.db")
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	database, err := repository.Open(sqlite.Open(dsn), repository.Options{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database.DB
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: username,
		LastName:  "Tester",
		Password:  "not-a-real-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// CreateTag inserts a tag using name as its slug.
func CreateTag(t *testing.T, db *gorm.DB, name, color string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: color, Slug: name}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("create tag %s: %v", name, err)
	}
	return tag
}

// CreateIngredient inserts a catalog ingredient.
func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("create ingredient %s: %v", name, err)
	}
	return ingredient
}

// CreateRecipe stores a recipe for author through the repository so tags and
// ingredient lines are written the same way the API writes them.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tagIDs []uint, lines []repository.IngredientAmount) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "http://localhost/media/recipes/images/" + name + ".png",
		Text:        "Cook " + name,
		CookingTime: 10,
	}
	created, err := repository.NewRecipeRepository(db).Create(context.Background(), recipe, tagIDs, lines)
	if err != nil {
		t.Fatalf("create recipe %s: %v", name, err)
	}
	return created
}
