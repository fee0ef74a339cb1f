package repository

import (
	"context"
	"fmt"

	"github.com/kutbudev/foodgram/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter narrows a recipe listing. The Favorited and InCart filters
// only apply when ViewerID identifies an authenticated user.
type RecipeFilter struct {
	AuthorID  *uint
	Tags      []string
	Favorited *bool
	InCart    *bool
	ViewerID  uint
}

// IngredientAmount is one requested ingredient line of a recipe write.
type IngredientAmount struct {
	IngredientID uint
	Amount       int
}

// RecipeRepository handles the recipe store.
type RecipeRepository struct {
	DB *gorm.DB
}

// NewRecipeRepository creates and returns a new RecipeRepository.
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{DB: db}
}

func (f RecipeFilter) scope(db *gorm.DB) *gorm.DB {
	sub := db.Session(&gorm.Session{NewDB: true})

	if f.AuthorID != nil {
		db = db.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if len(f.Tags) > 0 {
		tagged := sub.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.Tags)
		db = db.Where("recipes.id IN (?)", tagged)
	}
	if f.ViewerID == 0 {
		return db
	}
	if f.Favorited != nil {
		favorites := sub.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", f.ViewerID)
		db = membership(db, favorites, *f.Favorited)
	}
	if f.InCart != nil {
		cart := sub.Model(&models.ShoppingCartItem{}).Select("recipe_id").Where("user_id = ?", f.ViewerID)
		db = membership(db, cart, *f.InCart)
	}
	return db
}

func membership(db, sub *gorm.DB, member bool) *gorm.DB {
	if member {
		return db.Where("recipes.id IN (?)", sub)
	}
	return db.Where("recipes.id NOT IN (?)", sub)
}

func preloadRecipe(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredient_in_recipes.id ASC") }).
		Preload("Ingredients.Ingredient")
}

// List returns one page of recipes, newest first, and the filtered total.
func (r *RecipeRepository) List(ctx context.Context, filter RecipeFilter, page Page) ([]models.Recipe, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Recipe{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := r.DB.WithContext(ctx).
		Scopes(filter.scope, page.scope, preloadRecipe).
		Order("recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, total, nil
}

// Get fetches a recipe with its author, tags and ingredient lines.
func (r *RecipeRepository) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.DB.WithContext(ctx).Scopes(preloadRecipe).First(&recipe, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &recipe, nil
}

// Exists reports whether a recipe with id is stored.
func (r *RecipeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check recipe: %w", err)
	}
	return count > 0, nil
}

// Create stores the recipe row, its tag set and ingredient lines in one
// transaction and returns the reloaded recipe.
func (r *RecipeRepository) Create(ctx context.Context, recipe *models.Recipe, tagIDs []uint, lines []IngredientAmount) (*models.Recipe, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		return writeRecipeRelations(tx, recipe.ID, tagIDs, lines)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, recipe.ID)
}

// Update saves the scalar fields and replaces the tag set and every
// ingredient line: old rows are deleted and the new ones inserted.
func (r *RecipeRepository) Update(ctx context.Context, recipe *models.Recipe, tagIDs []uint, lines []IngredientAmount) (*models.Recipe, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Recipe{ID: recipe.ID}).
			Select("name", "image", "text", "cooking_time").
			Updates(recipe).Error
		if err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
			return fmt.Errorf("clear recipe tags: %w", err)
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.IngredientInRecipe{}).Error; err != nil {
			return fmt.Errorf("clear recipe ingredients: %w", err)
		}
		return writeRecipeRelations(tx, recipe.ID, tagIDs, lines)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, recipe.ID)
}

// Delete removes a recipe and every row that references it.
func (r *RecipeRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := tx.Model(&models.Recipe{}).Select("id").Where("id = ?", id)
		if err := deleteRecipeChildren(tx, ids); err != nil {
			return err
		}
		res := tx.Delete(&models.Recipe{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Flags reports which of recipeIDs the viewer has favorited and put in the cart.
func (r *RecipeRepository) Flags(ctx context.Context, viewerID uint, recipeIDs []uint) (favorited, inCart map[uint]bool, err error) {
	favorited = make(map[uint]bool)
	inCart = make(map[uint]bool)
	if viewerID == 0 || len(recipeIDs) == 0 {
		return favorited, inCart, nil
	}

	var ids []uint
	err = r.DB.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, nil, fmt.Errorf("load favorites: %w", err)
	}
	for _, id := range ids {
		favorited[id] = true
	}

	ids = nil
	err = r.DB.WithContext(ctx).Model(&models.ShoppingCartItem{}).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, nil, fmt.Errorf("load shopping cart: %w", err)
	}
	for _, id := range ids {
		inCart[id] = true
	}
	return favorited, inCart, nil
}

// ByAuthor returns the newest recipes of an author. A limit <= 0 returns all.
func (r *RecipeRepository) ByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	query := r.DB.WithContext(ctx).Where("author_id = ?", authorID).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list author recipes: %w", err)
	}
	return recipes, nil
}

// CountByAuthors returns the number of recipes for each author in authorIDs.
func (r *RecipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.DB.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count author recipes: %w", err)
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func writeRecipeRelations(tx *gorm.DB, recipeID uint, tagIDs []uint, lines []IngredientAmount) error {
	if len(tagIDs) > 0 {
		tags := make([]models.RecipeTag, 0, len(tagIDs))
		for _, id := range tagIDs {
			tags = append(tags, models.RecipeTag{RecipeID: recipeID, TagID: id})
		}
		if err := tx.Create(&tags).Error; err != nil {
			return fmt.Errorf("create recipe tags: %w", err)
		}
	}

	if len(lines) > 0 {
		rows := make([]models.IngredientInRecipe, 0, len(lines))
		for _, line := range lines {
			rows = append(rows, models.IngredientInRecipe{
				RecipeID:     recipeID,
				IngredientID: line.IngredientID,
				Amount:       line.Amount,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyExists
			}
			return fmt.Errorf("create recipe ingredients: %w", err)
		}
	}
	return nil
}

// deleteRecipeChildren removes the rows referencing the recipes selected by ids.
func deleteRecipeChildren(tx *gorm.DB, ids *gorm.DB) error {
	children := []interface{}{
		&models.Favorite{},
		&models.ShoppingCartItem{},
		&models.RecipeTag{},
		&models.IngredientInRecipe{},
	}
	for _, model := range children {
		if err := tx.Where("recipe_id IN (?)", ids).Delete(model).Error; err != nil {
			return fmt.Errorf("delete recipe children: %w", err)
		}
	}
	return nil
}
