package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/kutbudev/foodgram/pkg/models"
	"gorm.io/gorm"
)

// ShoppingListLine is one aggregated ingredient of a shopping cart.
type ShoppingListLine struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}

// String renders the line as "name - amountunit".
func (l ShoppingListLine) String() string {
	return fmt.Sprintf("%s - %d%s", l.Name, l.Amount, l.MeasurementUnit)
}

// EngagementRepository manages favorites and shopping cart memberships.
type EngagementRepository struct {
	DB *gorm.DB
}

// NewEngagementRepository creates and returns a new EngagementRepository.
func NewEngagementRepository(db *gorm.DB) *EngagementRepository {
	return &EngagementRepository{DB: db}
}

// AddFavorite marks a recipe as favorited. ErrAlreadyExists when it already is.
func (r *EngagementRepository) AddFavorite(ctx context.Context, userID, recipeID uint) error {
	return r.add(ctx, &models.Favorite{UserID: userID, RecipeID: recipeID})
}

// RemoveFavorite drops the favorite mark. ErrNotFound when there was none.
func (r *EngagementRepository) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return r.remove(ctx, &models.Favorite{}, userID, recipeID)
}

// AddToCart puts a recipe in the shopping cart. ErrAlreadyExists when it already is.
func (r *EngagementRepository) AddToCart(ctx context.Context, userID, recipeID uint) error {
	return r.add(ctx, &models.ShoppingCartItem{UserID: userID, RecipeID: recipeID})
}

// RemoveFromCart takes a recipe out of the shopping cart. ErrNotFound when it was not there.
func (r *EngagementRepository) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	return r.remove(ctx, &models.ShoppingCartItem{}, userID, recipeID)
}

func (r *EngagementRepository) add(ctx context.Context, row interface{}) error {
	if err := r.DB.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("add membership: %w", err)
	}
	return nil
}

func (r *EngagementRepository) remove(ctx context.Context, model interface{}, userID, recipeID uint) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(model)
	if res.Error != nil {
		return fmt.Errorf("remove membership: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ShoppingList sums the ingredient amounts of every recipe in the user's
// cart, grouped by ingredient name and unit, ordered by name then unit.
func (r *EngagementRepository) ShoppingList(ctx context.Context, userID uint) ([]ShoppingListLine, error) {
	var lines []ShoppingListLine
	err := r.DB.WithContext(ctx).
		Table("shopping_cart_items AS sc").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, SUM(iir.amount) AS amount").
		Joins("JOIN ingredient_in_recipes AS iir ON iir.recipe_id = sc.recipe_id").
		Joins("JOIN ingredients AS i ON i.id = iir.ingredient_id").
		Where("sc.user_id = ?", userID).
		Group("i.name, i.measurement_unit").
		Order("i.name ASC, i.measurement_unit ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate shopping list: %w", err)
	}
	return lines, nil
}

// FormatShoppingList joins the lines with newlines.
func FormatShoppingList(lines []ShoppingListLine) string {
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		rendered = append(rendered, line.String())
	}
	return strings.Join(rendered, "\n")
}
