package models

import "time"

// Recipe is owned by exactly one author.
type Recipe struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AuthorID    uint      `json:"author_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Image       string    `json:"image" gorm:"size:500;not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1"`
	CreatedAt   time.Time `json:"-"`

	// Foreign Key Relations
	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`

	// One-to-Many Relations
	Ingredients []*IngredientInRecipe `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`

	// Many-to-Many Relations
	Tags []*Tag `json:"tags,omitempty" gorm:"many2many:recipe_tags"`
}

// RecipeTag is the join row behind Recipe.Tags.
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey"`
	TagID    uint `gorm:"primaryKey;index"`
}

// IngredientInRecipe is one weighted ingredient line of a recipe.
type IngredientInRecipe struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	RecipeID     uint `json:"recipe_id" gorm:"not null;uniqueIndex:idx_ingredient_in_recipe,priority:2"`
	IngredientID uint `json:"ingredient_id" gorm:"not null;uniqueIndex:idx_ingredient_in_recipe,priority:1"`
	Amount       int  `json:"amount" gorm:"not null;default:1;check:chk_ingredient_in_recipes_amount,amount >= 1"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

// Favorite marks a recipe as favorited by a user.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_favorites_user_recipe,priority:1"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_favorites_user_recipe,priority:2;index"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// ShoppingCartItem puts a recipe into a user's shopping cart.
type ShoppingCartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_shopping_cart_user_recipe,priority:1"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_shopping_cart_user_recipe,priority:2;index"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}
