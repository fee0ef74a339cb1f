package handlers

import (
	"context"

	"github.com/kutbudev/foodgram/pkg/models"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// UserCreatedResponse is returned by registration.
type UserCreatedResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// IngredientLineResponse is one ingredient of a recipe with its amount.
type IngredientLineResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full recipe view, flags relative to the caller.
type RecipeResponse struct {
	ID               uint                     `json:"id"`
	Tags             []models.Tag             `json:"tags"`
	Author           UserResponse             `json:"author"`
	Ingredients      []IngredientLineResponse `json:"ingredients"`
	IsFavorited      bool                     `json:"is_favorited"`
	IsInShoppingCart bool                     `json:"is_in_shopping_cart"`
	Name             string                   `json:"name"`
	Image            string                   `json:"image"`
	Text             string                   `json:"text"`
	CookingTime      int                      `json:"cooking_time"`
}

// RecipeShortResponse is the compact recipe view.
type RecipeShortResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscriptionResponse is a followed author with their newest recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

func newUserResponse(u *models.User, subscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func newRecipeShort(r *models.Recipe) RecipeShortResponse {
	return RecipeShortResponse{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// userResponses resolves is_subscribed for viewerID in one query.
func (h *Handler) userResponses(ctx context.Context, viewerID uint, users []models.User) ([]UserResponse, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := h.users.SubscribedTo(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, newUserResponse(&users[i], subscribed[users[i].ID]))
	}
	return out, nil
}

// recipeResponses builds full views for recipes loaded with their relations.
func (h *Handler) recipeResponses(ctx context.Context, viewerID uint, recipes []models.Recipe) ([]RecipeResponse, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, inCart, err := h.recipes.Flags(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := h.users.SubscribedTo(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		resp := RecipeResponse{
			ID:               r.ID,
			Tags:             make([]models.Tag, 0, len(r.Tags)),
			Ingredients:      make([]IngredientLineResponse, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
		if r.Author != nil {
			resp.Author = newUserResponse(r.Author, subscribed[r.AuthorID])
		}
		for _, tag := range r.Tags {
			resp.Tags = append(resp.Tags, *tag)
		}
		for _, line := range r.Ingredients {
			item := IngredientLineResponse{ID: line.IngredientID, Amount: line.Amount}
			if line.Ingredient != nil {
				item.Name = line.Ingredient.Name
				item.MeasurementUnit = line.Ingredient.MeasurementUnit
			}
			resp.Ingredients = append(resp.Ingredients, item)
		}
		out = append(out, resp)
	}
	return out, nil
}

func (h *Handler) recipeResponse(ctx context.Context, viewerID uint, recipe *models.Recipe) (RecipeResponse, error) {
	out, err := h.recipeResponses(ctx, viewerID, []models.Recipe{*recipe})
	if err != nil {
		return RecipeResponse{}, err
	}
	return out[0], nil
}

// subscriptionResponses attaches up to recipesLimit newest recipes (all when
// recipesLimit <= 0) and the total recipe count to each author.
func (h *Handler) subscriptionResponses(ctx context.Context, authors []models.User, recipesLimit int) ([]SubscriptionResponse, error) {
	ids := make([]uint, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := h.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]SubscriptionResponse, 0, len(authors))
	for i := range authors {
		recipes, err := h.recipes.ByAuthor(ctx, authors[i].ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		short := make([]RecipeShortResponse, 0, len(recipes))
		for j := range recipes {
			short = append(short, newRecipeShort(&recipes[j]))
		}
		out = append(out, SubscriptionResponse{
			UserResponse: newUserResponse(&authors[i], true),
			Recipes:      short,
			RecipesCount: counts[authors[i].ID],
		})
	}
	return out, nil
}
