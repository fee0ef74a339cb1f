package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/foodgram/api/middleware"
	"github.com/kutbudev/foodgram/pkg/repository"
)

type membership struct {
	add       func(ctx context.Context, userID, recipeID uint) error
	remove    func(ctx context.Context, userID, recipeID uint) error
	duplicate string
	absent    string
}

func (h *Handler) favorites() membership {
	return membership{
		add:       h.engagement.AddFavorite,
		remove:    h.engagement.RemoveFavorite,
		duplicate: "recipe is already in favorites",
		absent:    "recipe is not in favorites",
	}
}

func (h *Handler) cart() membership {
	return membership{
		add:       h.engagement.AddToCart,
		remove:    h.engagement.RemoveFromCart,
		duplicate: "recipe is already in the shopping cart",
		absent:    "recipe is not in the shopping cart",
	}
}

// AddFavorite favorites the recipe in the path for the caller.
func (h *Handler) AddFavorite(c *gin.Context) { h.addMembership(c, h.favorites()) }

// RemoveFavorite unfavorites the recipe in the path.
func (h *Handler) RemoveFavorite(c *gin.Context) { h.removeMembership(c, h.favorites()) }

// AddToCart puts the recipe in the path into the caller's shopping cart.
func (h *Handler) AddToCart(c *gin.Context) { h.addMembership(c, h.cart()) }

// RemoveFromCart takes the recipe in the path out of the shopping cart.
func (h *Handler) RemoveFromCart(c *gin.Context) { h.removeMembership(c, h.cart()) }

func (h *Handler) addMembership(c *gin.Context, m membership) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	recipe, err := h.recipes.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := m.add(ctx, user.ID, recipe.ID); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			badRequest(c, m.duplicate)
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeShort(recipe))
}

func (h *Handler) removeMembership(c *gin.Context, m membership) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	exists, err := h.recipes.Exists(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !exists {
		h.fail(c, repository.ErrNotFound)
		return
	}
	if err := m.remove(ctx, user.ID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			badRequest(c, m.absent)
			return
		}
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart sends the aggregated ingredient list of the caller's
// cart as a plain text attachment.
func (h *Handler) DownloadShoppingCart(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	lines, err := h.engagement.ShoppingList(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_cart.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(repository.FormatShoppingList(lines)))
}
