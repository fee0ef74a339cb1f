package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/foodgram/api/middleware"
	"github.com/kutbudev/foodgram/internal/media"
	"github.com/kutbudev/foodgram/pkg/models"
	"github.com/kutbudev/foodgram/pkg/repository"
)

// IngredientAmountInput is one {id, amount} pair of a recipe write.
type IngredientAmountInput struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"gte=1"`
}

// RecipeInput DTO for creating and updating recipes
type RecipeInput struct {
	Ingredients []IngredientAmountInput `json:"ingredients" binding:"required,min=1,dive"`
	Tags        []uint                  `json:"tags" binding:"required,min=1,dive,gt=0"`
	Image       string                  `json:"image" binding:"required"`
	Name        string                  `json:"name" binding:"required,max=200"`
	Text        string                  `json:"text" binding:"required"`
	CookingTime int                     `json:"cooking_time" binding:"gte=1"`
}

// ListRecipes returns a filtered page of recipes, newest first.
func (h *Handler) ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()
	filter := repository.RecipeFilter{ViewerID: middleware.ViewerID(c)}

	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			invalidChoice(c, "author", raw)
			return
		}
		if _, err := h.users.GetByID(ctx, uint(id)); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				invalidChoice(c, "author", raw)
				return
			}
			h.fail(c, err)
			return
		}
		author := uint(id)
		filter.AuthorID = &author
	}

	if slugs := c.QueryArray("tags"); len(slugs) > 0 {
		unknown, err := h.catalog.UnknownTagSlugs(ctx, slugs)
		if err != nil {
			h.fail(c, err)
			return
		}
		if len(unknown) > 0 {
			invalidChoice(c, "tags", unknown[0])
			return
		}
		filter.Tags = slugs
	}
	filter.Favorited = queryBool(c, "is_favorited")
	filter.InCart = queryBool(c, "is_in_shopping_cart")

	page := h.pageParams(c)
	recipes, total, err := h.recipes.List(ctx, filter, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	results, err := h.recipeResponses(ctx, filter.ViewerID, recipes)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, total, results))
}

// GetRecipe retrieves a single recipe.
func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	recipe, err := h.recipes.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

// CreateRecipe publishes a recipe authored by the caller.
func (h *Handler) CreateRecipe(c *gin.Context) {
	var input RecipeInput
	if !h.bindJSON(c, &input) {
		return
	}
	ctx := c.Request.Context()
	author, _ := middleware.CurrentUser(c)

	if !h.validateRecipe(c, &input) {
		return
	}
	image, ok := h.saveImage(c, input.Image)
	if !ok {
		return
	}

	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        input.Name,
		Image:       image,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}
	created, err := h.recipes.Create(ctx, recipe, input.Tags, ingredientAmounts(input.Ingredients))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondRecipe(c, http.StatusCreated, created)
}

// UpdateRecipe replaces a recipe's fields, tags and ingredient lines.
// PATCH behaves like PUT. Only the author may update.
func (h *Handler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	existing, err := h.recipes.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if existing.AuthorID != middleware.ViewerID(c) {
		forbidden(c)
		return
	}

	var input RecipeInput
	if !h.bindJSON(c, &input) {
		return
	}
	if !h.validateRecipe(c, &input) {
		return
	}

	image := existing.Image
	if input.Image != existing.Image {
		if image, ok = h.saveImage(c, input.Image); !ok {
			return
		}
	}

	recipe := &models.Recipe{
		ID:          existing.ID,
		AuthorID:    existing.AuthorID,
		Name:        input.Name,
		Image:       image,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}
	updated, err := h.recipes.Update(ctx, recipe, input.Tags, ingredientAmounts(input.Ingredients))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, updated)
}

// DeleteRecipe removes a recipe. Only the author may delete.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	existing, err := h.recipes.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if existing.AuthorID != middleware.ViewerID(c) {
		forbidden(c)
		return
	}
	if err := h.recipes.Delete(ctx, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) respondRecipe(c *gin.Context, status int, recipe *models.Recipe) {
	resp, err := h.recipeResponse(c.Request.Context(), middleware.ViewerID(c), recipe)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(status, resp)
}

// validateRecipe applies the cross-field and reference checks the binding
// tags cannot express.
func (h *Handler) validateRecipe(c *gin.Context, input *RecipeInput) bool {
	ctx := c.Request.Context()
	problems := fieldErrors{}

	ingredientIDs := make([]uint, 0, len(input.Ingredients))
	for _, item := range input.Ingredients {
		ingredientIDs = append(ingredientIDs, item.ID)
	}
	if hasDuplicates(ingredientIDs) {
		problems.add("ingredients", "Ingredients must not repeat.")
	}
	if hasDuplicates(input.Tags) {
		problems.add("tags", "Tags must not repeat.")
	}
	if strings.TrimSpace(input.Name) == "" {
		problems.add("name", "This field may not be blank.")
	}

	if err := h.checkReferences(ctx, problems, ingredientIDs, input.Tags); err != nil {
		h.fail(c, err)
		return false
	}

	if len(problems) > 0 {
		c.JSON(http.StatusBadRequest, problems)
		return false
	}
	return true
}

func (h *Handler) checkReferences(ctx context.Context, problems fieldErrors, ingredientIDs, tagIDs []uint) error {
	missing, err := h.catalog.MissingIngredients(ctx, ingredientIDs)
	if err != nil {
		return err
	}
	for _, id := range missing {
		problems.add("ingredients", fmt.Sprintf("Invalid pk \"%d\" - ingredient does not exist.", id))
	}

	missing, err = h.catalog.MissingTags(ctx, tagIDs)
	if err != nil {
		return err
	}
	for _, id := range missing {
		problems.add("tags", fmt.Sprintf("Invalid pk \"%d\" - tag does not exist.", id))
	}
	return nil
}

func (h *Handler) saveImage(c *gin.Context, uri string) (string, bool) {
	url, err := media.SaveImage(c.Request.Context(), h.media, uri)
	if err != nil {
		if errors.Is(err, media.ErrInvalidImage) {
			c.JSON(http.StatusBadRequest, fieldErrors{"image": {"Upload a valid image."}})
			return "", false
		}
		h.fail(c, err)
		return "", false
	}
	return url, true
}

func ingredientAmounts(items []IngredientAmountInput) []repository.IngredientAmount {
	lines := make([]repository.IngredientAmount, 0, len(items))
	for _, item := range items {
		lines = append(lines, repository.IngredientAmount{IngredientID: item.ID, Amount: item.Amount})
	}
	return lines
}

func hasDuplicates(ids []uint) bool {
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}

func invalidChoice(c *gin.Context, field, value string) {
	c.JSON(http.StatusBadRequest, fieldErrors{field: {
		fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", value),
	}})
}

// queryBool reads a boolean filter. Unrecognised values disable the filter.
func queryBool(c *gin.Context, key string) *bool {
	var v bool
	switch strings.ToLower(c.Query(key)) {
	case "1", "true", "yes", "on":
		v = true
	case "0", "false", "no", "off":
		v = false
	default:
		return nil
	}
	return &v
}
