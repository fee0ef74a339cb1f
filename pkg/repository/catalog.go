package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/kutbudev/foodgram/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository serves the read-mostly tag and ingredient reference data.
type CatalogRepository struct {
	DB *gorm.DB
}

// NewCatalogRepository creates and returns a new CatalogRepository.
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

// ListTags returns every tag ordered by id.
func (r *CatalogRepository) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// GetTag fetches a tag by id.
func (r *CatalogRepository) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &tag, nil
}

// CreateTag inserts a tag. Any clash on name, color or slug yields ErrAlreadyExists.
func (r *CatalogRepository) CreateTag(ctx context.Context, tag *models.Tag) error {
	if err := r.DB.WithContext(ctx).Create(tag).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// ListIngredients returns ingredients ordered by name, optionally restricted
// to names starting with prefix (case-insensitive).
func (r *CatalogRepository) ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	query := r.DB.WithContext(ctx).Order("name ASC").Order("measurement_unit ASC")
	if prefix != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

// GetIngredient fetches an ingredient by id.
func (r *CatalogRepository) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.DB.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ingredient, nil
}

// MissingIngredients returns the ids from ids that reference no ingredient.
func (r *CatalogRepository) MissingIngredients(ctx context.Context, ids []uint) ([]uint, error) {
	return missingIDs(r.DB.WithContext(ctx).Model(&models.Ingredient{}), ids)
}

// MissingTags returns the ids from ids that reference no tag.
func (r *CatalogRepository) MissingTags(ctx context.Context, ids []uint) ([]uint, error) {
	return missingIDs(r.DB.WithContext(ctx).Model(&models.Tag{}), ids)
}

// UnknownTagSlugs returns the slugs that name no tag.
func (r *CatalogRepository) UnknownTagSlugs(ctx context.Context, slugs []string) ([]string, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var found []string
	if err := r.DB.WithContext(ctx).Model(&models.Tag{}).Where("slug IN ?", slugs).Pluck("slug", &found).Error; err != nil {
		return nil, fmt.Errorf("lookup tag slugs: %w", err)
	}
	known := make(map[string]bool, len(found))
	for _, slug := range found {
		known[slug] = true
	}

	var unknown []string
	for _, slug := range slugs {
		if !known[slug] {
			unknown = append(unknown, slug)
		}
	}
	return unknown, nil
}

// ImportIngredients inserts ingredients in batches, skipping (name, unit)
// pairs that already exist. It returns the number of new rows.
func (r *CatalogRepository) ImportIngredients(ctx context.Context, ingredients []models.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(ingredients, 500)
	if res.Error != nil {
		return 0, fmt.Errorf("import ingredients: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func missingIDs(query *gorm.DB, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := query.Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("lookup ids: %w", err)
	}
	seen := make(map[uint]bool, len(found))
	for _, id := range found {
		seen[id] = true
	}

	var missing []uint
	for _, id := range ids {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
