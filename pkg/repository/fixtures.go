package repository

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kutbudev/foodgram/pkg/models"
	"gopkg.in/yaml.v3"
)

type ingredientFixture struct {
	Name            string `json:"name" yaml:"name"`
	MeasurementUnit string `json:"measurement_unit" yaml:"measurement_unit"`
}

// ReadIngredientFixtures decodes a list of {name, measurement_unit} records.
// Files ending in .yaml or .yml are read as YAML, everything else as JSON.
// Blank entries and repeated (name, unit) pairs are dropped.
func ReadIngredientFixtures(r io.Reader, filename string) ([]models.Ingredient, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures []ingredientFixture
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fixtures)
	default:
		err = json.Unmarshal(data, &fixtures)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}

	type key struct{ name, unit string }
	seen := make(map[key]bool, len(fixtures))
	ingredients := make([]models.Ingredient, 0, len(fixtures))
	for _, f := range fixtures {
		name := strings.TrimSpace(f.Name)
		unit := strings.TrimSpace(f.MeasurementUnit)
		if name == "" || unit == "" {
			continue
		}
		k := key{name, unit}
		if seen[k] {
			continue
		}
		seen[k] = true
		ingredients = append(ingredients, models.Ingredient{Name: name, MeasurementUnit: unit})
	}
	return ingredients, nil
}
