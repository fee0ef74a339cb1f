package models

// Tag represents a recipe tag. Name, color and slug are globally unique.
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Color string `json:"color" gorm:"size:7;not null;uniqueIndex;check:chk_tags_color,length(color) = 7"`
	Slug  string `json:"slug" gorm:"size:50;not null;uniqueIndex"`
}

// Ingredient is catalog data. The same name may exist with different units.
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:255;not null;uniqueIndex:idx_ingredients_name_unit,priority:1"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:10;not null;uniqueIndex:idx_ingredients_name_unit,priority:2"`
}
