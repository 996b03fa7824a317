package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// FlowerLine is one entry of a recipe composition.
type FlowerLine struct {
	Type     string `json:"type"`
	Color    string `json:"color"`
	Quantity int    `json:"quantity"`
}

// Recipe is a named flower composition defining what a line should produce.
// Recipes are immutable once created.
type Recipe struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Flowers   datatypes.JSON `json:"flowers"`
	CreatedBy string         `json:"createdBy"`
	CreatedAt time.Time      `json:"createdAt"`
}

// TableName specifies the table name for Recipe model
func (Recipe) TableName() string {
	return "recipes"
}

// FlowerLines decodes the stored composition.
func (r *Recipe) FlowerLines() ([]FlowerLine, error) {
	var lines []FlowerLine
	if len(r.Flowers) == 0 {
		return lines, nil
	}
	err := json.Unmarshal(r.Flowers, &lines)
	return lines, err
}

// EncodeFlowerLines serializes a composition for storage.
func EncodeFlowerLines(lines []FlowerLine) (datatypes.JSON, error) {
	raw, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
