package models

import "time"

// BunchCompleted is the only status a produced bunch is ever recorded with.
const BunchCompleted = "completed"

// RecipeUnknown is recorded when a bunch is completed on a line with no
// active recipe.
const RecipeUnknown = "Unknown"

// ProducedBunch is one finished output unit. The id is the scanned output
// token; rows are append-only.
type ProducedBunch struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	RecipeName string    `json:"recipeName"`
	LineID     int       `gorm:"index" json:"lineId"`
	ProducedBy string    `json:"producedBy"`
	Status     string    `gorm:"type:varchar(20);default:'completed'" json:"status"`
	ProducedAt time.Time `json:"producedAt"`
}

// TableName specifies the table name for ProducedBunch model
func (ProducedBunch) TableName() string {
	return "produced_bunches"
}
