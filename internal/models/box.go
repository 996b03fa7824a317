package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Box locations form a closed set: a box is in stock, checked out, or on a line.
const (
	LocationInventory  = "inventory"
	LocationCheckedOut = "checked-out"
)

// LineLocation returns the location value for a box assigned to a production line.
func LineLocation(lineID int) string {
	return fmt.Sprintf("line-%d", lineID)
}

// ParseLineLocation extracts the line id from a "line-<N>" location value.
func ParseLineLocation(location string) (int, bool) {
	rest, ok := strings.CutPrefix(location, "line-")
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Box represents one physical container of flowers tracked as a single
// inventory unit. Location is the only field the application mutates after
// intake, besides the attribution stamp.
type Box struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	FlowerType string    `gorm:"not null" json:"flowerType"`
	Color      string    `gorm:"not null" json:"color"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Unit       string    `json:"unit"`
	Location   string    `gorm:"type:varchar(50);default:'inventory';index" json:"location"`
	UpdatedBy  string    `json:"updatedBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Box model
func (Box) TableName() string {
	return "inventory"
}
