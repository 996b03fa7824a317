package models

import "time"

// Production line statuses (closed set).
const (
	StatusIdle        = "idle"
	StatusActive      = "active"
	StatusMaintenance = "maintenance"
)

// LineCount is the number of pre-provisioned production lines. Lines are
// never created or destroyed by the application.
const LineCount = 10

// ProductionLine is a fixed production station that consumes boxes and
// emits finished bunches. ActiveRecipe holds the name of the recipe the
// line is currently producing, nil when none is set.
type ProductionLine struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Status        string    `gorm:"type:varchar(20);default:'idle'" json:"status"`
	ActiveRecipe  *string   `json:"activeRecipe,omitempty"`
	ProducedCount int       `gorm:"default:0" json:"producedCount"`
	UpdatedBy     string    `json:"updatedBy"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName specifies the table name for ProductionLine model
func (ProductionLine) TableName() string {
	return "production_lines"
}

// LineAssignment records one box scanned onto one line. Rows are append-only;
// there is no modeled transition out of a line.
type LineAssignment struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	LineID     int       `gorm:"index;not null" json:"lineId"`
	BoxID      string    `gorm:"index;not null" json:"boxId"`
	AssignedBy string    `json:"assignedBy"`
	AssignedAt time.Time `json:"assignedAt"`
}

// TableName specifies the table name for LineAssignment model
func (LineAssignment) TableName() string {
	return "production_line_items"
}
