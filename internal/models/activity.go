package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity log action types (closed set).
const (
	ActionAddInventory  = "ADD_INVENTORY"
	ActionCheckout      = "CHECKOUT"
	ActionAssignToLine  = "ASSIGN_TO_LINE"
	ActionCompleteBunch = "COMPLETE_BUNCH"
	ActionCreateRecipe  = "CREATE_RECIPE"
)

// ActivityLogEntry is an append-only audit record. The application only
// ever writes these; there is no read path.
type ActivityLogEntry struct {
	ID          string            `gorm:"primaryKey" json:"id"`
	ActionType  string            `gorm:"index;not null" json:"actionType"`
	Description string            `json:"description"`
	UserEmail   string            `json:"userEmail"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// TableName specifies the table name for ActivityLogEntry model
func (ActivityLogEntry) TableName() string {
	return "activity_log"
}
