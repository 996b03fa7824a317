// Package feed defines the change-feed contract: every successful store
// mutation fans out as an Event to all connected clients, including the one
// that issued it. Clients keep local state current solely by applying these
// events; the feed is the single source of truth for UI state.
package feed

import (
	"encoding/json"
	"log"

	"github.com/bloomworks/bloomgo/internal/models"
)

// Kind is the change event kind.
type Kind string

const (
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// Collection names mirror the store tables clients subscribe to.
// The activity log is write-only and is never fed back.
const (
	CollectionInventory   = "inventory"
	CollectionLines       = "production_lines"
	CollectionRecipes     = "recipes"
	CollectionBunches     = "produced_bunches"
	CollectionAssignments = "production_line_items"
)

// Event carries one change on one collection. New holds the row image after
// the change (insert/update), Old the image before it (delete).
type Event struct {
	Collection string          `json:"collection"`
	Kind       Kind            `json:"kind"`
	New        json.RawMessage `json:"new,omitempty"`
	Old        json.RawMessage `json:"old,omitempty"`
}

// Insert builds an insert event for a row.
func Insert(collection string, row interface{}) Event {
	return Event{Collection: collection, Kind: KindInsert, New: mustMarshal(row)}
}

// Update builds an update event carrying the full new row image. Clients
// replace the cached record wholesale; fields are never merged.
func Update(collection string, row interface{}) Event {
	return Event{Collection: collection, Kind: KindUpdate, New: mustMarshal(row)}
}

// Delete builds a delete event carrying the old row image.
func Delete(collection string, row interface{}) Event {
	return Event{Collection: collection, Kind: KindDelete, Old: mustMarshal(row)}
}

func mustMarshal(row interface{}) json.RawMessage {
	raw, err := json.Marshal(row)
	if err != nil {
		// Domain models marshal cleanly; anything else is a programming error.
		log.Printf("🔴 Feed: failed to marshal %T: %v", row, err)
		return nil
	}
	return raw
}

// Snapshot is the ordered full load a client performs at session start,
// before switching to event-driven reconciliation. Inventory, recipes and
// bunches are newest-first, lines ascending by id, assignments unordered.
type Snapshot struct {
	Inventory   []models.Box            `json:"inventory"`
	Lines       []models.ProductionLine `json:"productionLines"`
	Recipes     []models.Recipe         `json:"recipes"`
	Bunches     []models.ProducedBunch  `json:"producedBunches"`
	Assignments []models.LineAssignment `json:"lineAssignments"`
}
