// Package client holds the client-side view of the store: an explicit
// cache object owning one ordered copy of each collection, initialized from
// a snapshot and thereafter kept current purely by applying change events.
// The cache never special-cases the client's own writes; every update it
// sees arrives through the feed.
package client

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/bloomworks/bloomgo/internal/feed"
	"github.com/bloomworks/bloomgo/internal/models"
)

// Cache is the local copy of all five synced collections.
type Cache struct {
	mu          sync.RWMutex
	inventory   []models.Box
	lines       []models.ProductionLine
	recipes     []models.Recipe
	bunches     []models.ProducedBunch
	assignments []models.LineAssignment
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// LoadSnapshot replaces all local state with a full ordered load.
func (c *Cache) LoadSnapshot(snap *feed.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inventory = append([]models.Box(nil), snap.Inventory...)
	c.lines = append([]models.ProductionLine(nil), snap.Lines...)
	c.recipes = append([]models.Recipe(nil), snap.Recipes...)
	c.bunches = append([]models.ProducedBunch(nil), snap.Bunches...)
	c.assignments = append([]models.LineAssignment(nil), snap.Assignments...)
}

// Apply is the single entry point for change events. Inserts prepend
// (append, for assignments; id-ordered for lines), updates replace the
// record sharing the primary key wholesale, deletes remove it. An update
// for an unknown key is a no-op, so replaying an update is idempotent.
func (c *Cache) Apply(e feed.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e.Collection {
	case feed.CollectionInventory:
		var box models.Box
		if err := decodeRow(e, &box); err != nil {
			return err
		}
		c.inventory = applyOrdered(c.inventory, e.Kind, box, func(b models.Box) string { return b.ID }, true)
	case feed.CollectionLines:
		var line models.ProductionLine
		if err := decodeRow(e, &line); err != nil {
			return err
		}
		c.lines = applyOrdered(c.lines, e.Kind, line, func(l models.ProductionLine) int { return l.ID }, false)
		sort.Slice(c.lines, func(i, j int) bool { return c.lines[i].ID < c.lines[j].ID })
	case feed.CollectionRecipes:
		var recipe models.Recipe
		if err := decodeRow(e, &recipe); err != nil {
			return err
		}
		c.recipes = applyOrdered(c.recipes, e.Kind, recipe, func(r models.Recipe) string { return r.ID }, true)
	case feed.CollectionBunches:
		var bunch models.ProducedBunch
		if err := decodeRow(e, &bunch); err != nil {
			return err
		}
		c.bunches = applyOrdered(c.bunches, e.Kind, bunch, func(b models.ProducedBunch) string { return b.ID }, true)
	case feed.CollectionAssignments:
		var a models.LineAssignment
		if err := decodeRow(e, &a); err != nil {
			return err
		}
		c.assignments = applyOrdered(c.assignments, e.Kind, a, func(x models.LineAssignment) string { return x.ID }, false)
	default:
		return fmt.Errorf("unknown collection %q", e.Collection)
	}
	return nil
}

// decodeRow unmarshals the event's row image: the new image for inserts
// and updates, the old image for deletes.
func decodeRow(e feed.Event, out interface{}) error {
	raw := e.New
	if e.Kind == feed.KindDelete {
		raw = e.Old
	}
	if len(raw) == 0 {
		return fmt.Errorf("%s event on %s carries no row image", e.Kind, e.Collection)
	}
	return json.Unmarshal(raw, out)
}

func applyOrdered[T any, K comparable](list []T, kind feed.Kind, row T, key func(T) K, prepend bool) []T {
	switch kind {
	case feed.KindInsert:
		if prepend {
			return append([]T{row}, list...)
		}
		return append(list, row)
	case feed.KindUpdate:
		for i := range list {
			if key(list[i]) == key(row) {
				list[i] = row
				break
			}
		}
		return list
	case feed.KindDelete:
		out := list[:0]
		for _, item := range list {
			if key(item) != key(row) {
				out = append(out, item)
			}
		}
		return out
	}
	return list
}

// Inventory returns a copy of the cached box list, newest-first.
func (c *Cache) Inventory() []models.Box {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Box(nil), c.inventory...)
}

// Lines returns a copy of the cached lines, ascending by id.
func (c *Cache) Lines() []models.ProductionLine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.ProductionLine(nil), c.lines...)
}

// Recipes returns a copy of the cached recipes, newest-first.
func (c *Cache) Recipes() []models.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Recipe(nil), c.recipes...)
}

// Bunches returns a copy of the cached produced bunches, newest-first.
func (c *Cache) Bunches() []models.ProducedBunch {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.ProducedBunch(nil), c.bunches...)
}

// Assignments returns a copy of the cached line assignments.
func (c *Cache) Assignments() []models.LineAssignment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.LineAssignment(nil), c.assignments...)
}

// BoxByID looks a box up in the cache.
func (c *Cache) BoxByID(id string) (models.Box, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.inventory {
		if b.ID == id {
			return b, true
		}
	}
	return models.Box{}, false
}

// Stats are the dashboard counters derived from cached state.
type Stats struct {
	TotalBoxes  int `json:"totalBoxes"`
	InStock     int `json:"inStock"`
	ActiveLines int `json:"activeLines"`
	Produced    int `json:"produced"`
}

// Stats computes dashboard counters from the cache.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Stats{TotalBoxes: len(c.inventory), Produced: len(c.bunches)}
	for _, b := range c.inventory {
		if b.Location == models.LocationInventory {
			s.InStock++
		}
	}
	for _, l := range c.lines {
		if l.Status == models.StatusActive {
			s.ActiveLines++
		}
	}
	return s
}
