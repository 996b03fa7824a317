// Package memstore is the in-memory Store used by the demo variant and by
// tests. It mirrors the persisted store's semantics, including the atomic
// assign-to-line unit and the atomic produced counter, under one mutex.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bloomworks/bloomgo/internal/engine"
	"github.com/bloomworks/bloomgo/internal/feed"
	"github.com/bloomworks/bloomgo/internal/models"
)

// Store keeps every collection in a map keyed by primary id. All methods
// return copies so callers never share memory with the store.
type Store struct {
	mu          sync.Mutex
	boxes       map[string]models.Box
	lines       map[int]models.ProductionLine
	recipes     map[string]models.Recipe
	bunches     map[string]models.ProducedBunch
	assignments map[string]models.LineAssignment
	activity    []models.ActivityLogEntry
}

// New creates a Store with the fixed set of production lines provisioned,
// all idle.
func New() *Store {
	s := &Store{
		boxes:       make(map[string]models.Box),
		lines:       make(map[int]models.ProductionLine),
		recipes:     make(map[string]models.Recipe),
		bunches:     make(map[string]models.ProducedBunch),
		assignments: make(map[string]models.LineAssignment),
	}
	for i := 1; i <= models.LineCount; i++ {
		s.lines[i] = models.ProductionLine{
			ID:     i,
			Name:   fmt.Sprintf("Line %d", i),
			Status: models.StatusIdle,
		}
	}
	return s
}

func (s *Store) BoxByID(_ context.Context, id string) (*models.Box, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	box, ok := s.boxes[id]
	if !ok {
		return nil, engine.ErrNotFound
	}
	return &box, nil
}

func (s *Store) InsertBox(_ context.Context, box *models.Box) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boxes[box.ID]; ok {
		return fmt.Errorf("box %s already exists", box.ID)
	}
	s.boxes[box.ID] = *box
	return nil
}

func (s *Store) SetBoxLocation(_ context.Context, id, location, actor string) (*models.Box, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	box, ok := s.boxes[id]
	if !ok {
		return nil, engine.ErrNotFound
	}
	box.Location = location
	box.UpdatedBy = actor
	box.UpdatedAt = time.Now().UTC()
	s.boxes[id] = box
	return &box, nil
}

func (s *Store) AssignBoxToLine(_ context.Context, boxID string, lineID int, actor string) (*models.Box, *models.LineAssignment, *models.ProductionLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	box, ok := s.boxes[boxID]
	if !ok {
		return nil, nil, nil, engine.ErrNotFound
	}
	line, ok := s.lines[lineID]
	if !ok {
		return nil, nil, nil, engine.ErrNotFound
	}

	now := time.Now().UTC()
	box.Location = models.LineLocation(lineID)
	box.UpdatedBy = actor
	box.UpdatedAt = now
	s.boxes[boxID] = box

	assignment := models.LineAssignment{
		ID:         fmt.Sprintf("LA-%d", len(s.assignments)+1),
		LineID:     lineID,
		BoxID:      boxID,
		AssignedBy: actor,
		AssignedAt: now,
	}
	s.assignments[assignment.ID] = assignment

	line.Status = models.StatusActive
	line.UpdatedBy = actor
	line.UpdatedAt = now
	s.lines[lineID] = line

	return &box, &assignment, &line, nil
}

func (s *Store) LineByID(_ context.Context, id int) (*models.ProductionLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.lines[id]
	if !ok {
		return nil, engine.ErrNotFound
	}
	return &line, nil
}

// SetLineRecipe points a line at a recipe by name. Used by the demo seeder
// and the line-recipe endpoint's in-memory counterpart.
func (s *Store) SetLineRecipe(_ context.Context, id int, recipeName, actor string) (*models.ProductionLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.lines[id]
	if !ok {
		return nil, engine.ErrNotFound
	}
	line.ActiveRecipe = &recipeName
	line.UpdatedBy = actor
	line.UpdatedAt = time.Now().UTC()
	s.lines[id] = line
	return &line, nil
}

func (s *Store) InsertBunch(_ context.Context, bunch *models.ProducedBunch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bunches[bunch.ID]; ok {
		return fmt.Errorf("duplicate key value: produced bunch %s already recorded", bunch.ID)
	}
	s.bunches[bunch.ID] = *bunch
	return nil
}

func (s *Store) IncrementProduced(_ context.Context, lineID int) (*models.ProductionLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.lines[lineID]
	if !ok {
		return nil, engine.ErrNotFound
	}
	line.ProducedCount++
	line.UpdatedAt = time.Now().UTC()
	s.lines[lineID] = line
	return &line, nil
}

func (s *Store) InsertRecipe(_ context.Context, recipe *models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[recipe.ID]; ok {
		return fmt.Errorf("recipe %s already exists", recipe.ID)
	}
	s.recipes[recipe.ID] = *recipe
	return nil
}

func (s *Store) AppendActivity(_ context.Context, entry *models.ActivityLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append(s.activity, *entry)
	return nil
}

// ActivityCount reports how many audit entries have been appended.
func (s *Store) ActivityCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activity)
}

// Counts reports collection sizes, used to assert zero-write behavior.
func (s *Store) Counts() (boxes, recipes, bunches, assignments int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.boxes), len(s.recipes), len(s.bunches), len(s.assignments)
}

// Snapshot produces the ordered full load a client performs at session
// start: inventory, recipes and bunches newest-first, lines ascending by
// id, assignments unordered.
func (s *Store) Snapshot(_ context.Context) (*feed.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &feed.Snapshot{}
	for _, b := range s.boxes {
		snap.Inventory = append(snap.Inventory, b)
	}
	sort.Slice(snap.Inventory, func(i, j int) bool {
		return snap.Inventory[i].CreatedAt.After(snap.Inventory[j].CreatedAt)
	})

	for _, l := range s.lines {
		snap.Lines = append(snap.Lines, l)
	}
	sort.Slice(snap.Lines, func(i, j int) bool { return snap.Lines[i].ID < snap.Lines[j].ID })

	for _, r := range s.recipes {
		snap.Recipes = append(snap.Recipes, r)
	}
	sort.Slice(snap.Recipes, func(i, j int) bool {
		return snap.Recipes[i].CreatedAt.After(snap.Recipes[j].CreatedAt)
	})

	for _, b := range s.bunches {
		snap.Bunches = append(snap.Bunches, b)
	}
	sort.Slice(snap.Bunches, func(i, j int) bool {
		return snap.Bunches[i].ProducedAt.After(snap.Bunches[j].ProducedAt)
	})

	for _, a := range s.assignments {
		snap.Assignments = append(snap.Assignments, a)
	}
	return snap, nil
}
