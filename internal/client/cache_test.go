package client

import (
	"testing"
	"time"

	"github.com/bloomworks/bloomgo/internal/feed"
	"github.com/bloomworks/bloomgo/internal/models"
)

func box(id string, created time.Time) models.Box {
	return models.Box{
		ID: id, FlowerType: "Roses", Color: "Red", Quantity: 10, Unit: "stems",
		Location: models.LocationInventory, CreatedAt: created, UpdatedAt: created,
	}
}

func TestLoadSnapshot(t *testing.T) {
	now := time.Now().UTC()
	cache := NewCache()
	cache.LoadSnapshot(&feed.Snapshot{
		Inventory: []models.Box{box("BOX-2", now), box("BOX-1", now.Add(-time.Hour))},
		Lines: []models.ProductionLine{
			{ID: 1, Name: "Line 1", Status: models.StatusIdle},
			{ID: 2, Name: "Line 2", Status: models.StatusIdle},
		},
	})

	inv := cache.Inventory()
	if len(inv) != 2 || inv[0].ID != "BOX-2" || inv[1].ID != "BOX-1" {
		t.Errorf("snapshot order lost: %+v", inv)
	}
	if len(cache.Lines()) != 2 {
		t.Errorf("expected 2 lines, got %d", len(cache.Lines()))
	}
}

func TestApplyInsertPrepends(t *testing.T) {
	now := time.Now().UTC()
	cache := NewCache()
	cache.LoadSnapshot(&feed.Snapshot{Inventory: []models.Box{box("BOX-old", now.Add(-time.Hour))}})

	if err := cache.Apply(feed.Insert(feed.CollectionInventory, box("BOX-new", now))); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	inv := cache.Inventory()
	if len(inv) != 2 || inv[0].ID != "BOX-new" {
		t.Errorf("insert must prepend, got %+v", inv)
	}
}

func TestApplyUpdateReplacesWholeRecord(t *testing.T) {
	now := time.Now().UTC()
	cache := NewCache()
	cache.LoadSnapshot(&feed.Snapshot{Inventory: []models.Box{box("BOX-1", now)}})

	moved := box("BOX-1", now)
	moved.Location = models.LocationCheckedOut
	moved.UpdatedBy = "worker@farm.example"

	if err := cache.Apply(feed.Update(feed.CollectionInventory, moved)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	got, ok := cache.BoxByID("BOX-1")
	if !ok {
		t.Fatal("box vanished after update")
	}
	if got.Location != models.LocationCheckedOut || got.UpdatedBy != "worker@farm.example" {
		t.Errorf("update not applied wholesale: %+v", got)
	}
	if len(cache.Inventory()) != 1 {
		t.Errorf("update must not change list length")
	}

	// Replaying the same update is a no-op.
	if err := cache.Apply(feed.Update(feed.CollectionInventory, moved)); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if len(cache.Inventory()) != 1 {
		t.Errorf("replayed update must be idempotent")
	}
}

func TestApplyUpdateUnknownKeyIsNoop(t *testing.T) {
	cache := NewCache()
	if err := cache.Apply(feed.Update(feed.CollectionInventory, box("BOX-ghost", time.Now()))); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(cache.Inventory()) != 0 {
		t.Errorf("update for unknown key must not insert")
	}
}

func TestApplyDeleteRemoves(t *testing.T) {
	now := time.Now().UTC()
	cache := NewCache()
	cache.LoadSnapshot(&feed.Snapshot{Inventory: []models.Box{box("BOX-1", now), box("BOX-2", now)}})

	if err := cache.Apply(feed.Delete(feed.CollectionInventory, box("BOX-1", now))); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	inv := cache.Inventory()
	if len(inv) != 1 || inv[0].ID != "BOX-2" {
		t.Errorf("delete not applied: %+v", inv)
	}
}

func TestApplyLinesStayOrdered(t *testing.T) {
	cache := NewCache()
	for _, id := range []int{3, 1, 2} {
		line := models.ProductionLine{ID: id, Name: "Line", Status: models.StatusIdle}
		if err := cache.Apply(feed.Insert(feed.CollectionLines, line)); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}

	lines := cache.Lines()
	for i, want := range []int{1, 2, 3} {
		if lines[i].ID != want {
			t.Fatalf("lines out of order: %+v", lines)
		}
	}
}

func TestApplyAssignmentsAppend(t *testing.T) {
	cache := NewCache()
	for _, id := range []string{"A-1", "A-2"} {
		a := models.LineAssignment{ID: id, LineID: 1, BoxID: "BOX-1"}
		if err := cache.Apply(feed.Insert(feed.CollectionAssignments, a)); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}

	got := cache.Assignments()
	if len(got) != 2 || got[0].ID != "A-1" || got[1].ID != "A-2" {
		t.Errorf("assignments must append in arrival order: %+v", got)
	}
}

func TestApplyUnknownCollection(t *testing.T) {
	cache := NewCache()
	err := cache.Apply(feed.Insert("activity_log", map[string]string{"id": "x"}))
	if err == nil {
		t.Error("expected error for unknown collection")
	}
}

func TestStats(t *testing.T) {
	now := time.Now().UTC()
	checkedOut := box("BOX-2", now)
	checkedOut.Location = models.LocationCheckedOut

	cache := NewCache()
	cache.LoadSnapshot(&feed.Snapshot{
		Inventory: []models.Box{box("BOX-1", now), checkedOut},
		Lines: []models.ProductionLine{
			{ID: 1, Status: models.StatusActive, ProducedCount: 5},
			{ID: 2, Status: models.StatusIdle},
		},
		Bunches: []models.ProducedBunch{{ID: "BUN001"}, {ID: "BUN002"}},
	})

	stats := cache.Stats()
	want := Stats{TotalBoxes: 2, InStock: 1, ActiveLines: 1, Produced: 2}
	if stats != want {
		t.Errorf("got %+v, want %+v", stats, want)
	}
}
