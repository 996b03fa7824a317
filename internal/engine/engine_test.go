package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bloomworks/bloomgo/internal/engine"
	"github.com/bloomworks/bloomgo/internal/feed"
	"github.com/bloomworks/bloomgo/internal/memstore"
	"github.com/bloomworks/bloomgo/internal/models"
)

const actor = "worker@farm.example"

// newEngine wires an engine to a fresh in-memory store and a recording bus.
func newEngine() (*engine.Engine, *memstore.Store, *[]feed.Event) {
	store := memstore.New()
	bus := feed.NewBus()
	var events []feed.Event
	bus.Subscribe(func(e feed.Event) { events = append(events, e) })
	return engine.New(store, bus), store, &events
}

func TestAddToInventory(t *testing.T) {
	eng, store, events := newEngine()

	box, err := eng.AddToInventory(context.Background(), "ROSES|RED|200|STEMS", actor)
	if err != nil {
		t.Fatalf("AddToInventory failed: %v", err)
	}

	if !strings.HasPrefix(box.ID, "BOX-") {
		t.Errorf("expected generated BOX- id, got %q", box.ID)
	}
	if box.FlowerType != "Roses" || box.Color != "Red" || box.Quantity != 200 || box.Unit != "stems" {
		t.Errorf("unexpected box fields: %+v", box)
	}
	if box.Location != models.LocationInventory {
		t.Errorf("expected location %q, got %q", models.LocationInventory, box.Location)
	}
	if box.UpdatedBy != actor {
		t.Errorf("expected attribution %q, got %q", actor, box.UpdatedBy)
	}

	if len(*events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(*events))
	}
	e := (*events)[0]
	if e.Collection != feed.CollectionInventory || e.Kind != feed.KindInsert {
		t.Errorf("unexpected event: %s %s", e.Collection, e.Kind)
	}
	if store.ActivityCount() != 1 {
		t.Errorf("expected 1 activity entry, got %d", store.ActivityCount())
	}
}

func TestAddToInventoryMalformedTokenWritesNothing(t *testing.T) {
	eng, store, events := newEngine()

	_, err := eng.AddToInventory(context.Background(), "ROSES|RED", actor)
	var malformed *engine.MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}

	boxes, recipes, bunches, assignments := store.Counts()
	if boxes+recipes+bunches+assignments != 0 {
		t.Errorf("malformed token must write nothing, got %d/%d/%d/%d", boxes, recipes, bunches, assignments)
	}
	if store.ActivityCount() != 0 {
		t.Errorf("malformed token must not log activity, got %d entries", store.ActivityCount())
	}
	if len(*events) != 0 {
		t.Errorf("malformed token must publish nothing, got %d events", len(*events))
	}
}

func TestCheckoutBox(t *testing.T) {
	eng, _, events := newEngine()
	ctx := context.Background()

	box, err := eng.AddToInventory(ctx, "TULIPS|YELLOW|150|STEMS", actor)
	if err != nil {
		t.Fatalf("AddToInventory failed: %v", err)
	}

	moved, err := eng.CheckoutBox(ctx, box.ID, actor)
	if err != nil {
		t.Fatalf("CheckoutBox failed: %v", err)
	}
	if moved.Location != models.LocationCheckedOut {
		t.Errorf("expected %q, got %q", models.LocationCheckedOut, moved.Location)
	}

	// Re-scanning an already checked-out box just re-sets the field.
	again, err := eng.CheckoutBox(ctx, box.ID, actor)
	if err != nil {
		t.Fatalf("repeated CheckoutBox failed: %v", err)
	}
	if again.Location != models.LocationCheckedOut {
		t.Errorf("expected %q after repeat, got %q", models.LocationCheckedOut, again.Location)
	}

	last := (*events)[len(*events)-1]
	if last.Collection != feed.CollectionInventory || last.Kind != feed.KindUpdate {
		t.Errorf("unexpected last event: %s %s", last.Collection, last.Kind)
	}
}

func TestCheckoutUnknownBox(t *testing.T) {
	eng, _, _ := newEngine()

	_, err := eng.CheckoutBox(context.Background(), "BOX-nope", actor)
	var missing *engine.NotFoundError
	if !errors.As(err, &missing) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestAssignToLine(t *testing.T) {
	eng, store, events := newEngine()
	ctx := context.Background()

	box, err := eng.AddToInventory(ctx, "LILIES|WHITE|100|STEMS", actor)
	if err != nil {
		t.Fatalf("AddToInventory failed: %v", err)
	}
	*events = nil

	assigned, err := eng.AssignToLine(ctx, box.ID, 3, actor)
	if err != nil {
		t.Fatalf("AssignToLine failed: %v", err)
	}
	if assigned.Location != models.LineLocation(3) {
		t.Errorf("expected location %q, got %q", models.LineLocation(3), assigned.Location)
	}

	line, err := store.LineByID(ctx, 3)
	if err != nil {
		t.Fatalf("LineByID failed: %v", err)
	}
	if line.Status != models.StatusActive {
		t.Errorf("expected line 3 active, got %q", line.Status)
	}

	_, _, _, assignments := store.Counts()
	if assignments != 1 {
		t.Errorf("expected 1 assignment, got %d", assignments)
	}

	// Box update, assignment insert, line update.
	if len(*events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(*events))
	}
	wantCollections := []string{feed.CollectionInventory, feed.CollectionAssignments, feed.CollectionLines}
	for i, want := range wantCollections {
		if (*events)[i].Collection != want {
			t.Errorf("event %d: expected collection %s, got %s", i, want, (*events)[i].Collection)
		}
	}
}

func TestAssignToUnknownLine(t *testing.T) {
	eng, store, _ := newEngine()
	ctx := context.Background()

	box, err := eng.AddToInventory(ctx, "ROSES|RED|50|STEMS", actor)
	if err != nil {
		t.Fatalf("AddToInventory failed: %v", err)
	}

	_, err = eng.AssignToLine(ctx, box.ID, 99, actor)
	var missing *engine.NotFoundError
	if !errors.As(err, &missing) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	// Failed assignment leaves the box where it was.
	fresh, err := store.BoxByID(ctx, box.ID)
	if err != nil {
		t.Fatalf("BoxByID failed: %v", err)
	}
	if fresh.Location != models.LocationInventory {
		t.Errorf("failed assignment moved the box to %q", fresh.Location)
	}
}

func TestCompleteBunch(t *testing.T) {
	eng, store, events := newEngine()
	ctx := context.Background()

	if _, err := store.SetLineRecipe(ctx, 2, "Spring Mix", actor); err != nil {
		t.Fatalf("SetLineRecipe failed: %v", err)
	}
	*events = nil

	bunch, err := eng.CompleteBunch(ctx, "BUN001", 2, actor)
	if err != nil {
		t.Fatalf("CompleteBunch failed: %v", err)
	}
	if bunch.ID != "BUN001" {
		t.Errorf("bunch id must be the scanned token, got %q", bunch.ID)
	}
	if bunch.RecipeName != "Spring Mix" {
		t.Errorf("expected recipe from line, got %q", bunch.RecipeName)
	}
	if bunch.Status != models.BunchCompleted {
		t.Errorf("expected status %q, got %q", models.BunchCompleted, bunch.Status)
	}

	line, err := store.LineByID(ctx, 2)
	if err != nil {
		t.Fatalf("LineByID failed: %v", err)
	}
	if line.ProducedCount != 1 {
		t.Errorf("expected produced_count 1, got %d", line.ProducedCount)
	}

	// Bunch insert, line update.
	if len(*events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(*events))
	}
	if (*events)[0].Collection != feed.CollectionBunches || (*events)[0].Kind != feed.KindInsert {
		t.Errorf("unexpected first event: %+v", (*events)[0])
	}
	if (*events)[1].Collection != feed.CollectionLines || (*events)[1].Kind != feed.KindUpdate {
		t.Errorf("unexpected second event: %+v", (*events)[1])
	}
}

func TestCompleteBunchWithoutRecipe(t *testing.T) {
	eng, _, _ := newEngine()

	bunch, err := eng.CompleteBunch(context.Background(), "BUN002", 5, actor)
	if err != nil {
		t.Fatalf("CompleteBunch failed: %v", err)
	}
	if bunch.RecipeName != models.RecipeUnknown {
		t.Errorf("expected %q for a line with no recipe, got %q", models.RecipeUnknown, bunch.RecipeName)
	}
}

func TestCompleteBunchDuplicateToken(t *testing.T) {
	eng, store, _ := newEngine()
	ctx := context.Background()

	if _, err := eng.CompleteBunch(ctx, "BUN003", 1, actor); err != nil {
		t.Fatalf("first CompleteBunch failed: %v", err)
	}

	_, err := eng.CompleteBunch(ctx, "BUN003", 1, actor)
	var backend *engine.BackendError
	if !errors.As(err, &backend) {
		t.Fatalf("expected BackendError for duplicate token, got %v", err)
	}

	line, _ := store.LineByID(ctx, 1)
	if line.ProducedCount != 1 {
		t.Errorf("duplicate must not increment, got produced_count %d", line.ProducedCount)
	}
}

func TestCompleteBunchSerializedIncrements(t *testing.T) {
	eng, store, _ := newEngine()
	ctx := context.Background()

	const n = 25
	for i := 0; i < n; i++ {
		token := "BUN-" + strings.Repeat("x", i+1)
		if _, err := eng.CompleteBunch(ctx, token, 4, actor); err != nil {
			t.Fatalf("CompleteBunch %d failed: %v", i, err)
		}
	}

	line, err := store.LineByID(ctx, 4)
	if err != nil {
		t.Fatalf("LineByID failed: %v", err)
	}
	if line.ProducedCount != n {
		t.Errorf("expected produced_count %d, got %d", n, line.ProducedCount)
	}
}

func TestCreateRecipe(t *testing.T) {
	eng, _, events := newEngine()

	recipe, err := eng.CreateRecipe(context.Background(), "  Romance Bundle  ", []engine.FlowerInput{
		{Type: "Roses", Color: "Red", Quantity: "12"},
		{Type: "", Color: "Red", Quantity: "3"},         // no type, dropped
		{Type: "Tulips", Color: "Yellow", Quantity: ""}, // no quantity, dropped
		{Type: "Lilies", Color: "White", Quantity: "abc"},
		{Type: "Lilies", Color: "White", Quantity: "0"},
	}, actor)
	if err != nil {
		t.Fatalf("CreateRecipe failed: %v", err)
	}

	if recipe.Name != "Romance Bundle" {
		t.Errorf("expected trimmed name, got %q", recipe.Name)
	}
	lines, err := recipe.FlowerLines()
	if err != nil {
		t.Fatalf("FlowerLines failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 surviving flower line, got %d", len(lines))
	}
	if lines[0] != (models.FlowerLine{Type: "Roses", Color: "Red", Quantity: 12}) {
		t.Errorf("unexpected flower line: %+v", lines[0])
	}

	last := (*events)[len(*events)-1]
	if last.Collection != feed.CollectionRecipes || last.Kind != feed.KindInsert {
		t.Errorf("unexpected event: %s %s", last.Collection, last.Kind)
	}
}

func TestCreateRecipeRejected(t *testing.T) {
	eng, store, _ := newEngine()
	ctx := context.Background()

	cases := []struct {
		name    string
		recipe  string
		flowers []engine.FlowerInput
	}{
		{"blank name", "   ", []engine.FlowerInput{{Type: "Roses", Color: "Red", Quantity: "5"}}},
		{"no flowers", "Empty", nil},
		{"all rows invalid", "Bad Rows", []engine.FlowerInput{
			{Type: "Roses", Color: "", Quantity: "5"},
			{Type: "Roses", Color: "Red", Quantity: "-1"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eng.CreateRecipe(ctx, tc.recipe, tc.flowers, actor)
			var invalid *engine.ValidationError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	_, recipes, _, _ := store.Counts()
	if recipes != 0 {
		t.Errorf("rejected recipes must not persist, got %d", recipes)
	}
}
