// Package engine implements the domain transition rules: a scanned token
// plus current state maps to a persisted state change plus an
// attribution-tagged activity record. Callers get immediate success or
// failure, but the state every client renders arrives through the change
// feed, never through the return value.
package engine

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bloomworks/bloomgo/internal/feed"
	"github.com/bloomworks/bloomgo/internal/models"
	"github.com/google/uuid"
)

// Store is the persistence surface the engine mutates. AssignBoxToLine and
// IncrementProduced are atomic on the implementation side: the box move,
// assignment insert and line activation commit together, and the produced
// counter is a server-side increment rather than a read-then-write.
type Store interface {
	BoxByID(ctx context.Context, id string) (*models.Box, error)
	InsertBox(ctx context.Context, box *models.Box) error
	SetBoxLocation(ctx context.Context, id, location, actor string) (*models.Box, error)
	AssignBoxToLine(ctx context.Context, boxID string, lineID int, actor string) (*models.Box, *models.LineAssignment, *models.ProductionLine, error)
	LineByID(ctx context.Context, id int) (*models.ProductionLine, error)
	InsertBunch(ctx context.Context, bunch *models.ProducedBunch) error
	IncrementProduced(ctx context.Context, lineID int) (*models.ProductionLine, error)
	InsertRecipe(ctx context.Context, recipe *models.Recipe) error
	AppendActivity(ctx context.Context, entry *models.ActivityLogEntry) error
}

// Publisher fans a change event out to every connected client, the
// originating one included.
type Publisher interface {
	Publish(feed.Event)
}

// Engine executes the five transitions against a Store and publishes the
// resulting change events.
type Engine struct {
	store Store
	pub   Publisher
}

// New creates an Engine.
func New(store Store, pub Publisher) *Engine {
	return &Engine{store: store, pub: pub}
}

// FlowerInput is one raw composition row from the recipe form. Quantity
// arrives as text and must parse as a positive integer to count.
type FlowerInput struct {
	Type     string `json:"type"`
	Color    string `json:"color"`
	Quantity string `json:"quantity"`
}

// AddToInventory decodes an intake token and registers a new box in stock.
func (e *Engine) AddToInventory(ctx context.Context, token, actor string) (*models.Box, error) {
	rec, err := ParseIntakeToken(token)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	box := &models.Box{
		ID:         "BOX-" + uuid.NewString(),
		FlowerType: rec.FlowerType,
		Color:      rec.Color,
		Quantity:   rec.Quantity,
		Unit:       rec.Unit,
		Location:   models.LocationInventory,
		UpdatedBy:  actor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := e.store.InsertBox(ctx, box); err != nil {
		return nil, &BackendError{Err: err}
	}

	e.logActivity(ctx, actor, models.ActionAddInventory,
		fmt.Sprintf("Added %s %s to inventory", rec.FlowerType, rec.Color),
		map[string]interface{}{"barcode": token, "boxId": box.ID})
	e.pub.Publish(feed.Insert(feed.CollectionInventory, box))
	return box, nil
}

// CheckoutBox moves a box to checked-out. Reapplying is harmless: the
// operation just re-sets the same field.
func (e *Engine) CheckoutBox(ctx context.Context, boxID, actor string) (*models.Box, error) {
	box, err := e.store.SetBoxLocation(ctx, boxID, models.LocationCheckedOut, actor)
	if err != nil {
		return nil, wrapStore(err, "box", boxID)
	}

	e.logActivity(ctx, actor, models.ActionCheckout,
		fmt.Sprintf("Checked out box %s", boxID),
		map[string]interface{}{"boxId": boxID})
	e.pub.Publish(feed.Update(feed.CollectionInventory, box))
	return box, nil
}

// AssignToLine moves a box onto a production line. The box move, the
// assignment row and the line activation commit as one unit.
func (e *Engine) AssignToLine(ctx context.Context, boxID string, lineID int, actor string) (*models.Box, error) {
	box, assignment, line, err := e.store.AssignBoxToLine(ctx, boxID, lineID, actor)
	if err != nil {
		return nil, wrapStore(err, "box", boxID)
	}

	e.logActivity(ctx, actor, models.ActionAssignToLine,
		fmt.Sprintf("Assigned box %s to Line %d", boxID, lineID),
		map[string]interface{}{"boxId": boxID, "lineId": lineID})
	e.pub.Publish(feed.Update(feed.CollectionInventory, box))
	e.pub.Publish(feed.Insert(feed.CollectionAssignments, assignment))
	e.pub.Publish(feed.Update(feed.CollectionLines, line))
	return box, nil
}

// CompleteBunch records one finished output unit against a line and bumps
// the line's produced counter by exactly one. The scanned token is trusted
// as the bunch id; a duplicate surfaces as a store failure.
func (e *Engine) CompleteBunch(ctx context.Context, bunchToken string, lineID int, actor string) (*models.ProducedBunch, error) {
	line, err := e.store.LineByID(ctx, lineID)
	if err != nil {
		return nil, wrapStore(err, "line", fmt.Sprintf("%d", lineID))
	}

	recipeName := models.RecipeUnknown
	if line.ActiveRecipe != nil && *line.ActiveRecipe != "" {
		recipeName = *line.ActiveRecipe
	}

	bunch := &models.ProducedBunch{
		ID:         bunchToken,
		RecipeName: recipeName,
		LineID:     lineID,
		ProducedBy: actor,
		Status:     models.BunchCompleted,
		ProducedAt: time.Now().UTC(),
	}
	if err := e.store.InsertBunch(ctx, bunch); err != nil {
		return nil, &BackendError{Err: err}
	}

	line, err = e.store.IncrementProduced(ctx, lineID)
	if err != nil {
		return nil, wrapStore(err, "line", fmt.Sprintf("%d", lineID))
	}

	e.logActivity(ctx, actor, models.ActionCompleteBunch,
		fmt.Sprintf("Completed bunch %s on Line %d", bunchToken, lineID),
		map[string]interface{}{"bunchId": bunchToken, "lineId": lineID})
	e.pub.Publish(feed.Insert(feed.CollectionBunches, bunch))
	e.pub.Publish(feed.Update(feed.CollectionLines, line))
	return bunch, nil
}

// CreateRecipe validates and persists a named composition. Rows missing a
// type or color, or whose quantity does not parse as a positive integer,
// are dropped; an empty result is rejected.
func (e *Engine) CreateRecipe(ctx context.Context, name string, flowers []FlowerInput, actor string) (*models.Recipe, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Reason: "recipe name is required"}
	}

	var lines []models.FlowerLine
	for _, f := range flowers {
		qty, err := strconv.Atoi(strings.TrimSpace(f.Quantity))
		if err != nil || qty < 1 {
			continue
		}
		if strings.TrimSpace(f.Type) == "" || strings.TrimSpace(f.Color) == "" {
			continue
		}
		lines = append(lines, models.FlowerLine{
			Type:     strings.TrimSpace(f.Type),
			Color:    strings.TrimSpace(f.Color),
			Quantity: qty,
		})
	}
	if len(lines) == 0 {
		return nil, &ValidationError{Reason: "recipe needs at least one valid flower line"}
	}

	encoded, err := models.EncodeFlowerLines(lines)
	if err != nil {
		return nil, &BackendError{Err: err}
	}

	recipe := &models.Recipe{
		ID:        "R-" + uuid.NewString(),
		Name:      name,
		Flowers:   encoded,
		CreatedBy: actor,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.store.InsertRecipe(ctx, recipe); err != nil {
		return nil, &BackendError{Err: err}
	}

	e.logActivity(ctx, actor, models.ActionCreateRecipe,
		fmt.Sprintf("Created recipe: %s", name),
		map[string]interface{}{"recipeId": recipe.ID, "name": name})
	e.pub.Publish(feed.Insert(feed.CollectionRecipes, recipe))
	return recipe, nil
}

// logActivity appends an audit entry. The log is a write-only side effect;
// a failure here never fails the transition that triggered it.
func (e *Engine) logActivity(ctx context.Context, actor, action, description string, metadata map[string]interface{}) {
	entry := &models.ActivityLogEntry{
		ID:          uuid.NewString(),
		ActionType:  action,
		Description: description,
		UserEmail:   actor,
		Metadata:    metadata,
		CreatedAt:   time.Now().UTC(),
	}
	if err := e.store.AppendActivity(ctx, entry); err != nil {
		log.Printf("🔴 Activity: failed to append %s entry: %v", action, err)
	}
}
