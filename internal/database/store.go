package database

import (
	"context"
	"errors"
	"time"

	"github.com/bloomworks/bloomgo/internal/engine"
	"github.com/bloomworks/bloomgo/internal/feed"
	"github.com/bloomworks/bloomgo/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newAssignmentID() string { return uuid.NewString() }

// The DB satisfies engine.Store. Multi-step transitions run inside a
// transaction and the produced counter uses a server-side increment, so a
// failure mid-operation can never leave a box pointing at a line without
// an assignment row, and concurrent completions never lose an increment.

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.ErrNotFound
	}
	return err
}

// BoxByID looks up a box by its scanned identifier.
func (db *DB) BoxByID(ctx context.Context, id string) (*models.Box, error) {
	var box models.Box
	if err := db.WithContext(ctx).First(&box, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &box, nil
}

// InsertBox persists a freshly scanned intake box.
func (db *DB) InsertBox(ctx context.Context, box *models.Box) error {
	return db.WithContext(ctx).Create(box).Error
}

// SetBoxLocation moves a box and stamps the attribution fields.
func (db *DB) SetBoxLocation(ctx context.Context, id, location, actor string) (*models.Box, error) {
	res := db.WithContext(ctx).Model(&models.Box{}).Where("id = ?", id).Updates(map[string]interface{}{
		"location":   location,
		"updated_by": actor,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, engine.ErrNotFound
	}
	return db.BoxByID(ctx, id)
}

// AssignBoxToLine commits the box move, the assignment row and the line
// activation as one transaction.
func (db *DB) AssignBoxToLine(ctx context.Context, boxID string, lineID int, actor string) (*models.Box, *models.LineAssignment, *models.ProductionLine, error) {
	var (
		box        models.Box
		line       models.ProductionLine
		assignment models.LineAssignment
	)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&box, "id = ?", boxID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.First(&line, "id = ?", lineID).Error; err != nil {
			return notFound(err)
		}

		now := time.Now().UTC()
		box.Location = models.LineLocation(lineID)
		box.UpdatedBy = actor
		box.UpdatedAt = now
		if err := tx.Save(&box).Error; err != nil {
			return err
		}

		assignment = models.LineAssignment{
			ID:         newAssignmentID(),
			LineID:     lineID,
			BoxID:      boxID,
			AssignedBy: actor,
			AssignedAt: now,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}

		line.Status = models.StatusActive
		line.UpdatedBy = actor
		line.UpdatedAt = now
		return tx.Save(&line).Error
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return &box, &assignment, &line, nil
}

// LineByID fetches a production line.
func (db *DB) LineByID(ctx context.Context, id int) (*models.ProductionLine, error) {
	var line models.ProductionLine
	if err := db.WithContext(ctx).First(&line, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &line, nil
}

// SetLineRecipe points a line at a recipe by name.
func (db *DB) SetLineRecipe(ctx context.Context, id int, recipeName, actor string) (*models.ProductionLine, error) {
	res := db.WithContext(ctx).Model(&models.ProductionLine{}).Where("id = ?", id).Updates(map[string]interface{}{
		"active_recipe": recipeName,
		"updated_by":    actor,
		"updated_at":    time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, engine.ErrNotFound
	}
	return db.LineByID(ctx, id)
}

// InsertBunch appends one produced bunch. The primary key constraint
// surfaces duplicate scanned tokens as a store error.
func (db *DB) InsertBunch(ctx context.Context, bunch *models.ProducedBunch) error {
	return db.WithContext(ctx).Create(bunch).Error
}

// IncrementProduced bumps a line's produced counter atomically in the
// database, then returns the fresh row.
func (db *DB) IncrementProduced(ctx context.Context, lineID int) (*models.ProductionLine, error) {
	res := db.WithContext(ctx).Model(&models.ProductionLine{}).Where("id = ?", lineID).
		UpdateColumn("produced_count", gorm.Expr("produced_count + ?", 1))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, engine.ErrNotFound
	}
	return db.LineByID(ctx, lineID)
}

// InsertRecipe persists an immutable recipe.
func (db *DB) InsertRecipe(ctx context.Context, recipe *models.Recipe) error {
	return db.WithContext(ctx).Create(recipe).Error
}

// AppendActivity writes one audit entry.
func (db *DB) AppendActivity(ctx context.Context, entry *models.ActivityLogEntry) error {
	return db.WithContext(ctx).Create(entry).Error
}

// Snapshot performs the ordered full load clients run at session start:
// inventory, recipes and bunches newest-first, lines ascending by id,
// assignments unordered.
func (db *DB) Snapshot(ctx context.Context) (*feed.Snapshot, error) {
	snap := &feed.Snapshot{}
	tx := db.WithContext(ctx)

	if err := tx.Order("created_at DESC").Find(&snap.Inventory).Error; err != nil {
		return nil, err
	}
	if err := tx.Order("id ASC").Find(&snap.Lines).Error; err != nil {
		return nil, err
	}
	if err := tx.Order("created_at DESC").Find(&snap.Recipes).Error; err != nil {
		return nil, err
	}
	if err := tx.Order("produced_at DESC").Find(&snap.Bunches).Error; err != nil {
		return nil, err
	}
	if err := tx.Find(&snap.Assignments).Error; err != nil {
		return nil, err
	}
	return snap, nil
}
