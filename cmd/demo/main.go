// Command demo runs the whole flow in memory: an in-process store, an
// in-process change feed, and a client cache that learns about every write
// the same way a remote client would. No database, no network, no camera.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bloomworks/bloomgo/internal/client"
	"github.com/bloomworks/bloomgo/internal/engine"
	"github.com/bloomworks/bloomgo/internal/feed"
	"github.com/bloomworks/bloomgo/internal/memstore"
	"github.com/bloomworks/bloomgo/internal/models"
	"github.com/bloomworks/bloomgo/internal/scanner"
)

const demoUser = "demo@bloomworks.example"

func main() {
	fmt.Println("🌷 BloomGo In-Memory Demo")
	fmt.Println()

	store := memstore.New()
	bus := feed.NewBus()
	eng := engine.New(store, bus)

	// The client cache subscribes to the feed like any remote client.
	cache := client.NewCache()
	bus.Subscribe(func(e feed.Event) {
		if err := cache.Apply(e); err != nil {
			log.Printf("🔴 Feed apply failed: %v", err)
		}
	})

	snap, err := store.Snapshot(context.Background())
	if err != nil {
		log.Fatalf("❌ Snapshot failed: %v", err)
	}
	cache.LoadSnapshot(snap)

	ctx := context.Background()

	// 1. Intake: scan a box label into inventory through a scan session.
	fmt.Println("📷 Scanning intake label ROSES|RED|200|STEMS ...")
	var boxID string
	session := &scanner.Session{
		Decoder: &scanner.SimulatedDecoder{Tokens: []string{"ROSES|RED|200|STEMS"}},
		Source:  scanner.NewSimulatedSource(),
		Handle: func(ctx context.Context, token string) error {
			box, err := eng.AddToInventory(ctx, token, demoUser)
			if err != nil {
				return err
			}
			boxID = box.ID
			return nil
		},
		ShowDelay: 10 * time.Millisecond,
	}
	if err := session.Run(ctx); err != nil {
		log.Fatalf("❌ Intake scan failed: %v", err)
	}
	fmt.Printf("   box registered: %s\n", boxID)

	// 2. Checkout, then assign to a line.
	fmt.Println("🚚 Checking the box out ...")
	if _, err := eng.CheckoutBox(ctx, boxID, demoUser); err != nil {
		log.Fatalf("❌ Checkout failed: %v", err)
	}

	fmt.Println("🏭 Assigning the box to Line 3 ...")
	if _, err := eng.AssignToLine(ctx, boxID, 3, demoUser); err != nil {
		log.Fatalf("❌ Assign failed: %v", err)
	}

	// 3. Create a recipe and point the line at it.
	fmt.Println("📖 Creating recipe Romance Bundle ...")
	recipe, err := eng.CreateRecipe(ctx, "Romance Bundle", []engine.FlowerInput{
		{Type: "Roses", Color: "Red", Quantity: "12"},
	}, demoUser)
	if err != nil {
		log.Fatalf("❌ Recipe failed: %v", err)
	}
	line, err := store.SetLineRecipe(ctx, 3, recipe.Name, demoUser)
	if err != nil {
		log.Fatalf("❌ Set recipe failed: %v", err)
	}
	bus.Publish(feed.Update(feed.CollectionLines, line))

	// 4. Record one finished bunch on the line.
	fmt.Println("💐 Completing bunch BUN100 on Line 3 ...")
	if _, err := eng.CompleteBunch(ctx, "BUN100", 3, demoUser); err != nil {
		log.Fatalf("❌ Complete failed: %v", err)
	}

	// 5. Render the dashboard purely from the feed-fed cache.
	fmt.Println()
	fmt.Println("📊 Dashboard (derived from the client cache):")
	stats := cache.Stats()
	fmt.Printf("   total boxes:  %d\n", stats.TotalBoxes)
	fmt.Printf("   in stock:     %d\n", stats.InStock)
	fmt.Printf("   active lines: %d\n", stats.ActiveLines)
	fmt.Printf("   produced:     %d\n", stats.Produced)

	fmt.Println()
	fmt.Println("   inventory:")
	for _, b := range cache.Inventory() {
		fmt.Printf("     %-40s %-8s %-8s %4d %-6s @ %s\n", b.ID, b.FlowerType, b.Color, b.Quantity, b.Unit, b.Location)
	}

	fmt.Println("   active lines:")
	for _, l := range cache.Lines() {
		if l.Status != models.StatusActive {
			continue
		}
		recipeName := "-"
		if l.ActiveRecipe != nil {
			recipeName = *l.ActiveRecipe
		}
		fmt.Printf("     %s: recipe=%s produced=%d\n", l.Name, recipeName, l.ProducedCount)
	}

	fmt.Println("   bunches:")
	for _, b := range cache.Bunches() {
		fmt.Printf("     %s (%s, Line %d)\n", b.ID, b.RecipeName, b.LineID)
	}

	fmt.Println()
	fmt.Println("✅ Demo complete")
}
