package main

import (
	"fmt"
	"log"
	"time"

	"github.com/bloomworks/bloomgo/internal/config"
	"github.com/bloomworks/bloomgo/internal/database"
	"github.com/bloomworks/bloomgo/internal/models"
)

func main() {
	fmt.Println("🌱 BloomGo Demo Data Seeder")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")
	fmt.Println()

	// Run migrations first
	fmt.Println("🔨 Running database migrations...")
	if err := db.Migrate(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	if err := db.ProvisionLines(); err != nil {
		log.Fatalf("❌ Line provisioning failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")
	fmt.Println()

	// Check if data already exists
	var boxCount int64
	db.Model(&models.Box{}).Count(&boxCount)
	if boxCount > 0 {
		fmt.Printf("⚠️  Database already has %d boxes. Clear it first? (y/N): ", boxCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}

		fmt.Println("🗑️  Clearing existing data...")
		db.Exec("TRUNCATE TABLE production_line_items CASCADE")
		db.Exec("TRUNCATE TABLE produced_bunches CASCADE")
		db.Exec("TRUNCATE TABLE inventory CASCADE")
		db.Exec("TRUNCATE TABLE recipes CASCADE")
		db.Exec("TRUNCATE TABLE activity_log CASCADE")
		db.Exec("UPDATE production_lines SET status = 'idle', active_recipe = NULL, produced_count = 0")
		fmt.Println("✅ Data cleared")
	}

	fmt.Println()
	fmt.Println("📦 Creating demo data...")
	fmt.Println()

	now := time.Now().UTC()
	seeder := "demo@bloomworks.example"

	// 1. Inventory boxes
	fmt.Println("🌷 Creating inventory boxes...")
	boxes := []models.Box{
		{ID: "BOX001", FlowerType: "Roses", Color: "Red", Quantity: 200, Unit: "stems",
			Location: models.LocationInventory, UpdatedBy: seeder, CreatedAt: now, UpdatedAt: now},
		{ID: "BOX002", FlowerType: "Tulips", Color: "Yellow", Quantity: 150, Unit: "stems",
			Location: models.LocationInventory, UpdatedBy: seeder, CreatedAt: now, UpdatedAt: now},
		{ID: "BOX003", FlowerType: "Lilies", Color: "White", Quantity: 100, Unit: "stems",
			Location: models.LineLocation(1), UpdatedBy: seeder, CreatedAt: now, UpdatedAt: now},
	}
	for _, box := range boxes {
		if err := db.Create(&box).Error; err != nil {
			log.Fatalf("❌ Failed to create box %s: %v", box.ID, err)
		}
		fmt.Printf("   created %s (%s %s, %d %s)\n", box.ID, box.Color, box.FlowerType, box.Quantity, box.Unit)
	}

	// 2. Recipes
	fmt.Println("📖 Creating recipes...")
	recipes := []struct {
		id      string
		name    string
		flowers []models.FlowerLine
	}{
		{"R-DEMO-1", "Spring Mix", []models.FlowerLine{
			{Type: "Tulips", Color: "Yellow", Quantity: 7},
			{Type: "Lilies", Color: "White", Quantity: 3},
		}},
		{"R-DEMO-2", "Romance Bundle", []models.FlowerLine{
			{Type: "Roses", Color: "Red", Quantity: 12},
		}},
		{"R-DEMO-3", "Garden Delight", []models.FlowerLine{
			{Type: "Roses", Color: "Red", Quantity: 5},
			{Type: "Tulips", Color: "Yellow", Quantity: 5},
			{Type: "Lilies", Color: "White", Quantity: 2},
		}},
	}
	for _, r := range recipes {
		encoded, err := models.EncodeFlowerLines(r.flowers)
		if err != nil {
			log.Fatalf("❌ Failed to encode recipe %s: %v", r.name, err)
		}
		recipe := models.Recipe{ID: r.id, Name: r.name, Flowers: encoded, CreatedBy: seeder, CreatedAt: now}
		if err := db.Create(&recipe).Error; err != nil {
			log.Fatalf("❌ Failed to create recipe %s: %v", r.name, err)
		}
		fmt.Printf("   created %s\n", r.name)
	}

	// 3. Line 1 running Spring Mix with one box assigned and output recorded
	fmt.Println("🏭 Activating Line 1...")
	springMix := "Spring Mix"
	if err := db.Model(&models.ProductionLine{}).Where("id = ?", 1).Updates(map[string]interface{}{
		"status":         models.StatusActive,
		"active_recipe":  springMix,
		"produced_count": 15,
		"updated_by":     seeder,
		"updated_at":     now,
	}).Error; err != nil {
		log.Fatalf("❌ Failed to activate line 1: %v", err)
	}

	assignment := models.LineAssignment{
		ID: "A-DEMO-1", LineID: 1, BoxID: "BOX003", AssignedBy: seeder, AssignedAt: now,
	}
	if err := db.Create(&assignment).Error; err != nil {
		log.Fatalf("❌ Failed to create assignment: %v", err)
	}

	bunch := models.ProducedBunch{
		ID: "BUN001", RecipeName: springMix, LineID: 1,
		ProducedBy: seeder, Status: models.BunchCompleted, ProducedAt: now,
	}
	if err := db.Create(&bunch).Error; err != nil {
		log.Fatalf("❌ Failed to create bunch: %v", err)
	}

	fmt.Println()
	fmt.Println("✅ Demo data ready: 3 boxes, 3 recipes, Line 1 active with 15 produced")
}
