package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bloomworks/bloomgo/internal/ai"
	"github.com/bloomworks/bloomgo/internal/config"
	"github.com/bloomworks/bloomgo/internal/database"
	"github.com/bloomworks/bloomgo/internal/engine"
	"github.com/bloomworks/bloomgo/internal/handlers"
	"github.com/bloomworks/bloomgo/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Synchronize schema and provision the fixed line set
	log.Println("🚀 Synchronizing database schema...")
	if err := db.Migrate(); err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}
	if err := db.ProvisionLines(); err != nil {
		log.Fatalf("Failed to provision production lines: %v", err)
	}

	// 4. Start the change feed hub
	hub := websocket.NewHub()
	go hub.Run()

	// 5. Wire the transition engine to the store and the feed
	eng := engine.New(db, hub)

	// 6. Optional: Gemini-backed recipe suggestions
	var suggester *ai.Suggester
	if cfg.GeminiKey != "" {
		suggester, err = ai.NewSuggester(context.Background(), cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("⚠️ AI: Failed to init suggester: %v", err)
		} else {
			defer suggester.Close()
			log.Printf("✅ AI: Recipe suggestions enabled (%s)", cfg.GeminiModel)
		}
	}

	// 7. Set up HTTP router
	router := handlers.NewRouter(db, eng, hub, cfg, suggester)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
