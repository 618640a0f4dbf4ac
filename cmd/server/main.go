package main

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skilly-social/backend/internal/realtime"
	"github.com/skilly-social/backend/internal/router"
	"github.com/skilly-social/backend/pkg/cloudinary"
	"github.com/skilly-social/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	database := db.Mongo.Database(cfg.MongoDatabase)
	if err := config.EnsureIndexes(context.Background(), database); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	// Initialize Cloudinary
	mediaStore, err := cloudinary.New(cfg.CloudinaryURL)
	if err != nil {
		log.Fatalf("Failed to initialize Cloudinary: %v", err)
	}

	// Websocket hub
	hub := realtime.NewHub()
	go hub.Run()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	notifier := router.SetupRoutes(e, cfg, database, mediaStore, hub)
	hub.OnJoin = notifier.HandleJoin

	// Realtime server on its own port
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/ws", hub.Handler())
		log.Printf("Realtime server listening on :%s", cfg.RealtimePort)
		if err := http.ListenAndServe(":"+cfg.RealtimePort, mux); err != nil {
			log.Fatalf("Realtime server failed: %v", err)
		}
	}()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
