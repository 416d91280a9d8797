package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"glowfeed-api/cache"
	"glowfeed-api/config"
	"glowfeed-api/database"
	"glowfeed-api/jobs"
	"glowfeed-api/middleware"
	"glowfeed-api/repositories"
	"glowfeed-api/routes"
	"glowfeed-api/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed database with test data (optional - for development)
	if err := database.SeedData(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	// Local session cache, read once at startup
	sessionCache, err := cache.Open(cfg.CachePath)
	if err != nil {
		log.Fatal("Failed to open session cache:", err)
	}
	if userID, ok := sessionCache.Get(cache.KeyUserID); ok {
		log.Printf("Resuming cached session for user %s", userID)
	}

	// Services
	emailService := services.NewEmailService(cfg)
	groqService := services.NewGroqService(cfg)
	messageRepo := repositories.NewMessageRepository(db)
	postRepo := repositories.NewPostRepository(db)
	chatService := services.NewChatService(messageRepo, groqService, cfg.GroqTimeout)
	likeService := services.NewLikeService(postRepo)

	// Background jobs
	sessionCleanup := jobs.NewSessionCleanupJob(chatService, 10*time.Minute, time.Hour)
	sessionCleanup.Start()
	defer sessionCleanup.Stop()

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.Default()

	// Setup CORS and security headers
	router.Use(routes.SetupCORS())
	router.Use(middleware.SecurityHeaders())

	// Setup routes
	routes.SetupRoutes(router, db, cfg, sessionCache, emailService, chatService, likeService)

	// Start server
	log.Printf("Starting GlowFeed API server on port %s", cfg.Port)
	log.Printf("Health check available at: http://localhost:%s/ping", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
