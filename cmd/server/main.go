package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"issueradar/internal/apierr"
	"issueradar/internal/config"
	"issueradar/internal/database"
	"issueradar/internal/github"
	"issueradar/internal/handler"
	"issueradar/internal/repository"
	"issueradar/internal/service"
)

// main is the single entry-point for the REST API.
func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("Configuration loaded:")
	log.Printf("  - Database: %s", cfg.DBName)
	log.Printf("  - Search page size: %d", cfg.SearchPageSize)

	// Connect to MongoDB
	client, ctx, cancel, err := database.NewMongo(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer cancel()
	defer client.Disconnect(ctx)
	log.Printf("Connected to MongoDB")

	db := client.Database(cfg.DBName)

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	userIssueRepo := repository.NewUserIssueRepository(db)
	digestRepo := repository.NewDigestRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// Initialize the GitHub client and services
	gh := github.NewClient(cfg.GitHubToken)
	feedSvc := service.NewFeedService(profileRepo, userIssueRepo, gh, cfg.SearchPageSize)
	statusSvc := service.NewStatusService(userIssueRepo)
	profileSvc := service.NewProfileService(profileRepo)
	digestSvc := service.NewDigestService(digestRepo, profileRepo)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: apierr.ErrorHandler,
	})

	// Add middleware
	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(logger.New())

	// Register routes
	handler.RegisterRoutes(app, sessionRepo, feedSvc, statusSvc, profileSvc, digestSvc)

	// Add health check
	handler.NewHealthHandler(client).Register(app)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
