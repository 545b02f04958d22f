package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/reliant-hq/quote-api/internal/config"
	"github.com/reliant-hq/quote-api/internal/database"
	"github.com/reliant-hq/quote-api/internal/handlers"
	"github.com/reliant-hq/quote-api/internal/middleware"
	"github.com/reliant-hq/quote-api/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed roles, the product catalogue and the admin user
	if err := database.EnsureSeedData(db, cfg); err != nil {
		log.Printf("Warning: Could not ensure seed data: %v", err)
	}

	// AI pricing and summary clients. Pricing gets a longer deadline than
	// summaries; a slow summary call should fail fast.
	pricing := services.NewAIPricingClient(cfg.AIBaseURL, cfg.AIPricingTimeout)
	summary := services.NewAISummaryClient(cfg.AIBaseURL, cfg.AISummaryTimeout)

	// Attachment storage is optional; quotes work without it
	var storage *services.AttachmentStorage
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		storage, err = services.NewAttachmentStorage(
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL,
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize attachment storage: %v", err)
			storage = nil
		} else if err := storage.EnsureBucket(context.Background()); err != nil {
			log.Printf("Warning: Failed to ensure S3 bucket exists: %v", err)
		}
	} else {
		log.Println("S3 credentials not configured, quote attachments disabled")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Create handler with dependencies
	h := handlers.New(db, cfg, pricing, summary, storage)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", h.Login)
	auth.Get("/me", middleware.AuthRequired(cfg), h.GetCurrentUser)

	// Customer routes (authenticated)
	customers := api.Group("/customers", middleware.AuthRequired(cfg))
	customers.Get("/", h.ListCustomers)
	customers.Post("/", h.CreateCustomer)
	customers.Get("/:id", h.GetCustomer)
	customers.Put("/:id", h.UpdateCustomer)
	customers.Delete("/:id", h.DeleteCustomer)
	customers.Get("/:customerId/quotes", h.ListCustomerQuotes)

	// Product catalogue (authenticated read)
	products := api.Group("/products", middleware.AuthRequired(cfg))
	products.Get("/", h.ListProducts)

	// Quote routes (authenticated)
	quotes := api.Group("/quotes", middleware.AuthRequired(cfg))
	quotes.Post("/", h.CreateQuote)
	quotes.Post("/summary", h.SummarizeQuote)

	// Quote attachment routes (only if storage is configured). Registered
	// before the /:id routes so the literal prefix wins.
	if storage != nil {
		quotes.Get("/attachments/:attachmentId/download", h.DownloadAttachment)
		quotes.Delete("/attachments/:attachmentId", h.DeleteAttachment)
		quotes.Post("/:id/attachments", h.UploadAttachment)
		quotes.Get("/:id/attachments", h.ListAttachments)
	}

	quotes.Get("/:id", h.GetQuote)
	quotes.Put("/:id/status", h.UpdateQuoteStatus)

	// Admin routes (Manager role only)
	admin := api.Group("/admin", middleware.AuthRequired(cfg), middleware.ManagerRequired())
	admin.Get("/users", h.AdminListUsers)
	admin.Post("/users/:userId/roles/:roleName", h.AdminAssignRole)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
