package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/fulfillment"
	"storefront/pkg/rabbitmq"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	// Set up Viper to read configuration from environment variables or a file
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("FULFILLMENT_API_URL", "")
	viper.SetDefault("FULFILLMENT_API_KEY", "")
	viper.SetDefault("FULFILLMENT_SHOP_ID", "")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")

	// --- Initialize Repositories ---
	// With a DSN configured the repositories run on PostgreSQL; without one
	// the in-memory implementations back a self-contained dev instance.
	var (
		productRepo repositories.ProductRepository
		orderRepo   repositories.OrderRepository
		userRepo    repositories.UserRepository
		brandRepo   repositories.BrandRepository
	)
	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.AutoMigrate(
			&models.User{}, &models.Brand{},
			&models.Product{}, &models.Variant{},
			&models.Order{}, &models.OrderItem{}, &models.OrderShippingAddress{},
		); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		productRepo = repositories.NewGORMProductRepository(db)
		orderRepo = repositories.NewGORMOrderRepository(db)
		userRepo = repositories.NewGORMUserRepository(db)
		brandRepo = repositories.NewGORMBrandRepository(db)
	} else {
		log.Println("DATABASE_DSN not set; using in-memory repositories")
		productRepo = repositories.NewMockProductRepository()
		orderRepo = repositories.NewMockOrderRepository()
		userRepo = repositories.NewMockUserRepository()
		brandRepo = repositories.NewMockBrandRepository()
		seedCatalog(brandRepo, productRepo)
	}

	// --- Initialize Fulfillment Client ---
	// Without an API key the mock quotes a flat rate and accepts every
	// submission, which keeps local development self-contained.
	var (
		rateResolver fulfillment.ShippingRateResolver
		submitter    fulfillment.OrderSubmitter
	)
	if apiKey := viper.GetString("FULFILLMENT_API_KEY"); apiKey != "" {
		client := fulfillment.NewClient(fulfillment.Config{
			BaseURL: viper.GetString("FULFILLMENT_API_URL"),
			APIKey:  apiKey,
			ShopID:  viper.GetString("FULFILLMENT_SHOP_ID"),
			Timeout: 15 * time.Second,
		})
		rateResolver = client
		submitter = client
	} else {
		log.Println("FULFILLMENT_API_KEY not set; using mock fulfillment client")
		mockFulfillment := fulfillment.NewMockClient(decimal.RequireFromString("4.99"))
		rateResolver = mockFulfillment
		submitter = mockFulfillment
	}

	// --- Initialize RabbitMQ Client ---
	var mqClient *rabbitmq.Client
	var publisher rabbitmq.EventPublisher
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
		publisher = mqClient
	} else {
		log.Println("RABBITMQ_URL not set; order events will not be published")
	}

	// --- Initialize Services ---
	orderService := services.NewOrderService(orderRepo, productRepo, userRepo, rateResolver, submitter, publisher)
	catalogService := services.NewCatalogService(productRepo, brandRepo)
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"))

	// --- Initialize Handlers ---
	orderHandler := handlers.NewOrderHandler(orderService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	authHandler := handlers.NewAuthHandler(authService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Auth routes are public; everything registered after the middleware
	// requires a valid token.
	authHandler.RegisterRoutes(apiV1)
	apiV1.Use(middleware.AuthRequired(authService))
	orderHandler.RegisterRoutes(apiV1)
	catalogHandler.RegisterRoutes(apiV1)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	// The consumer drains order lifecycle events; downstream processing
	// (emails, fulfillment status sync) hooks in here.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received order event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil // Return nil to acknowledge
			}
			if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	// Shutdown Fiber app
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	// RabbitMQ connection close is handled by defer in main
	log.Println("Server gracefully stopped")
}

// seedCatalog populates the in-memory repositories with a demo brand and a
// couple of products so the dev instance is usable out of the box.
func seedCatalog(brandRepo repositories.BrandRepository, productRepo repositories.ProductRepository) {
	brand := models.Brand{
		ID:      "brand-1",
		Name:    "Night Owl Records",
		Slug:    "night-owl-records",
		OwnerID: "user-1",
	}
	if err := brandRepo.Create(&brand); err != nil {
		log.Printf("Error seeding brand %s: %v", brand.Name, err)
	}

	products := []models.Product{
		{
			ID:      "prod-1",
			BrandID: brand.ID,
			Name:    "Tour T-Shirt",
			Variants: []models.Variant{
				{ID: "var-1", Title: "S / Black", Price: decimal.RequireFromString("19.99"), ExternalVariantID: "ext-var-1", Stock: 40},
				{ID: "var-2", Title: "M / Black", Price: decimal.RequireFromString("19.99"), ExternalVariantID: "ext-var-2", Stock: 35},
			},
		},
		{
			ID:      "prod-2",
			BrandID: brand.ID,
			Name:    "Logo Mug",
			Variants: []models.Variant{
				{ID: "var-3", Title: "11oz", Price: decimal.RequireFromString("12.50"), ExternalVariantID: "ext-var-3", Stock: 80},
			},
		},
	}
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
		}
	}
}
