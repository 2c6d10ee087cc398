package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	authconfig "booking-system/internal/auth/config"
	bookingconfig "booking-system/internal/booking/config"
	"booking-system/internal/di"
	apperrors "booking-system/internal/shared/errors"
	"booking-system/internal/shared/logger"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:""`
	Port string `env:"PORT" envDefault:"3000"`

	// AllowOrigins lists the credentialed frontends admitted by CORS,
	// comma separated.
	AllowOrigins string `env:"ALLOW_ORIGINS" envDefault:"http://localhost:5002,http://127.0.0.1:5502"`
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Application configuration loaded successfully")

	container := di.NewContainer()
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	authCfg, err := authconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load auth configuration: %v", err)
	}

	bookingCfg, err := bookingconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load booking configuration: %v", err)
	}

	// Initialize MongoDB connection
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(authCfg.MongoDBURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Errorf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	appLogger.Info("MongoDB connection established successfully")

	mongoDB := mongoClient.Database(authCfg.DatabaseName)

	// Redis is only dialed when it backs the session store
	var redisClient *redis.Client
	if authCfg.SessionBackend == authconfig.BackendRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     authCfg.RedisAddr,
			Password: authCfg.RedisPassword,
			DB:       authCfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to ping Redis: %v", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				appLogger.Errorf("Failed to close Redis client: %v", err)
			}
		}()
		appLogger.Info("Redis connection established successfully")
	}

	if err := container.InitializeAuth(mongoDB, redisClient, authCfg); err != nil {
		log.Fatalf("Failed to initialize auth module: %v", err)
	}
	appLogger.Info("Auth module initialized successfully")

	// The sweeper logs through zap like the rest of the background machinery
	sweepLogger, err := newSweepLogger(authCfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create sweep logger: %v", err)
	}
	defer func() { _ = sweepLogger.Sync() }()

	if err := container.InitializeBooking(bookingCfg, sweepLogger); err != nil {
		log.Fatalf("Failed to initialize booking module: %v", err)
	}
	appLogger.Info("Booking module initialized successfully")

	// Setup HTTP server (Fiber) with middleware
	app := fiber.New(fiber.Config{
		AppName:      "Booking System API v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appLogger.Errorf("HTTP Error: %v", err)

			status := fiber.StatusInternalServerError
			message := "Internal Server Error"
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				status = appErr.HTTPCode
				message = appErr.Message
			}

			return c.Status(status).JSON(fiber.Map{
				"acknowledged": false,
				"error":        message,
			})
		},
	})

	authModule := container.GetAuthModule()
	bookingModule := container.GetBookingModule()
	authMiddleware := authModule.GetMiddleware()

	app.Use(recover.New())
	app.Use(authMiddleware.RequestID())
	app.Use(authMiddleware.CORS(serverCfg.AllowOrigins))

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Errorf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "UNHEALTHY",
				"error":  err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"message":   "Booking System API is running",
			"timestamp": time.Now().UTC(),
		})
	})

	api := app.Group("/api/v1")
	authModule.RegisterRoutes(api)
	bookingModule.RegisterRoutes(api, authMiddleware)
	appLogger.Info("Routes registered")

	// Start the expiration sweeper on its own timer
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	bookingModule.StartSweeper(sweepCtx)
	appLogger.Infof("Expiration sweeper started (interval %s)", bookingCfg.SweepInterval)

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			log.Fatalf("Server startup failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}

		appLogger.Info("HTTP server stopped")
	}
}

// newSweepLogger builds the zap logger used by the expiration sweeper.
func newSweepLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
