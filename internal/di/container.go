package di

import (
	"context"
	"fmt"
	"sync"
	"time"

	"booking-system/internal/auth"
	authconfig "booking-system/internal/auth/config"
	"booking-system/internal/booking"
	bookingconfig "booking-system/internal/booking/config"
	"booking-system/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Container wires the modules together and owns their lifecycle.
type Container struct {
	mu sync.RWMutex
	// Module instances
	AuthModule    *auth.AuthModule
	BookingModule *booking.BookingModule
	// Database connections
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	// Configuration
	AuthConfig    *authconfig.Config
	BookingConfig *bookingconfig.Config
	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container
func NewContainer() *Container {
	return &Container{}
}

// InitializeAuth initializes the authentication module. The Redis client may
// be nil unless the configured session backend is redis.
func (c *Container) InitializeAuth(mongoDB *mongo.Database, redisClient *redis.Client, cfg *authconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoDB = mongoDB
	c.RedisClient = redisClient
	c.AuthConfig = cfg

	authModule, err := auth.NewAuthModule(mongoDB, redisClient, cfg)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}

	c.AuthModule = authModule
	return nil
}

// InitializeBooking initializes the booking module, including its sweeper.
func (c *Container) InitializeBooking(cfg *bookingconfig.Config, sweepLogger *zap.Logger) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.AuthModule == nil {
		return fmt.Errorf("auth module must be initialized before booking module")
	}
	if c.MongoDB == nil {
		return fmt.Errorf("MongoDB must be initialized before booking module")
	}

	if c.Logger == nil {
		c.Logger = logger.NewLogger()
	}

	c.BookingConfig = cfg

	bookingModule, err := booking.NewBookingModule(c.MongoDB, cfg, sweepLogger)
	if err != nil {
		return fmt.Errorf("failed to create booking module: %w", err)
	}

	c.BookingModule = bookingModule
	return nil
}

// GetAuthModule returns the auth module instance
func (c *Container) GetAuthModule() *auth.AuthModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// GetBookingModule returns the booking module instance
func (c *Container) GetBookingModule() *booking.BookingModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.BookingModule
}

// HealthCheck performs health check on the container's backing stores
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB != nil {
		if err := c.MongoDB.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}

	return nil
}

// Cleanup stops the modules in dependency order: the sweeper stops before
// the stores it writes to go away.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.BookingModule != nil {
		if err := c.BookingModule.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop booking module: %w", err))
		}
		c.BookingModule = nil
	}

	if c.AuthModule != nil {
		if err := c.AuthModule.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop auth module: %w", err))
		}
		c.AuthModule = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}

	return nil
}

// Close gracefully shuts down all services in the container with timeout
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		return err
	}

	return nil
}
