package auth

import (
	"fmt"

	authhttp "booking-system/internal/auth/adapter/http"
	"booking-system/internal/auth/adapter/persistence/mongodb"
	redisstore "booking-system/internal/auth/adapter/persistence/redis"
	"booking-system/internal/auth/adapter/security"
	"booking-system/internal/auth/config"
	"booking-system/internal/auth/domain/repository"
	"booking-system/internal/auth/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuthModule represents the complete authentication module
type AuthModule struct {
	users    repository.UserRepository
	sessions repository.SessionStore
	usecase  usecase.AuthUsecaseInterface
	handler  *authhttp.AuthHTTPHandler
	config   *config.Config
}

// NewAuthModule creates a new authentication module instance. The Redis
// client may be nil unless the configured session backend is redis.
func NewAuthModule(db *mongo.Database, redisClient *redis.Client, cfg *config.Config) (*AuthModule, error) {
	userRepo, err := mongodb.NewMongoUserRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	var sessionStore repository.SessionStore
	switch cfg.SessionBackend {
	case config.BackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("session backend is redis but no redis client was provided")
		}
		sessionStore = redisstore.NewRedisSessionStore(redisClient, cfg.SessionTTL)
	default:
		sessionStore, err = mongodb.NewMongoSessionStore(db, cfg.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create session store: %w", err)
		}
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, sessionStore, security.NewPasswordHasher())

	handler := authhttp.NewAuthHTTPHandler(
		authUsecase,
		cfg.CookieName,
		cfg.CookiePath,
		cfg.CookieDomain,
		cfg.CookieSecure(),
		cfg.CookieHTTPOnly,
		cfg.CookieSameSite,
	)

	return &AuthModule{
		users:    userRepo,
		sessions: sessionStore,
		usecase:  authUsecase,
		handler:  handler,
		config:   cfg,
	}, nil
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	am.handler.SetupAuthRoutesWithMiddleware(router, am.GetMiddleware())
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return authhttp.NewAuthMiddleware(am.usecase, am.config.CookieName)
}

// GetSessionStore returns the configured session store
func (am *AuthModule) GetSessionStore() repository.SessionStore {
	return am.sessions
}

// Stop performs cleanup when the module is shut down
func (am *AuthModule) Stop() error {
	return nil
}
