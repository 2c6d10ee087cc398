package http

import (
	"context"
	"time"

	"booking-system/internal/auth/usecase"
	"booking-system/internal/shared/contextkeys"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// AuthMiddleware provides session authentication middleware for Fiber
type AuthMiddleware struct {
	usecase    usecase.AuthUsecaseInterface
	cookieName string
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		usecase:    uc,
		cookieName: cookieName,
	}
}

// CORS middleware allowing the credentialed booking frontends
func (m *AuthMiddleware) CORS(allowOrigins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,HEAD,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	})
}

// RateLimiter creates rate limiting middleware for the credential endpoints
func (m *AuthMiddleware) RateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Get("X-Forwarded-For", c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"acknowledged": false,
				"error":        "Rate limit exceeded. Please try again later.",
			})
		},
	})
}

// RequestID middleware
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

// Restrict is the authentication gate: it admits a request only if it carries
// a valid, non-expired session bound to a user, and never invokes the
// downstream handler otherwise.
func (m *AuthMiddleware) Restrict() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(m.cookieName)
		if sessionID == "" {
			return unauthorized(c)
		}

		session, err := m.usecase.GetSession(c.Context(), sessionID)
		if err != nil {
			return unauthorized(c)
		}
		if !session.IsAuthenticated() {
			// Anonymous placeholder sessions never pass the gate.
			return unauthorized(c)
		}

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, session.UserID)
		ctx = context.WithValue(ctx, contextkeys.UserNameKey, session.DisplayName)
		ctx = context.WithValue(ctx, contextkeys.SessionIDKey, session.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"acknowledged": false,
		"error":        "Unauthorized",
	})
}
