package http

import (
	"errors"
	"time"

	"booking-system/internal/auth/domain/model"
	"booking-system/internal/auth/usecase"
	apperrors "booking-system/internal/shared/errors"
	"booking-system/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles HTTP requests for authentication
type AuthHTTPHandler struct {
	usecase        usecase.AuthUsecaseInterface
	cookieName     string
	cookiePath     string
	cookieDomain   string
	cookieSecure   bool
	cookieHTTPOnly bool
	cookieSameSite string
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(
	uc usecase.AuthUsecaseInterface,
	cookieName, cookiePath, cookieDomain string,
	cookieSecure, cookieHTTPOnly bool,
	cookieSameSite string,
) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		usecase:        uc,
		cookieName:     cookieName,
		cookiePath:     cookiePath,
		cookieDomain:   cookieDomain,
		cookieSecure:   cookieSecure,
		cookieHTTPOnly: cookieHTTPOnly,
		cookieSameSite: cookieSameSite,
	}
}

// SetupAuthRoutesWithMiddleware sets up authentication routes with middleware.
// The rate limiter is attached per credential route, not on the /user prefix:
// session polling against /user/active must never consume the login budget.
func (h *AuthHTTPHandler) SetupAuthRoutesWithMiddleware(router fiber.Router, middleware *AuthMiddleware) {
	credentialLimiter := middleware.RateLimiter()
	router.Post("/user/login", credentialLimiter, h.Login)
	router.Post("/user/register", credentialLimiter, h.Register)

	router.Get("/user/active", h.ActiveUser)

	// Protected routes (valid session required)
	router.Post("/user/logout", middleware.Restrict(), h.Logout)
}

// Register handles user registration and establishes a session
func (h *AuthHTTPHandler) Register(c *fiber.Ctx) error {
	var req usecase.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"acknowledged": false,
			"error":        "Invalid request body",
		})
	}

	user, session, err := h.usecase.Register(c.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"acknowledged": false,
				"error":        "Email already exists",
				"customError":  true,
			})
		}
		return respondError(c, err)
	}

	h.setSessionCookie(c, session)

	return c.JSON(fiber.Map{
		"acknowledged": true,
		"user":         user,
	})
}

// Login handles user login and establishes a session
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"acknowledged": false,
			"error":        "Invalid request body",
		})
	}

	user, session, err := h.usecase.Login(c.Context(), req)
	if err != nil {
		if apperrors.IsAuthentication(err) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"acknowledged": false,
				"error":        "Invalid username or password.",
				"customError":  true,
			})
		}
		return respondError(c, err)
	}

	h.setSessionCookie(c, session)

	return c.JSON(fiber.Map{
		"acknowledged": true,
		"user":         user,
	})
}

// ActiveUser reports the currently signed-in user, resolved from the session
// cookie without requiring the full gate.
func (h *AuthHTTPHandler) ActiveUser(c *fiber.Ctx) error {
	sessionID := c.Cookies(h.cookieName)
	if sessionID == "" {
		return unauthorized(c)
	}

	session, err := h.usecase.GetSession(c.Context(), sessionID)
	if err != nil || !session.IsAuthenticated() {
		return unauthorized(c)
	}

	return c.JSON(fiber.Map{
		"acknowledged": true,
		"user":         session.DisplayName,
		"userId":       session.UserID,
	})
}

// Logout destroys the current session and clears the cookie
func (h *AuthHTTPHandler) Logout(c *fiber.Ctx) error {
	sessionID, err := utils.GetSessionIDFromContext(c.UserContext())
	if err != nil {
		return unauthorized(c)
	}

	if err := h.usecase.Logout(c.Context(), sessionID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"acknowledged": false,
			"error":        "Internal Server Error",
		})
	}

	h.clearSessionCookie(c)

	return c.JSON(fiber.Map{
		"loggedin": false,
	})
}

// Helper methods

// respondError maps a failure from the usecase layer onto an HTTP response.
// Classified errors carry their own status code and client-safe message;
// anything else is treated as a bad request.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	message := err.Error()

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status = appErr.HTTPCode
		message = appErr.Message
	}

	return c.Status(status).JSON(fiber.Map{
		"acknowledged": false,
		"error":        message,
	})
}

func (h *AuthHTTPHandler) setSessionCookie(c *fiber.Ctx, session *model.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    session.ID,
		Path:     h.cookiePath,
		Domain:   h.cookieDomain,
		Secure:   h.cookieSecure,
		HTTPOnly: h.cookieHTTPOnly,
		SameSite: h.cookieSameSite,
		Expires:  session.ExpiresAt,
	})
}

func (h *AuthHTTPHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     h.cookiePath,
		Domain:   h.cookieDomain,
		MaxAge:   -1,
		Secure:   h.cookieSecure,
		HTTPOnly: h.cookieHTTPOnly,
		SameSite: h.cookieSameSite,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
