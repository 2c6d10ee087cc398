package http

import (
	"errors"
	"time"

	authhttp "booking-system/internal/auth/adapter/http"
	"booking-system/internal/booking/domain/model"
	"booking-system/internal/booking/usecase"
	apperrors "booking-system/internal/shared/errors"
	"booking-system/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// bookingLocalsKey is where the ownership gate stashes the loaded booking so
// the handler does not fetch it a second time.
const bookingLocalsKey = "booking"

// BookingHTTPHandler handles HTTP requests for bookings
type BookingHTTPHandler struct {
	usecase usecase.BookingUsecaseInterface
}

// NewBookingHTTPHandler creates a new booking HTTP handler
func NewBookingHTTPHandler(uc usecase.BookingUsecaseInterface) *BookingHTTPHandler {
	return &BookingHTTPHandler{usecase: uc}
}

// SetupBookingRoutes sets up booking routes behind the authentication gate;
// per-resource routes additionally pass the ownership gate.
func (h *BookingHTTPHandler) SetupBookingRoutes(router fiber.Router, auth *authhttp.AuthMiddleware) {
	restricted := router.Group("/bookings", auth.Restrict())
	restricted.Get("/", h.ListBookings)
	restricted.Post("/", h.CreateBooking)

	owned := restricted.Group("/:id", h.RequireOwnership())
	owned.Get("/", h.GetBooking)
	owned.Delete("/", h.DeleteBooking)

	router.Get("/user/booking", auth.Restrict(), h.UserBooking)
}

// RequireOwnership is the ownership gate: it loads the booking targeted by
// the :id parameter and admits the request only when the authenticated
// session's user owns it. The loaded booking is stashed in request locals.
func (h *BookingHTTPHandler) RequireOwnership() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.GetUserIDFromContext(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"acknowledged": false,
				"error":        "Unauthorized",
			})
		}

		booking, err := h.usecase.GetBooking(c.Context(), c.Params("id"))
		if err != nil {
			if apperrors.IsNotFound(err) {
				return notFound(c)
			}
			return storeError(c, err)
		}

		if !booking.IsOwnedBy(userID) {
			// A logged-in user may never touch another user's booking.
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"acknowledged": false,
				"error":        "Forbidden",
			})
		}

		c.Locals(bookingLocalsKey, booking)
		return c.Next()
	}
}

// ListBookings returns the caller's bookings.
func (h *BookingHTTPHandler) ListBookings(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"acknowledged": false,
			"error":        "Unauthorized",
		})
	}

	bookings, err := h.usecase.ListUserBookings(c.Context(), userID)
	if err != nil {
		return storeError(c, err)
	}

	return c.JSON(fiber.Map{
		"acknowledged": true,
		"bookings":     bookings,
	})
}

// GetBooking returns the booking already loaded by the ownership gate.
func (h *BookingHTTPHandler) GetBooking(c *fiber.Ctx) error {
	booking, ok := c.Locals(bookingLocalsKey).(*model.Booking)
	if !ok {
		return notFound(c)
	}

	return c.JSON(fiber.Map{
		"acknowledged": true,
		"booking":      booking,
	})
}

// CreateBooking creates a booking owned by the session user.
func (h *BookingHTTPHandler) CreateBooking(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"acknowledged": false,
			"error":        "Unauthorized",
		})
	}

	var req struct {
		Date time.Time `json:"date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"acknowledged": false,
			"error":        "Invalid request body",
		})
	}

	booking, err := h.usecase.CreateBooking(c.Context(), userID, req.Date)
	if err != nil {
		return storeError(c, err)
	}

	return c.JSON(fiber.Map{
		"acknowledged": true,
		"booking":      booking,
	})
}

// DeleteBooking deletes the booking already vetted by the ownership gate.
func (h *BookingHTTPHandler) DeleteBooking(c *fiber.Ctx) error {
	booking, ok := c.Locals(bookingLocalsKey).(*model.Booking)
	if !ok {
		return notFound(c)
	}

	if err := h.usecase.DeleteBooking(c.Context(), booking.ID); err != nil {
		if apperrors.IsNotFound(err) {
			// Raced with the sweeper or a concurrent delete; already gone.
			return notFound(c)
		}
		return storeError(c, err)
	}

	return c.JSON(fiber.Map{
		"acknowledged": true,
		"message":      "Booking #" + booking.ID + " successfully deleted",
	})
}

// UserBooking returns the signed-in user's soonest booking.
func (h *BookingHTTPHandler) UserBooking(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"acknowledged": false,
			"error":        "Unauthorized",
		})
	}

	booking, err := h.usecase.FirstUserBooking(c.Context(), userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// No booking yet is not an error for this endpoint.
			return c.JSON(fiber.Map{
				"acknowledged": true,
				"booking":      nil,
			})
		}
		return storeError(c, err)
	}

	return c.JSON(fiber.Map{
		"acknowledged": true,
		"booking":      booking,
	})
}

// Helpers

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"acknowledged": false,
		"error":        "No booking found with the provided ID",
	})
}

// storeError maps a failure from the usecase layer onto an HTTP response.
// Classified errors carry their own status code and client-safe message;
// anything else is treated as a bad request.
func storeError(c *fiber.Ctx, err error) error {
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
