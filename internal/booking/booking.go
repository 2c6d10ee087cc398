package booking

import (
	"context"
	"fmt"

	authhttp "booking-system/internal/auth/adapter/http"
	bookinghttp "booking-system/internal/booking/adapter/http"
	"booking-system/internal/booking/adapter/persistence/mongodb"
	"booking-system/internal/booking/config"
	"booking-system/internal/booking/domain/repository"
	"booking-system/internal/booking/usecase"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// BookingModule represents the complete booking module, including the
// background expiration sweeper.
type BookingModule struct {
	repository repository.BookingRepository
	usecase    usecase.BookingUsecaseInterface
	handler    *bookinghttp.BookingHTTPHandler
	sweeper    *usecase.Sweeper
	config     *config.Config
}

// NewBookingModule creates a new booking module instance.
func NewBookingModule(db *mongo.Database, cfg *config.Config, sweepLogger *zap.Logger) (*BookingModule, error) {
	repo, err := mongodb.NewMongoBookingRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking repository: %w", err)
	}

	bookingUsecase := usecase.NewBookingUsecase(repo)
	handler := bookinghttp.NewBookingHTTPHandler(bookingUsecase)
	sweeper := usecase.NewSweeper(repo, cfg.SweepInterval, sweepLogger)

	return &BookingModule{
		repository: repo,
		usecase:    bookingUsecase,
		handler:    handler,
		sweeper:    sweeper,
		config:     cfg,
	}, nil
}

// RegisterRoutes registers booking routes behind the provided auth middleware.
func (bm *BookingModule) RegisterRoutes(router fiber.Router, auth *authhttp.AuthMiddleware) {
	bm.handler.SetupBookingRoutes(router, auth)
}

// StartSweeper launches the periodic expiration sweep, optionally sweeping
// once immediately.
func (bm *BookingModule) StartSweeper(ctx context.Context) {
	if bm.config.SweepOnStart {
		bm.sweeper.RunOnce(ctx)
	}
	bm.sweeper.Start(ctx)
}

// GetUsecase returns the booking usecase for external access
func (bm *BookingModule) GetUsecase() usecase.BookingUsecaseInterface {
	return bm.usecase
}

// GetSweeper returns the expiration sweeper
func (bm *BookingModule) GetSweeper() *usecase.Sweeper {
	return bm.sweeper
}

// Stop terminates the sweeper; in-flight sweeps finish their single bulk
// delete first.
func (bm *BookingModule) Stop() error {
	bm.sweeper.Stop()
	return nil
}
