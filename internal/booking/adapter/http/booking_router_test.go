package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authhttp "booking-system/internal/auth/adapter/http"
	authmodel "booking-system/internal/auth/domain/model"
	authusecase "booking-system/internal/auth/usecase"
	bookinghttp "booking-system/internal/booking/adapter/http"
	"booking-system/internal/booking/domain/model"
	"booking-system/internal/booking/usecase"
	apperrors "booking-system/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testCookieName = "booking_session"

// Mock auth usecase, only the session path matters for these routes.
type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) Register(ctx context.Context, req authusecase.RegisterRequest) (*authmodel.User, *authmodel.Session, error) {
	args := m.Called(ctx, req)
	var user *authmodel.User
	var session *authmodel.Session
	if args.Get(0) != nil {
		user = args.Get(0).(*authmodel.User)
	}
	if args.Get(1) != nil {
		session = args.Get(1).(*authmodel.Session)
	}
	return user, session, args.Error(2)
}

func (m *mockAuthUsecase) Login(ctx context.Context, req authusecase.LoginRequest) (*authmodel.User, *authmodel.Session, error) {
	args := m.Called(ctx, req)
	var user *authmodel.User
	var session *authmodel.Session
	if args.Get(0) != nil {
		user = args.Get(0).(*authmodel.User)
	}
	if args.Get(1) != nil {
		session = args.Get(1).(*authmodel.Session)
	}
	return user, session, args.Error(2)
}

func (m *mockAuthUsecase) Logout(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *mockAuthUsecase) GetSession(ctx context.Context, sessionID string) (*authmodel.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authmodel.Session), args.Error(1)
}

func (m *mockAuthUsecase) GetUserByID(ctx context.Context, userID string) (*authmodel.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authmodel.User), args.Error(1)
}

// Mock booking usecase
type mockBookingUsecase struct {
	mock.Mock
}

func (m *mockBookingUsecase) CreateBooking(ctx context.Context, ownerID string, date time.Time) (*model.Booking, error) {
	args := m.Called(ctx, ownerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *mockBookingUsecase) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *mockBookingUsecase) ListUserBookings(ctx context.Context, userID string) ([]*model.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Booking), args.Error(1)
}

func (m *mockBookingUsecase) FirstUserBooking(ctx context.Context, userID string) (*model.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *mockBookingUsecase) DeleteBooking(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type BookingRouterTestSuite struct {
	suite.Suite
	app         *fiber.App
	mockAuth    *mockAuthUsecase
	mockBooking *mockBookingUsecase
}

func (suite *BookingRouterTestSuite) SetupTest() {
	suite.mockAuth = &mockAuthUsecase{}
	suite.mockBooking = &mockBookingUsecase{}

	suite.app = fiber.New()
	handler := bookinghttp.NewBookingHTTPHandler(suite.mockBooking)
	auth := authhttp.NewAuthMiddleware(suite.mockAuth, testCookieName)
	api := suite.app.Group("/api/v1")
	handler.SetupBookingRoutes(api, auth)
}

// withSession arranges a valid authenticated session for the given user.
func (suite *BookingRouterTestSuite) withSession(sessionID, userID string) {
	suite.mockAuth.On("GetSession", mock.Anything, sessionID).Return(&authmodel.Session{
		ID:          sessionID,
		UserID:      userID,
		DisplayName: "Test User",
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}, nil)
}

func (suite *BookingRouterTestSuite) request(method, target, body, sessionID string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: sessionID})
	}

	resp, err := suite.app.Test(req)
	require.NoError(suite.T(), err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func (suite *BookingRouterTestSuite) TestListBookings_ReturnsOwnBookings() {
	suite.withSession("session-1", "user-1")
	suite.mockBooking.On("ListUserBookings", mock.Anything, "user-1").Return([]*model.Booking{
		{ID: "b1", UserID: "user-1"},
	}, nil)

	resp := suite.request("GET", "/api/v1/bookings", "", "session-1")

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	payload := decodeBody(suite.T(), resp)
	assert.Equal(suite.T(), true, payload["acknowledged"])
	require.Len(suite.T(), payload["bookings"], 1)
}

func (suite *BookingRouterTestSuite) TestListBookings_Unauthenticated() {
	resp := suite.request("GET", "/api/v1/bookings", "", "")

	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
	suite.mockBooking.AssertNotCalled(suite.T(), "ListUserBookings")
}

func (suite *BookingRouterTestSuite) TestCreateBooking_UsesSessionOwner() {
	suite.withSession("session-1", "user-1")
	date := time.Date(2026, 10, 1, 14, 0, 0, 0, time.UTC)
	suite.mockBooking.On("CreateBooking", mock.Anything, "user-1", date).
		Return(&model.Booking{ID: "b1", UserID: "user-1", Date: date}, nil)

	resp := suite.request("POST", "/api/v1/bookings",
		`{"date":"2026-10-01T14:00:00Z"}`, "session-1")

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	payload := decodeBody(suite.T(), resp)
	assert.Equal(suite.T(), true, payload["acknowledged"])
	suite.mockBooking.AssertExpectations(suite.T())
}

func (suite *BookingRouterTestSuite) TestGetBooking_Owner() {
	suite.withSession("session-1", "user-1")
	suite.mockBooking.On("GetBooking", mock.Anything, "b1").
		Return(&model.Booking{ID: "b1", UserID: "user-1"}, nil)

	resp := suite.request("GET", "/api/v1/bookings/b1", "", "session-1")

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	payload := decodeBody(suite.T(), resp)
	booking := payload["booking"].(map[string]interface{})
	assert.Equal(suite.T(), "b1", booking["id"])
}

func (suite *BookingRouterTestSuite) TestGetBooking_NonOwnerForbidden() {
	suite.withSession("session-2", "user-2")
	suite.mockBooking.On("GetBooking", mock.Anything, "b1").
		Return(&model.Booking{ID: "b1", UserID: "user-1"}, nil)

	resp := suite.request("GET", "/api/v1/bookings/b1", "", "session-2")

	assert.Equal(suite.T(), http.StatusForbidden, resp.StatusCode)
	payload := decodeBody(suite.T(), resp)
	assert.Equal(suite.T(), "Forbidden", payload["error"])
}

func (suite *BookingRouterTestSuite) TestGetBooking_AbsentNotFound() {
	suite.withSession("session-1", "user-1")
	suite.mockBooking.On("GetBooking", mock.Anything, "missing").
		Return(nil, usecase.ErrBookingNotFound)

	resp := suite.request("GET", "/api/v1/bookings/missing", "", "session-1")

	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
	payload := decodeBody(suite.T(), resp)
	assert.Equal(suite.T(), "No booking found with the provided ID", payload["error"])
}

func (suite *BookingRouterTestSuite) TestDeleteBooking_Owner() {
	suite.withSession("session-1", "user-1")
	suite.mockBooking.On("GetBooking", mock.Anything, "b1").
		Return(&model.Booking{ID: "b1", UserID: "user-1"}, nil)
	suite.mockBooking.On("DeleteBooking", mock.Anything, "b1").Return(nil)

	resp := suite.request("DELETE", "/api/v1/bookings/b1", "", "session-1")

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	payload := decodeBody(suite.T(), resp)
	assert.Equal(suite.T(), "Booking #b1 successfully deleted", payload["message"])
}

func (suite *BookingRouterTestSuite) TestDeleteBooking_RacedAlreadyGone() {
	suite.withSession("session-1", "user-1")
	suite.mockBooking.On("GetBooking", mock.Anything, "b1").
		Return(&model.Booking{ID: "b1", UserID: "user-1"}, nil)
	suite.mockBooking.On("DeleteBooking", mock.Anything, "b1").
		Return(usecase.ErrBookingNotFound)

	resp := suite.request("DELETE", "/api/v1/bookings/b1", "", "session-1")

	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
}

func (suite *BookingRouterTestSuite) TestDeleteBooking_NonOwnerNeverDeletes() {
	suite.withSession("session-2", "user-2")
	suite.mockBooking.On("GetBooking", mock.Anything, "b1").
		Return(&model.Booking{ID: "b1", UserID: "user-1"}, nil)

	resp := suite.request("DELETE", "/api/v1/bookings/b1", "", "session-2")

	assert.Equal(suite.T(), http.StatusForbidden, resp.StatusCode)
	suite.mockBooking.AssertNotCalled(suite.T(), "DeleteBooking")
}

func (suite *BookingRouterTestSuite) TestUserBooking_NoneIsNotAnError() {
	suite.withSession("session-1", "user-1")
	suite.mockBooking.On("FirstUserBooking", mock.Anything, "user-1").
		Return(nil, usecase.ErrBookingNotFound)

	resp := suite.request("GET", "/api/v1/user/booking", "", "session-1")

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	payload := decodeBody(suite.T(), resp)
	assert.Equal(suite.T(), true, payload["acknowledged"])
	assert.Nil(suite.T(), payload["booking"])
}

func (suite *BookingRouterTestSuite) TestUserBooking_Unauthenticated() {
	resp := suite.request("GET", "/api/v1/user/booking", "", "")

	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
}

func (suite *BookingRouterTestSuite) TestCreateBooking_InfrastructureError_Returns500() {
	suite.withSession("session-1", "user-1")
	storeErr := apperrors.NewInfrastructureError("failed to persist booking").
		WithComponent("mongodb.booking_repo")
	suite.mockBooking.On("CreateBooking", mock.Anything, "user-1", mock.Anything).
		Return(nil, storeErr)

	resp := suite.request("POST", "/api/v1/bookings",
		`{"date":"2026-10-01T14:00:00Z"}`, "session-1")

	assert.Equal(suite.T(), http.StatusInternalServerError, resp.StatusCode)
	payload := decodeBody(suite.T(), resp)
	assert.Equal(suite.T(), false, payload["acknowledged"])
	assert.Equal(suite.T(), "failed to persist booking", payload["error"])
}

func (suite *BookingRouterTestSuite) TestCreateBooking_ValidationError_Returns400() {
	suite.withSession("session-1", "user-1")
	suite.mockBooking.On("CreateBooking", mock.Anything, "user-1", mock.Anything).
		Return(nil, usecase.ErrDateRequired)

	resp := suite.request("POST", "/api/v1/bookings",
		`{"date":"0001-01-01T00:00:00Z"}`, "session-1")

	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	payload := decodeBody(suite.T(), resp)
	assert.Equal(suite.T(), false, payload["acknowledged"])
}

func TestBookingRouterTestSuite(t *testing.T) {
	suite.Run(t, new(BookingRouterTestSuite))
}
