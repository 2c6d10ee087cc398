package usecase_test

import (
	"context"
	"testing"
	"time"

	"booking-system/internal/auth/adapter/security"
	"booking-system/internal/auth/domain/model"
	"booking-system/internal/auth/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// Mock user repository
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// Mock session store
type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) Create(ctx context.Context, userID, displayName string) (*model.Session, error) {
	args := m.Called(ctx, userID, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionStore) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionStore) Destroy(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type AuthUsecaseTestSuite struct {
	suite.Suite
	mockUsers    *mockUserRepository
	mockSessions *mockSessionStore
	usecase      *usecase.AuthUsecase
}

func (suite *AuthUsecaseTestSuite) SetupTest() {
	suite.mockUsers = &mockUserRepository{}
	suite.mockSessions = &mockSessionStore{}
	// A low cost keeps the suite fast; the production wiring uses the default.
	suite.usecase = usecase.NewAuthUsecase(
		suite.mockUsers,
		suite.mockSessions,
		security.NewPasswordHasherWithCost(bcrypt.MinCost),
	)
}

func (suite *AuthUsecaseTestSuite) session(userID, name string) *model.Session {
	return &model.Session{
		ID:          "session-token",
		UserID:      userID,
		DisplayName: name,
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}
}

func (suite *AuthUsecaseTestSuite) TestRegister_Success() {
	// Arrange
	ctx := context.Background()
	email := "test@example.com"

	suite.mockUsers.On("GetUserByEmail", ctx, email).Return(nil, usecase.ErrUserNotFound)
	suite.mockUsers.On("CreateUser", ctx, mock.MatchedBy(func(user *model.User) bool {
		return user.Email == email && user.Name == "Test" && user.PasswordHash != "" && user.ID != ""
	})).Return(nil)
	suite.mockSessions.On("Create", ctx, mock.AnythingOfType("string"), "Test").
		Return(suite.session("ignored", "Test"), nil)

	// Act
	user, session, err := suite.usecase.Register(ctx, usecase.RegisterRequest{
		Name:     "Test",
		Email:    email,
		Password: "password123",
	})

	// Assert
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), user)
	require.NotNil(suite.T(), session)
	assert.Equal(suite.T(), email, user.Email)
	assert.Empty(suite.T(), user.PasswordHash)
	suite.mockUsers.AssertExpectations(suite.T())
	suite.mockSessions.AssertExpectations(suite.T())
}

func (suite *AuthUsecaseTestSuite) TestRegister_EmailTaken() {
	ctx := context.Background()
	email := "taken@example.com"
	existing := &model.User{ID: "user-1", Email: email}

	suite.mockUsers.On("GetUserByEmail", ctx, email).Return(existing, nil)

	user, session, err := suite.usecase.Register(ctx, usecase.RegisterRequest{
		Name:     "Test",
		Email:    email,
		Password: "password123",
	})

	assert.ErrorIs(suite.T(), err, usecase.ErrEmailTaken)
	assert.Nil(suite.T(), user)
	assert.Nil(suite.T(), session)
	suite.mockUsers.AssertNotCalled(suite.T(), "CreateUser")
	suite.mockSessions.AssertNotCalled(suite.T(), "Create")
}

func (suite *AuthUsecaseTestSuite) TestRegister_InvalidEmail() {
	user, session, err := suite.usecase.Register(context.Background(), usecase.RegisterRequest{
		Name:     "Test",
		Email:    "not-an-email",
		Password: "password123",
	})

	assert.ErrorIs(suite.T(), err, usecase.ErrInvalidEmailFormat)
	assert.Nil(suite.T(), user)
	assert.Nil(suite.T(), session)
}

func (suite *AuthUsecaseTestSuite) TestRegister_ShortPassword() {
	user, session, err := suite.usecase.Register(context.Background(), usecase.RegisterRequest{
		Name:     "Test",
		Email:    "test@example.com",
		Password: "short",
	})

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), user)
	assert.Nil(suite.T(), session)
}

func (suite *AuthUsecaseTestSuite) TestLogin_Success() {
	ctx := context.Background()
	email := "alice@example.com"

	hasher := security.NewPasswordHasherWithCost(bcrypt.MinCost)
	digest, err := hasher.Hash("correct-password")
	require.NoError(suite.T(), err)

	stored := &model.User{ID: "user-1", Name: "Alice", Email: email, PasswordHash: digest}
	suite.mockUsers.On("GetUserByEmail", ctx, email).Return(stored, nil)
	suite.mockSessions.On("Create", ctx, "user-1", "Alice").
		Return(suite.session("user-1", "Alice"), nil)

	user, session, err := suite.usecase.Login(ctx, usecase.LoginRequest{
		Email:    email,
		Password: "correct-password",
	})

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), session)
	assert.Equal(suite.T(), "user-1", session.UserID)
	assert.Empty(suite.T(), user.PasswordHash)
	suite.mockSessions.AssertExpectations(suite.T())
}

func (suite *AuthUsecaseTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	email := "alice@example.com"

	hasher := security.NewPasswordHasherWithCost(bcrypt.MinCost)
	digest, err := hasher.Hash("correct-password")
	require.NoError(suite.T(), err)

	stored := &model.User{ID: "user-1", Name: "Alice", Email: email, PasswordHash: digest}
	suite.mockUsers.On("GetUserByEmail", ctx, email).Return(stored, nil)

	user, session, err := suite.usecase.Login(ctx, usecase.LoginRequest{
		Email:    email,
		Password: "wrong-password",
	})

	assert.ErrorIs(suite.T(), err, usecase.ErrInvalidCredentials)
	assert.Nil(suite.T(), user)
	assert.Nil(suite.T(), session)
	suite.mockSessions.AssertNotCalled(suite.T(), "Create")
}

func (suite *AuthUsecaseTestSuite) TestLogin_UnknownEmail() {
	ctx := context.Background()

	suite.mockUsers.On("GetUserByEmail", ctx, "nobody@example.com").
		Return(nil, usecase.ErrUserNotFound)

	user, session, err := suite.usecase.Login(ctx, usecase.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})

	// Unknown email is indistinguishable from a wrong password.
	assert.ErrorIs(suite.T(), err, usecase.ErrInvalidCredentials)
	assert.Nil(suite.T(), user)
	assert.Nil(suite.T(), session)
	suite.mockSessions.AssertNotCalled(suite.T(), "Create")
}

func (suite *AuthUsecaseTestSuite) TestLogout_DestroysSession() {
	ctx := context.Background()
	suite.mockSessions.On("Destroy", ctx, "session-token").Return(nil)

	err := suite.usecase.Logout(ctx, "session-token")

	require.NoError(suite.T(), err)
	suite.mockSessions.AssertExpectations(suite.T())
}

func (suite *AuthUsecaseTestSuite) TestGetSession_NotFound() {
	ctx := context.Background()
	suite.mockSessions.On("Get", ctx, "gone").
		Return(nil, usecase.ErrSessionNotFound)

	session, err := suite.usecase.GetSession(ctx, "gone")

	assert.ErrorIs(suite.T(), err, usecase.ErrSessionNotFound)
	assert.Nil(suite.T(), session)
}

func (suite *AuthUsecaseTestSuite) TestGetUserByID_ClearsDigest() {
	ctx := context.Background()
	stored := &model.User{ID: "user-9", Name: "Dana", Email: "dana@example.com", PasswordHash: "digest"}
	suite.mockUsers.On("GetUserByID", ctx, "user-9").Return(stored, nil)

	user, err := suite.usecase.GetUserByID(ctx, "user-9")

	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), user.PasswordHash)
}

func TestAuthUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(AuthUsecaseTestSuite))
}
