package http_test

import (
	"context"

	"booking-system/internal/auth/domain/model"
	"booking-system/internal/auth/usecase"

	"github.com/stretchr/testify/mock"
)

// mockAuthUsecase is a testify mock for usecase.AuthUsecaseInterface shared
// by the middleware and router tests.
type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) Register(ctx context.Context, req usecase.RegisterRequest) (*model.User, *model.Session, error) {
	args := m.Called(ctx, req)
	var user *model.User
	var session *model.Session
	if args.Get(0) != nil {
		user = args.Get(0).(*model.User)
	}
	if args.Get(1) != nil {
		session = args.Get(1).(*model.Session)
	}
	return user, session, args.Error(2)
}

func (m *mockAuthUsecase) Login(ctx context.Context, req usecase.LoginRequest) (*model.User, *model.Session, error) {
	args := m.Called(ctx, req)
	var user *model.User
	var session *model.Session
	if args.Get(0) != nil {
		user = args.Get(0).(*model.User)
	}
	if args.Get(1) != nil {
		session = args.Get(1).(*model.Session)
	}
	return user, session, args.Error(2)
}

func (m *mockAuthUsecase) Logout(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *mockAuthUsecase) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockAuthUsecase) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

var _ usecase.AuthUsecaseInterface = (*mockAuthUsecase)(nil)
