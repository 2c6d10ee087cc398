package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"booking-system/internal/auth/adapter/security"
	"booking-system/internal/auth/domain/model"
	"booking-system/internal/auth/domain/repository"
	apperrors "booking-system/internal/shared/errors"

	"github.com/google/uuid"
)

// Usecase-level sentinels, re-exported from the shared taxonomy so callers
// can match on either.
var (
	ErrEmailTaken         = apperrors.ErrEmailTaken
	ErrUserNotFound       = apperrors.ErrUserNotFound
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials
	ErrSessionNotFound    = apperrors.ErrSessionNotFound
	ErrInvalidEmailFormat = errors.New("invalid email format")
)

// Password validation constants
const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, *model.Session, error)
	Login(ctx context.Context, req LoginRequest) (*model.User, *model.Session, error)
	Logout(ctx context.Context, sessionID string) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
}

// RegisterRequest represents the registration request. The field names match
// the wire format the booking frontend has always sent.
type RegisterRequest struct {
	Name     string `json:"regName"`
	Email    string `json:"regEmail"`
	Password string `json:"regPass"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"loginEmail"`
	Password string `json:"loginPass"`
}

// AuthUsecase implements the authentication logic.
type AuthUsecase struct {
	users    repository.UserRepository
	sessions repository.SessionStore
	hasher   *security.PasswordHasher
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	users repository.UserRepository,
	sessions repository.SessionStore,
	hasher *security.PasswordHasher,
) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
	}
}

// validateEmail validates email format
func (uc *AuthUsecase) validateEmail(email string) error {
	if email == "" {
		return apperrors.NewValidationError("email is required")
	}
	if !emailRegex.MatchString(email) {
		return apperrors.NewValidationError("invalid email format").WithCause(ErrInvalidEmailFormat)
	}
	return nil
}

// validatePassword validates password length bounds
func (uc *AuthUsecase) validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordLength {
		return apperrors.NewValidationError(fmt.Sprintf("password must be at most %d characters", maxPasswordLength))
	}
	return nil
}

// Register creates a new user and establishes a session for it.
func (uc *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*model.User, *model.Session, error) {
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, nil, err
	}
	if err := uc.validatePassword(req.Password); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, nil, apperrors.NewValidationError("name is required")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := uc.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrEmailTaken
	}

	digest, err := uc.hasher.Hash(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: digest,
	}

	if err := uc.users.CreateUser(ctx, user); err != nil {
		// The unique email index closes the check-then-insert race.
		if errors.Is(err, ErrEmailTaken) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := uc.sessions.Create(ctx, user.ID, user.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	user.PasswordHash = ""
	return user, session, nil
}

// Login authenticates a user and establishes a session. Unknown email and
// wrong password are indistinguishable to the caller.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*model.User, *model.Session, error) {
	if req.Email == "" || req.Password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := uc.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := uc.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := uc.sessions.Create(ctx, user.ID, user.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	user.PasswordHash = ""
	return user, session, nil
}

// Logout destroys the session. Destroying an already-absent session succeeds.
func (uc *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if err := uc.sessions.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// GetSession resolves a session by its opaque identifier.
func (uc *AuthUsecase) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// GetUserByID retrieves a user by ID with the password digest cleared.
func (uc *AuthUsecase) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user.PasswordHash = ""
	return user, nil
}

// Ensure AuthUsecase implements AuthUsecaseInterface
var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
