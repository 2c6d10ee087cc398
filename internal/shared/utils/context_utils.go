package utils

import (
	"context"
	"errors"

	"booking-system/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrUserIDNotFound     = errors.New("userID not found in context")
	ErrUserIDNotString    = errors.New("userID in context is not a string")
	ErrUserNameNotFound   = errors.New("userName not found in context")
	ErrUserNameNotString  = errors.New("userName in context is not a string")
	ErrSessionIDNotFound  = errors.New("sessionID not found in context")
	ErrSessionIDNotString = errors.New("sessionID in context is not a string")
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
)

// GetUserIDFromContext retrieves the authenticated user's ID from the context.
// It returns an error if the user ID is not found or is not a string.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.UserIDKey)
	if val == nil {
		return "", ErrUserIDNotFound
	}
	userID, ok := val.(string)
	if !ok {
		return "", ErrUserIDNotString
	}
	return userID, nil
}

// GetUserNameFromContext retrieves the authenticated user's display name from the context.
func GetUserNameFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.UserNameKey)
	if val == nil {
		return "", ErrUserNameNotFound
	}
	userName, ok := val.(string)
	if !ok {
		return "", ErrUserNameNotString
	}
	return userName, nil
}

// GetSessionIDFromContext retrieves the session ID from the context.
func GetSessionIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.SessionIDKey)
	if val == nil {
		return "", ErrSessionIDNotFound
	}
	sessionID, ok := val.(string)
	if !ok {
		return "", ErrSessionIDNotString
	}
	return sessionID, nil
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotString
	}
	return requestID, nil
}

// Context builder functions

// WithUserID adds the user ID to context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}

// WithUserName adds the user display name to context
func WithUserName(ctx context.Context, userName string) context.Context {
	return context.WithValue(ctx, contextkeys.UserNameKey, userName)
}

// WithSessionID adds the session ID to context
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextkeys.SessionIDKey, sessionID)
}

// WithRequestID adds the request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithComponent adds the component name to context
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}

// WithOperation adds the operation name to context
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// Optional getters that return default values instead of errors

// GetUserIDOrDefault retrieves the user ID from context or returns a default value
func GetUserIDOrDefault(ctx context.Context, def string) string {
	if v, err := GetUserIDFromContext(ctx); err == nil {
		return v
	}
	return def
}

// GetSessionIDOrDefault retrieves the session ID from context or returns a default value
func GetSessionIDOrDefault(ctx context.Context, def string) string {
	if v, err := GetSessionIDFromContext(ctx); err == nil {
		return v
	}
	return def
}

// HasUserID reports whether an authenticated user ID is present in the context.
func HasUserID(ctx context.Context) bool {
	_, err := GetUserIDFromContext(ctx)
	return err == nil
}

// HasSessionID reports whether a session ID is present in the context.
func HasSessionID(ctx context.Context) bool {
	_, err := GetSessionIDFromContext(ctx)
	return err == nil
}
