package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "booking-system context key " + string(c)
}

// UserIDKey is the key for the authenticated user's ID in context.Context
const UserIDKey = contextKey("userID")

// UserNameKey is the key for the authenticated user's display name in context.Context
const UserNameKey = contextKey("userName")

// SessionIDKey is the key for the resolved session ID in context.Context
const SessionIDKey = contextKey("sessionID")

// RequestIDKey is the key for the request ID in context.Context
const RequestIDKey = contextKey("requestID")

// ComponentKey is the key for the component name in context.Context
const ComponentKey = contextKey("component")

// OperationKey is the key for the operation name in context.Context
const OperationKey = contextKey("operation")
