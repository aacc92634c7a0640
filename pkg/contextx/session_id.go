package contextx

import "context"

// SessionID is the appraisal session a request works on.
type SessionID string

func (s SessionID) String() string {
	return string(s)
}

func WithSessionID(ctx context.Context, sessionID SessionID) context.Context {
	return withValue(ctx, sessionID)
}

func SessionIDFromContext(ctx context.Context) (SessionID, error) {
	return valueFrom[SessionID](ctx, "session id")
}
