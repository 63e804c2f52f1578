package session

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session put there by Middleware or WithSession.
func FromContext(ctx context.Context) (*Session, bool) {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s, s != nil
}

// MustFromContext panics when the request did not pass through Middleware.
func MustFromContext(ctx context.Context) *Session {
	s, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return s
}

// TokenFromContext returns the current session token, the identity of
// session-scoped values.
func TokenFromContext(ctx context.Context) (string, bool) {
	if s, ok := FromContext(ctx); ok && s.Token != "" {
		return s.Token, true
	}
	return "", false
}

// IDFromContext returns the current session id. Unlike the token it stays
// the same when Authenticate rotates the token.
func IDFromContext(ctx context.Context) (string, bool) {
	if s, ok := FromContext(ctx); ok && s.ID != uuid.Nil {
		return s.ID.String(), true
	}
	return "", false
}

// UserIDFromContext returns the authenticated user id in string form.
func UserIDFromContext(ctx context.Context) (string, bool) {
	if s, ok := FromContext(ctx); ok && s.IsAuthenticated() {
		return s.UserID.String(), true
	}
	return "", false
}
