package session

import (
	"context"

	"github.com/google/uuid"
)

// Store persists sessions keyed by token and indexed by id. The id survives
// token rotation. Get and GetByID must return ErrSessionNotFound or
// ErrSessionExpired for unusable sessions; the Manager treats both as "no
// session". Implementations must not hand out sessions sharing Data maps.
type Store interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, token string) error
}
