package hybridshare

import (
	"context"
	"sync"
)

type shareContextKey struct{}

// shareSlot builds the request Share on first use.
type shareSlot struct {
	once  sync.Once
	build func(ctx context.Context) (*Share, error)
	share *Share
	err   error
}

func (s *shareSlot) get(ctx context.Context) (*Share, error) {
	s.once.Do(func() {
		s.share, s.err = s.build(ctx)
	})
	return s.share, s.err
}

func withShareSlot(ctx context.Context, slot *shareSlot) context.Context {
	return context.WithValue(ctx, shareContextKey{}, slot)
}

// WithShare binds s to the context.
func WithShare(ctx context.Context, s *Share) context.Context {
	slot := &shareSlot{share: s}
	slot.once.Do(func() {})
	return withShareSlot(ctx, slot)
}

// FromContext returns the Share bound to ctx, booting it on first access when
// it was attached by Manager.Middleware.
func FromContext(ctx context.Context) (*Share, error) {
	slot, ok := ctx.Value(shareContextKey{}).(*shareSlot)
	if !ok || slot == nil {
		return nil, ErrNoShare
	}
	return slot.get(ctx)
}

// MustFromContext works like FromContext but panics on failure.
func MustFromContext(ctx context.Context) *Share {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
