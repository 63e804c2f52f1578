package view

import (
	"context"
	"net/http"
)

type propsContextKey struct{}

// WithProps attaches props to the context.
func WithProps(ctx context.Context, p *Props) context.Context {
	return context.WithValue(ctx, propsContextKey{}, p)
}

// FromContext returns the props attached to the context.
func FromContext(ctx context.Context) (*Props, bool) {
	p, ok := ctx.Value(propsContextKey{}).(*Props)
	return p, ok && p != nil
}

// Ensure returns the props attached to ctx, attaching fresh ones when missing.
func Ensure(ctx context.Context) (context.Context, *Props) {
	if p, ok := FromContext(ctx); ok {
		return ctx, p
	}
	p := NewProps()
	return WithProps(ctx, p), p
}

// Middleware gives every request its own shared props.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := Ensure(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
