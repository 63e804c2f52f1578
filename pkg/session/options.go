package session

import "time"

// Option configures a Manager.
type Option func(*Manager)

// WithStore replaces the default in-memory store. The Manager does not close it.
func WithStore(store Store) Option {
	return func(m *Manager) { m.store = store }
}

func WithConfig(config Config) Option {
	return func(m *Manager) { m.config = config }
}

func WithCookieName(name string) Option {
	return func(m *Manager) { m.config.CookieName = name }
}

func WithLifetime(lifetime time.Duration) Option {
	return func(m *Manager) { m.config.Lifetime = lifetime }
}

// WithErrorHandler overrides the plain 500 response written by Middleware.
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *Manager) {
		if h != nil {
			m.onError = h
		}
	}
}
