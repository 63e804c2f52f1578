package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Manager handles session operations
type Manager struct {
	store   Store
	config  Config
	owned   *MemoryStore
	onError ErrorHandler
}

// New creates a new session manager with the given options.
// Without WithStore an in-memory store is used and closed by Close.
func New(opts ...Option) *Manager {
	m := &Manager{config: DefaultConfig(), onError: defaultErrorHandler}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.owned = NewMemoryStore(m.config.CleanupInterval)
		m.store = m.owned
	}

	return m
}

// Ensure returns the request's session, creating a new anonymous one when the
// cookie is missing, unknown or expired
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	if session, err := m.current(ctx, r); err == nil {
		return session, nil
	}

	session, err := m.create(ctx, nil)
	if err != nil {
		return nil, err
	}

	m.setCookie(w, session)
	return session, nil
}

// Authenticate binds userID to the request's session and rotates its token
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*Session, error) {
	session, err := m.current(ctx, r)
	if err != nil {
		session, err = m.create(ctx, &userID)
		if err != nil {
			return nil, err
		}
		m.setCookie(w, session)
		return session, nil
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	_ = m.store.Delete(ctx, session.Token)

	session.Token = token
	session.UserID = &userID
	session.ExpiresAt = time.Now().Add(m.config.Lifetime)

	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	m.setCookie(w, session)
	return session, nil
}

// Destroy deletes the request's session and clears the cookie
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if c, err := r.Cookie(m.config.CookieName); err == nil && c.Value != "" {
		if err := m.store.Delete(ctx, c.Value); err != nil {
			return err
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Get returns the raw value stored under key in the session with the given
// id. A missing session or key yields nil without error.
func (m *Manager) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	session, err := m.byID(ctx, sessionID)
	if isGone(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	raw, ok := session.GetString(key)
	if !ok {
		return nil, nil
	}
	return []byte(raw), nil
}

// Put stores value under key in the session with the given id.
func (m *Manager) Put(ctx context.Context, sessionID, key string, value []byte) error {
	session, err := m.byID(ctx, sessionID)
	if err != nil {
		return err
	}

	session.Set(key, string(value))
	return m.store.Update(ctx, session)
}

// Forget removes key from the session with the given id. Forgetting from a
// missing session is a no-op.
func (m *Manager) Forget(ctx context.Context, sessionID, key string) error {
	session, err := m.byID(ctx, sessionID)
	if isGone(err) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, ok := session.Get(key); !ok {
		return nil
	}

	session.Delete(key)
	return m.store.Update(ctx, session)
}

// Close releases the store created by New, if any
func (m *Manager) Close() error {
	if m.owned != nil {
		return m.owned.Close()
	}
	return nil
}

func (m *Manager) byID(ctx context.Context, sessionID string) (*Session, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return m.store.GetByID(ctx, id)
}

func isGone(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired)
}

func (m *Manager) current(ctx context.Context, r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.config.CookieName)
	if err != nil || c.Value == "" {
		return nil, ErrSessionNotFound
	}
	return m.store.Get(ctx, c.Value)
}

func (m *Manager) create(ctx context.Context, userID *uuid.UUID) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	session := NewSession(token, userID, m.config.Lifetime)
	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (m *Manager) setCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(m.config.Lifetime.Seconds()),
		HttpOnly: true,
		Secure:   m.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// generateToken creates a cryptographically secure token
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
