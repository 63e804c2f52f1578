package hybridshare_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hybridshare"
	"github.com/dmitrymomot/hybridshare/pkg/session"
)

const (
	testToken     = "token-1"
	testSessionID = "6f1c2a52-6d0e-4c57-9a7e-0c4b7f1e2d10"
)

// memSessionStore is a SessionStore keeping raw values per session id.
type memSessionStore struct {
	mu   sync.Mutex
	data map[string]map[string][]byte
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{data: make(map[string]map[string][]byte)}
}

func (s *memSessionStore) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[sessionID][key], nil
}

func (s *memSessionStore) Put(_ context.Context, sessionID, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[sessionID] == nil {
		s.data[sessionID] = make(map[string][]byte)
	}
	s.data[sessionID][key] = value
	return nil
}

func (s *memSessionStore) Forget(_ context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[sessionID], key)
	return nil
}

func (s *memSessionStore) raw(sessionID, key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[sessionID][key]
}

func testSession(userID *uuid.UUID) *session.Session {
	sess := session.NewSession(testToken, userID, time.Hour)
	sess.ID = uuid.MustParse(testSessionID)
	return sess
}

func guestContext() context.Context {
	return session.WithSession(context.Background(), testSession(nil))
}

func userContext(userID uuid.UUID) context.Context {
	return session.WithSession(context.Background(), testSession(&userID))
}

func newRequest(ctx context.Context, path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
}

func bootShare(t *testing.T, m *hybridshare.Manager, ctx context.Context, path string) *hybridshare.Share {
	t.Helper()
	s, err := m.New(ctx, newRequest(ctx, path))
	require.NoError(t, err)
	return s
}

func sessionKey() string {
	return hybridshare.DefaultConfig().PrefixKey + "_" + testSessionID
}
