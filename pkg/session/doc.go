// Package session provides cookie based client sessions backed by a pluggable
// Store. It is the session-scoped backend of hybridshare: the Manager exposes
// Get, Put and Forget of raw values addressed by the session id, which the
// session driver uses to persist a staged container across a redirect.
//
// # Usage
//
//	sessions := session.New(session.WithConfig(session.DefaultConfig()))
//	defer sessions.Close()
//
//	r := chi.NewRouter()
//	r.Use(sessions.Middleware) // every request gets a session in its context
//
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//	    sess := session.MustFromContext(r.Context())
//	    _ = sessions.Put(r.Context(), sess.ID.String(), "greeting", []byte("hi"))
//	})
//
// Tokens are 32 random bytes, URL-safe base64 encoded. Authenticate rotates
// the token and binds a user id, which the cache driver uses as identity.
// The session id is kept, so values stored before sign-in stay reachable.
//
// # Error Handling
//
//   - ErrInvalidSession:   nil session or empty token handed to a store
//   - ErrSessionExpired:   session has passed its expiry
//   - ErrSessionNotFound:  no session associated with token
//   - ErrTokenGeneration:  the system random source failed
package session
