// Package hybridshare stages values during a request and hands them to the
// view layer when the page renders, persisting them in between so they
// survive a redirect.
//
// A Manager is created once per process from a Config. Manager.Middleware
// gives every request a lazily booted Share; handlers reach it with
// FromContext. Booting a Share loads what a previous request left in the
// driver and removes it from the driver, so values are delivered once.
//
// Every mutation (Share, Append, Forget, ...) is written through to the
// driver. At render time the Share is synced into the request's view.Props:
// persistent keys first, then every staged value.
//
// # Drivers
//
// Two drivers are available, selected by Config.Driver:
//
//   - "session" stores the container in the client session (SessionStore,
//     implemented by *session.Manager).
//   - "cache" stores it in a TTL cache keyed by identity (CacheStore,
//     implemented by *cache.Store and *redis.Storage). The identity is the
//     authenticated user id, the session id for guests, or whatever
//     ForUser binds.
//
// Storage keys are Config.PrefixKey + "_" + identity.
//
// # Deferred values
//
// Go funcs cannot cross a storage boundary. Register a named Resolver and
// share a Deferred instead:
//
//	m := hybridshare.NewManager(cfg,
//		hybridshare.WithResolver("unread", func(ctx context.Context, args json.RawMessage) (any, error) {
//			var userID string
//			if err := json.Unmarshal(args, &userID); err != nil {
//				return nil, err
//			}
//			return notifications.Unread(ctx, userID)
//		}),
//	)
//
//	d, _ := m.Codec().Defer("unread", userID)
//	_ = share.Share(ctx, "unread", d)
//
// Decoded deferred values are *Lazy and resolve when the page renders.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Use(sessions.Middleware, view.Middleware, m.Middleware)
//
//	r.Post("/profile", func(w http.ResponseWriter, r *http.Request) {
//		resp, err := hybridshare.RedirectWith(r.Context(), "/profile", map[string]any{
//			"flash": "Profile updated",
//		})
//		if err != nil {
//			http.Error(w, err.Error(), http.StatusInternalServerError)
//			return
//		}
//		_ = resp.Render(w, r)
//	})
package hybridshare
