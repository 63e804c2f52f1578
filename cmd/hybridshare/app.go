package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/hybridshare"
	"github.com/dmitrymomot/hybridshare/pkg/logger"
	"github.com/dmitrymomot/hybridshare/pkg/session"
	"github.com/dmitrymomot/hybridshare/pkg/view"
)

type app struct {
	cfg      appConfig
	log      *slog.Logger
	sessions *session.Manager
	shares   *hybridshare.Manager
	registry *prometheus.Registry
	checks   []func(context.Context) error
}

// serverTime resolves the "server_time" deferred value at render time.
func serverTime(context.Context, json.RawMessage) (any, error) {
	return time.Now().UTC().Format(time.RFC3339), nil
}

func newApp(cfg appConfig, log *slog.Logger, cacheStore hybridshare.CacheStore, checks ...func(context.Context) error) (*app, error) {
	registry := prometheus.NewRegistry()
	metrics, err := hybridshare.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	sessions := session.New(session.WithConfig(cfg.Session))

	opts := []hybridshare.Option{
		hybridshare.WithSessionStore(sessions),
		hybridshare.WithLogger(log),
		hybridshare.WithMetrics(metrics),
		hybridshare.WithResolver("server_time", serverTime),
	}
	if cacheStore != nil {
		opts = append(opts, hybridshare.WithCacheStore(cacheStore))
	}

	return &app{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		shares:   hybridshare.NewManager(cfg.Share, opts...),
		registry: registry,
		checks:   checks,
	}, nil
}

func (a *app) Close() error {
	return a.sessions.Close()
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", a.health(false))
	r.Get("/healthz/ready", a.health(true))
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(a.sessions.Middleware)
		r.Use(view.Middleware)
		r.Use(a.shares.Middleware)

		r.Get("/", a.home)
		r.Post("/flash", a.flash)
		r.Post("/errors", a.validationErrors)
		r.Post("/forget", a.forget)
		r.Post("/login", a.login)
	})

	return r
}

func (a *app) home(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, view.Page("Home", map[string]any{
		"driver": a.cfg.Share.Driver.String(),
	}, view.WithVersion(version)))
}

func (a *app) flash(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	message := r.FormValue("message")
	if message == "" {
		message = "Saved"
	}

	s, err := hybridshare.FromContext(ctx)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	stamp, err := a.shares.Codec().Defer("server_time", nil)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := s.Share(ctx, "flashed_at", stamp); err != nil {
		a.fail(w, r, err)
		return
	}

	resp, err := hybridshare.RedirectWith(ctx, "/", map[string]any{"flash": message})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.render(w, r, resp)
}

func (a *app) validationErrors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	field := r.FormValue("field")

	s, err := hybridshare.FromContext(ctx)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	err = s.AppendIf(ctx, field != "", "errors", map[string]any{field: "is invalid"})
	if err == nil {
		err = s.ShareUnless(ctx, field != "", "flash", "Nothing to validate")
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.render(w, r, view.Redirect("/"))
}

func (a *app) forget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, err := hybridshare.FromContext(ctx)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if keys := r.Form["key"]; len(keys) > 0 {
		err = s.Forget(ctx, keys...)
	} else {
		err = s.Flush(ctx)
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.render(w, r, view.Redirect("/"))
}

// login signs in a fresh user and flashes a greeting. The session driver
// keeps working across the token rotation because it is bound to the session
// id. With the cache driver, state staged as a guest moves to the user's key
// through ForUser.
func (a *app) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := a.sessions.Authenticate(ctx, w, r, uuid.New())
	if err != nil {
		a.fail(w, r, err)
		return
	}

	s, err := hybridshare.FromContext(ctx)
	if err == nil && s.Driver().Kind() == hybridshare.DriverCache {
		err = s.ForUser(hybridshare.Identity(sess.UserID.String()))
	}
	if err == nil {
		err = s.Share(ctx, "flash", "Signed in")
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.render(w, r, view.Redirect("/"))
}

func (a *app) health(ready bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ready {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}
		for _, check := range a.checks {
			if err := check(r.Context()); err != nil {
				a.log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}

func (a *app) render(w http.ResponseWriter, r *http.Request, resp view.Response) {
	if err := resp.Render(w, r); err != nil {
		a.fail(w, r, err)
	}
}

func (a *app) fail(w http.ResponseWriter, r *http.Request, err error) {
	a.log.ErrorContext(r.Context(), "request failed", logger.Path(r.URL.Path), logger.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (a *app) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.log.DebugContext(r.Context(), "request",
			slog.String("method", r.Method),
			logger.Path(r.URL.Path),
			slog.Int("status", ww.Status()),
			logger.Duration(time.Since(start)),
		)
	})
}
