package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hybridshare"
	"github.com/dmitrymomot/hybridshare/pkg/redis"
	"github.com/dmitrymomot/hybridshare/pkg/session"
	"github.com/dmitrymomot/hybridshare/pkg/view"
)

func testConfig() appConfig {
	return appConfig{
		Env:     "development",
		Addr:    ":0",
		Share:   hybridshare.DefaultConfig(),
		Session: session.DefaultConfig(),
	}
}

type client struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, a *app) *client {
	t.Helper()
	t.Cleanup(func() { _ = a.Close() })
	return &client{t: t, handler: a.routes(), cookies: make(map[string]*http.Cookie)}
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set(view.HeaderHybrid, "true")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) props() map[string]any {
	c.t.Helper()
	rec := c.do(http.MethodGet, "/", nil)
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	var page view.PageObject
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &page))
	return page.Props
}

func TestApp_FlashFlow(t *testing.T) {
	a, err := newApp(testConfig(), slog.New(slog.DiscardHandler), nil)
	require.NoError(t, err)
	c := newClient(t, a)

	first := c.props()
	assert.Equal(t, "session", first["driver"])
	assert.NotContains(t, first, "flash")

	rec := c.do(http.MethodPost, "/flash", url.Values{"message": {"Hello"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	props := c.props()
	assert.Equal(t, "Hello", props["flash"])
	assert.NotEmpty(t, props["flashed_at"])

	assert.NotContains(t, c.props(), "flash")
}

func TestApp_ValidationErrorsAndForget(t *testing.T) {
	a, err := newApp(testConfig(), slog.New(slog.DiscardHandler), nil)
	require.NoError(t, err)
	c := newClient(t, a)
	c.props()

	c.do(http.MethodPost, "/errors", url.Values{"field": {"name"}})
	c.do(http.MethodPost, "/errors", url.Values{"field": {"email"}})
	props := c.props()
	assert.Equal(t, []any{
		map[string]any{"name": "is invalid"},
		map[string]any{"email": "is invalid"},
	}, props["errors"])

	c.do(http.MethodPost, "/errors", nil)
	assert.Equal(t, "Nothing to validate", c.props()["flash"])

	c.do(http.MethodPost, "/flash", url.Values{"message": {"kept"}})
	c.do(http.MethodPost, "/forget", url.Values{"key": {"flashed_at"}})
	props = c.props()
	assert.Equal(t, "kept", props["flash"])
	assert.NotContains(t, props, "flashed_at")

	c.do(http.MethodPost, "/flash", nil)
	c.do(http.MethodPost, "/forget", url.Values{})
	assert.NotContains(t, c.props(), "flash")
}

func TestApp_LoginWithSessionDriver(t *testing.T) {
	a, err := newApp(testConfig(), slog.New(slog.DiscardHandler), nil)
	require.NoError(t, err)
	c := newClient(t, a)
	c.props()
	before := c.cookies[session.DefaultConfig().CookieName].Value

	c.do(http.MethodPost, "/errors", url.Values{"field": {"name"}})
	rec := c.do(http.MethodPost, "/login", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.NotEqual(t, before, c.cookies[session.DefaultConfig().CookieName].Value)

	props := c.props()
	assert.Equal(t, "Signed in", props["flash"])
	assert.Equal(t, []any{map[string]any{"name": "is invalid"}}, props["errors"])
	assert.NotContains(t, c.props(), "flash")
}

func TestApp_CacheDriverWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	cfg := testConfig()
	cfg.Share.Driver = hybridshare.DriverCache
	cfg.Share.CacheStore = hybridshare.StoreRedis
	cfg.Redis = redis.Config{KeyPrefix: "demo:"}

	a, err := newApp(cfg, slog.New(slog.DiscardHandler), redis.NewStorageWithConfig(rc, cfg.Redis), redis.Healthcheck(rc))
	require.NoError(t, err)
	c := newClient(t, a)
	c.props()

	c.do(http.MethodPost, "/flash", url.Values{"message": {"cached"}})
	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "demo:hybridly_container__"))
	assert.Equal(t, "cached", c.props()["flash"])
	assert.Empty(t, mr.Keys())

	rec := c.do(http.MethodPost, "/login", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Signed in", c.props()["flash"])

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz/ready", nil).Code)
	mr.SetError("ERR server unavailable")
	assert.Equal(t, http.StatusServiceUnavailable, c.do(http.MethodGet, "/healthz/ready", nil).Code)
}

func TestApp_OperationalEndpoints(t *testing.T) {
	failing := func(context.Context) error { return errors.New("down") }
	a, err := newApp(testConfig(), slog.New(slog.DiscardHandler), nil, failing)
	require.NoError(t, err)
	c := newClient(t, a)

	rec := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	rec = c.do(http.MethodGet, "/healthz/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	c.props()
	c.do(http.MethodPost, "/flash", nil)
	rec = c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hybridshare_operations_total{op="share"} 2`)
	assert.Contains(t, rec.Body.String(), `hybridshare_syncs_total{result="ok"} 1`)
}

func TestAppConfig_Validate(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.validate())

	cfg.Share.Driver = "redis"
	assert.ErrorIs(t, cfg.validate(), hybridshare.ErrDriverNotSupported)

	cfg = testConfig()
	cfg.Share.CacheStore = "memcached"
	assert.Error(t, cfg.validate())

	cfg = testConfig()
	cfg.Share.SessionStore = "database"
	assert.Error(t, cfg.validate())
}
