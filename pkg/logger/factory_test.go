package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hybridshare/pkg/logger"
)

type requestIDKey struct{}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry), buf.String())
	return entry
}

func TestNew_Defaults(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf))

	log.Debug("share booted")
	assert.Empty(t, buf.String())

	log.Info("share synced", logger.Keys([]string{"flash"}))
	entry := lastEntry(t, buf)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "share synced", entry["msg"])
	assert.Equal(t, []any{"flash"}, entry["keys"])
}

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name string
		opts []logger.Option
		json bool
	}{
		{"text", []logger.Option{logger.WithTextFormatter()}, false},
		{"json after text", []logger.Option{logger.WithTextFormatter(), logger.WithJSONFormatter()}, true},
		{"explicit", []logger.Option{logger.WithFormat(logger.FormatText)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger.New(append(tt.opts, logger.WithOutput(buf))...).Info("flushed", logger.Driver("cache"))
			if tt.json {
				assert.Equal(t, "cache", lastEntry(t, buf)["driver"])
				return
			}
			assert.Contains(t, buf.String(), "driver=cache")
		})
	}

	assert.Panics(t, func() { logger.WithFormat("xml") })
}

func TestNew_ContextValues(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithAttr(logger.Component("hybridshare")),
		logger.WithContextValue("request_id", requestIDKey{}),
		logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
			return logger.Path("/profile"), ctx.Value(requestIDKey{}) != nil
		}),
	)

	log.InfoContext(context.Background(), "no request")
	entry := lastEntry(t, buf)
	assert.NotContains(t, entry, "request_id")
	assert.NotContains(t, entry, "path")
	assert.Equal(t, "hybridshare", entry["component"])

	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-7")
	log.With(logger.Driver("session")).WithGroup("share").InfoContext(ctx, "synced", "n", 2)
	entry = lastEntry(t, buf)
	assert.Equal(t, "session", entry["driver"])
	share, ok := entry["share"].(map[string]any)
	require.True(t, ok, entry)
	assert.Equal(t, "req-7", share["request_id"])
	assert.Equal(t, "/profile", share["path"])
	assert.Equal(t, float64(2), share["n"])
}

func TestEnvironmentPresets(t *testing.T) {
	tests := []struct {
		env       string
		wantEnv   string
		wantDebug bool
		wantJSON  bool
	}{
		{"production", logger.EnvProduction, false, true},
		{" PROD ", logger.EnvProduction, false, true},
		{"stage", logger.EnvStaging, false, true},
		{"staging", logger.EnvStaging, false, true},
		{"development", logger.EnvDevelopment, true, false},
		{"local", logger.EnvDevelopment, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := logger.New(logger.WithEnvironment(tt.env, "demo"), logger.WithOutput(buf))

			log.Debug("share booted")
			assert.Equal(t, tt.wantDebug, buf.Len() > 0)

			log.Info("share synced")
			if tt.wantJSON {
				entry := lastEntry(t, buf)
				assert.Equal(t, tt.wantEnv, entry["env"])
				assert.Equal(t, "demo", entry["service"])
				return
			}
			assert.Contains(t, buf.String(), "env="+tt.wantEnv)
			assert.Contains(t, buf.String(), "service=demo")
		})
	}

	t.Run("empty service keeps defaults", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(logger.WithProduction(""), logger.WithOutput(buf)).Info("x")
		assert.NotContains(t, lastEntry(t, buf), "env")
	})
}

func TestSetAsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &bytes.Buffer{}
	logger.SetAsDefault(logger.New(logger.WithOutput(buf)))
	slog.Info("via default")
	assert.Equal(t, "via default", lastEntry(t, buf)["msg"])
}

func TestParseLevel(t *testing.T) {
	l, err := logger.ParseLevel(" warn ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	_, err = logger.ParseLevel("loud")
	assert.Error(t, err)
}

func TestWithLevelName(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithLevelName("error"))
	log.Warn("dropped")
	assert.Empty(t, buf.String())

	buf.Reset()
	log = logger.New(logger.WithOutput(buf), logger.WithLevelName("nonsense"))
	log.Info("kept")
	assert.Contains(t, buf.String(), "kept")
}
