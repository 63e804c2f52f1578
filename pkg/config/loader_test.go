package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hybridshare/pkg/config"
)

type testConfig struct {
	Name    string         `env:"TEST_CFG_NAME" envDefault:"default" yaml:"name"`
	TTL     time.Duration  `env:"TEST_CFG_TTL" envDefault:"60s" yaml:"ttl"`
	Enabled bool           `env:"TEST_CFG_ENABLED" envDefault:"true" yaml:"enabled"`
	Items   []string       `env:"TEST_CFG_ITEMS" envSeparator:"," yaml:"items"`
	Extra   map[string]any `yaml:"extra"`
}

type requiredConfig struct {
	Value string `env:"TEST_CFG_REQUIRED,required"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultValues(t *testing.T) {
	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "default", cfg.Name)
	assert.Equal(t, 60*time.Second, cfg.TTL)
	assert.True(t, cfg.Enabled)
	assert.Empty(t, cfg.Items)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TEST_CFG_NAME", "from-env")
	t.Setenv("TEST_CFG_ITEMS", "a,b,c")
	t.Setenv("TEST_CFG_ENABLED", "false")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Items)
	assert.False(t, cfg.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("nil pointer", func(t *testing.T) {
		var cfg *testConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("missing required", func(t *testing.T) {
		var cfg requiredConfig
		assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("TEST_CFG_TTL", "soon")
		var cfg testConfig
		assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
	})

	t.Run("must load panics", func(t *testing.T) {
		assert.Panics(t, func() {
			var cfg requiredConfig
			config.MustLoad(&cfg)
		})
	})
}

func TestLoadEnv(t *testing.T) {
	base := writeFile(t, ".env.base", "TEST_CFG_NAME=base\nTEST_CFG_ITEMS=x,y\n")
	override := writeFile(t, ".env.override", "TEST_CFG_NAME=override\n")

	t.Cleanup(func() {
		_ = os.Unsetenv("TEST_CFG_NAME")
		_ = os.Unsetenv("TEST_CFG_ITEMS")
	})

	require.NoError(t, config.LoadEnv(base, override))

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "override", cfg.Name)
	assert.Equal(t, []string{"x", "y"}, cfg.Items)

	assert.Error(t, config.LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
	assert.Panics(t, func() { config.MustLoadEnv(filepath.Join(t.TempDir(), "missing.env")) })
}

func TestLoadFile(t *testing.T) {
	t.Run("file overlays environment", func(t *testing.T) {
		t.Setenv("TEST_CFG_NAME", "from-env")
		t.Setenv("TEST_CFG_ENABLED", "false")
		path := writeFile(t, "config.yaml", `
name: from-file
ttl: 5m
items: [one, two]
extra:
  errors: {}
  count: 0
`)

		var cfg testConfig
		require.NoError(t, config.LoadFile(path, &cfg))

		assert.Equal(t, "from-file", cfg.Name)
		assert.Equal(t, 5*time.Minute, cfg.TTL)
		assert.False(t, cfg.Enabled)
		assert.Equal(t, []string{"one", "two"}, cfg.Items)
		assert.Equal(t, map[string]any{"errors": map[string]any{}, "count": 0}, cfg.Extra)
	})

	t.Run("missing file", func(t *testing.T) {
		var cfg testConfig
		err := config.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
		assert.ErrorIs(t, err, config.ErrReadingFile)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "name: [unterminated")
		var cfg testConfig
		err := config.LoadFile(path, &cfg)
		assert.ErrorIs(t, err, config.ErrParsingFile)
	})
}
