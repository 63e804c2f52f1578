package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hybridshare/pkg/logger"
)

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, logger.KeyError, attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestDomainAttrs(t *testing.T) {
	assert.Equal(t, "driver", logger.Driver("cache").Key)
	assert.Equal(t, "cache", logger.Driver("cache").Value.String())

	key := logger.StorageKey("hybridly_container__abc")
	assert.Equal(t, "storage_key", key.Key)
	assert.Equal(t, "hybridly_container__abc", key.Value.String())
	assert.True(t, logger.StorageKey("").Equal(slog.Attr{}))

	keys := logger.Keys([]string{"flash", "errors"})
	assert.Equal(t, "keys", keys.Key)
	assert.Equal(t, []string{"flash", "errors"}, keys.Value.Any())

	assert.Equal(t, "path", logger.Path("/users").Key)
	assert.Equal(t, "component", logger.Component("hybridshare").Key)
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
}

func TestEmptyAttrsAreDropped(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf))
	log.Info("synced", logger.Error(nil), logger.StorageKey(""), logger.Driver("session"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, logger.KeyError)
	assert.NotContains(t, entry, logger.KeyStorageKey)
	assert.Equal(t, "session", entry[logger.KeyDriver])
}
