package logger

import (
	"log/slog"
	"time"
)

// Attribute keys shared by every component, so log queries stay stable.
const (
	KeyError      = "error"
	KeyComponent  = "component"
	KeyDriver     = "driver"
	KeyStorageKey = "storage_key"
	KeyKeys       = "keys"
	KeyPath       = "path"
	KeyDuration   = "duration"
)

// Error returns an empty attribute for a nil error, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}

func Component(name string) slog.Attr { return slog.String(KeyComponent, name) }

// Driver records the flash storage driver kind.
func Driver(kind string) slog.Attr { return slog.String(KeyDriver, kind) }

// StorageKey records the backend key a container lives under. Empty keys are
// dropped.
func StorageKey(key string) slog.Attr {
	if key == "" {
		return slog.Attr{}
	}
	return slog.String(KeyStorageKey, key)
}

// Keys records container keys in container order.
func Keys(keys []string) slog.Attr { return slog.Any(KeyKeys, keys) }

func Path(p string) slog.Attr { return slog.String(KeyPath, p) }

func Duration(d time.Duration) slog.Attr { return slog.Duration(KeyDuration, d) }
