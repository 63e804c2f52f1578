package hybridshare

import "time"

// Store names accepted by Config.SessionStore and Config.CacheStore.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds the runtime options. Load it with pkg/config:
//
//	var cfg hybridshare.Config
//	if err := config.LoadFile("hybridshare.yaml", &cfg); err != nil { ... }
type Config struct {
	// PrefixKey prefixes every storage key; the identity follows after "_".
	PrefixKey string `env:"HYBRIDSHARE_PREFIX_KEY" envDefault:"hybridly_container_" yaml:"prefix_key"`

	// Driver is "session" or "cache". Other values fail when the first share boots.
	Driver DriverKind `env:"HYBRIDSHARE_DRIVER" envDefault:"session" yaml:"driver"`

	SessionStore string `env:"HYBRIDSHARE_SESSION_STORE" envDefault:"memory" yaml:"session_store"`
	CacheStore   string `env:"HYBRIDSHARE_CACHE_STORE" envDefault:"memory" yaml:"cache_store"`

	// CacheTTL applies to every cache driver write.
	CacheTTL time.Duration `env:"HYBRIDSHARE_CACHE_TTL" envDefault:"60s" yaml:"cache_ttl"`

	// CacheCapacity bounds the in-memory cache store.
	CacheCapacity int `env:"HYBRIDSHARE_CACHE_CAPACITY" envDefault:"10000" yaml:"cache_capacity"`

	// PersistentKeys are always present in synced output, nil when never shared.
	PersistentKeys []string `env:"HYBRIDSHARE_PERSISTENT_KEYS" envSeparator:"," yaml:"persistent_keys"`

	// PersistentKeyDefaults are persistent keys with a typed default value.
	PersistentKeyDefaults map[string]any `yaml:"persistent_key_defaults"`

	IgnoreURLs []string `env:"HYBRIDSHARE_IGNORE_URLS" envSeparator:"," envDefault:"broadcasting/auth,health*,metrics*,debug/*,nova-api*,filament-api*,telescope*,horizon*,_debugbar*,_ignition*" yaml:"ignore_urls"`

	// Flush clears driver state after every sync.
	Flush bool `env:"HYBRIDSHARE_FLUSH" envDefault:"true" yaml:"flush"`
}

// DefaultIgnoreURLs mirrors the IgnoreURLs env default.
var DefaultIgnoreURLs = []string{
	"broadcasting/auth",
	"health*",
	"metrics*",
	"debug/*",
	"nova-api*",
	"filament-api*",
	"telescope*",
	"horizon*",
	"_debugbar*",
	"_ignition*",
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		PrefixKey:     "hybridly_container_",
		Driver:        DriverSession,
		SessionStore:  StoreMemory,
		CacheStore:    StoreMemory,
		CacheTTL:      60 * time.Second,
		CacheCapacity: 10000,
		IgnoreURLs:    append([]string(nil), DefaultIgnoreURLs...),
		Flush:         true,
	}
}
