// Package config loads application configuration into typed structs.
//
// It wraps `github.com/joho/godotenv`, `github.com/caarlos0/env/v11` and
// `gopkg.in/yaml.v3`:
//
//   - LoadEnv loads one or multiple `.env` files (default: `.env` in the
//     working directory) into the process environment.
//   - Load parses the environment into any struct using `env` / `envDefault`
//     field tags. The default `.env` file is picked up automatically.
//   - LoadFile does the same and then overlays a YAML file, for settings that
//     do not fit environment variables well (typed defaults, nested maps).
//   - MustLoadEnv / MustLoad panic on failure for configuration that is
//     critical at startup.
//
// # Usage
//
//	type ServerConfig struct {
//	    Addr  string `env:"HTTP_ADDR" envDefault:":8080" yaml:"addr"`
//	    Debug bool   `env:"DEBUG" yaml:"debug"`
//	}
//
//	var cfg ServerConfig
//	if err := config.LoadFile("config.yaml", &cfg); err != nil {
//	    log.Fatalf("loading config: %v", err)
//	}
//
// # Error Handling
//
// Sentinel errors can be compared with `errors.Is`:
//
//   - `ErrParsingConfig`: failed to parse env vars into struct.
//   - `ErrReadingFile`:   the YAML file could not be read.
//   - `ErrParsingFile`:   the YAML file could not be decoded.
//   - `ErrNilPointer`:    nil target.
package config
