package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/hybridshare"
	"github.com/dmitrymomot/hybridshare/pkg/config"
	"github.com/dmitrymomot/hybridshare/pkg/redis"
	"github.com/dmitrymomot/hybridshare/pkg/session"
)

type appConfig struct {
	Env             string        `env:"APP_ENV" envDefault:"development" yaml:"env"`
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080" yaml:"addr"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s" yaml:"shutdown_timeout"`

	Share   hybridshare.Config `yaml:"share"`
	Session session.Config     `yaml:"session"`
	Redis   redis.Config       `yaml:"redis"`
}

func (c appConfig) validate() error {
	if _, err := hybridshare.ParseDriverKind(string(c.Share.Driver)); err != nil {
		return err
	}
	if c.Share.SessionStore != hybridshare.StoreMemory {
		return fmt.Errorf("unsupported session store %q", c.Share.SessionStore)
	}
	switch c.Share.CacheStore {
	case hybridshare.StoreMemory, hybridshare.StoreRedis:
	default:
		return fmt.Errorf("unsupported cache store %q", c.Share.CacheStore)
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (appConfig, error) {
	var cfg appConfig

	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	if len(envFiles) > 0 {
		if err := config.LoadEnv(envFiles...); err != nil {
			return cfg, err
		}
	}

	path, _ := cmd.Flags().GetString("config")
	var err error
	if path != "" {
		err = config.LoadFile(path, &cfg)
	} else {
		err = config.Load(&cfg)
	}
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
