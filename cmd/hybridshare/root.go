package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "hybridshare",
	Short:   "Flash and shared props that survive redirects",
	Long:    `hybridshare runs a demo application wiring the share container, its drivers and the view layer.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML file overlaying environment configuration")
	rootCmd.PersistentFlags().StringSlice("env-file", nil, "Additional .env files, later files win")
}
