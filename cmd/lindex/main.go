// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the lindex CLI.
// Implements: prd006-cli (command surface for prd001-prd005).
// See docs/ARCHITECTURE § Command Surface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lindex/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the lindex CLI.
var rootCmd = &cobra.Command{
	Use:   "lindex",
	Short: "Compute author L-index values from Google Scholar data",
	Long: `lindex resolves an author's Google Scholar profile, retrieves their
most cited publications, and computes the L-index: a citation-based,
author- and age-normalized, logarithmic measure of individual research
impact.

Use calculate to run a computation and history to browse archived runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./lindex.yaml or ~/.config/lindex/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory holding API key files")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lindex")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "lindex"))
		}
	}

	viper.SetEnvPrefix("LINDEX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
