// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the stumpage CLI: a batch pipeline
// that extracts stumpage price tables from state bulletin PDFs into a
// structured dataset, plus a price index and bulletin fetcher around it.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mihiarc/stumpage/internal/logging"
	"github.com/mihiarc/stumpage/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the stumpage CLI.
var rootCmd = &cobra.Command{
	Use:   "stumpage",
	Short: "Extract timber stumpage prices from state bulletin PDFs",
	Long: `stumpage turns state timber price bulletins into a structured dataset.
The parse command runs the extraction pipeline over a directory of report
PDFs and writes a CSV table; index, query, and export maintain a SQLite
price index across runs; fetch downloads known bulletins.

Source sites often sit behind bot protection, so acquisition is best-effort:
the pipeline itself only ever reads already-downloaded local files.`,
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return logging.Init(logConfig())
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./stumpage.yaml or ~/.config/stumpage/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("stumpage")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "stumpage"))
		}
	}

	viper.SetEnvPrefix("STUMPAGE")
	viper.AutomaticEnv()

	viper.SetDefault("locator.input_dir", "reports")
	viper.SetDefault("output.path", "stumpage_prices.csv")
	viper.SetDefault("store.db_path", "stumpage.db")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func logConfig() types.LogConfig {
	cfg := types.LogConfig{
		Level:  viper.GetString("log.level"),
		Format: viper.GetString("log.format"),
	}
	if lvl, _ := rootCmd.PersistentFlags().GetString("log-level"); lvl != "" {
		cfg.Level = lvl
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
